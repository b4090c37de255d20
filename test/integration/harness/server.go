package harness

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const startupTimeout = 10 * time.Second

// Server is a background `issuetree serve` process.
type Server struct {
	BaseURL string

	cmd      *exec.Cmd
	stderr   bytes.Buffer
	stopOnce sync.Once
	stopErr  error
}

// Response is a buffered HTTP response from the server.
type Response struct {
	Body   []byte
	Header http.Header
	Status int
}

// StartServer runs the service on a free loopback port and waits for /health.
// The process is stopped when the test completes.
func StartServer(tb testing.TB, env *TestEnvironment, args ...string) *Server {
	tb.Helper()

	port := freePort(tb)
	argv := append([]string{"serve", "--port", strconv.Itoa(port)}, args...)

	s := &Server{BaseURL: fmt.Sprintf("http://127.0.0.1:%d", port)}
	s.cmd = exec.Command(binaryPath, argv...)
	s.cmd.Env = env.Environ()
	s.cmd.Stderr = &s.stderr

	if err := s.cmd.Start(); err != nil {
		tb.Fatalf("Failed to start server: %v", err)
	}
	tb.Cleanup(func() { _ = s.Stop() })

	deadline := time.Now().Add(startupTimeout)
	for {
		resp, err := http.Get(s.BaseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return s
			}
		}
		if time.Now().After(deadline) {
			_ = s.Stop()
			tb.Fatalf("Server did not become healthy within %v\nStderr: %s", startupTimeout, s.stderr.String())
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// Stop interrupts the server and waits for it to exit. It returns the
// process exit error, which is nil after a graceful shutdown.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		if err := s.cmd.Process.Signal(os.Interrupt); err != nil {
			s.stopErr = err
			return
		}
		done := make(chan error, 1)
		go func() { done <- s.cmd.Wait() }()
		select {
		case s.stopErr = <-done:
		case <-time.After(defaultTimeout):
			_ = s.cmd.Process.Kill()
			s.stopErr = <-done
		}
	})
	return s.stopErr
}

// Stderr returns what the server logged. Only call it after Stop.
func (s *Server) Stderr() string {
	return s.stderr.String()
}

// Do sends a request with an optional body and extra headers.
func (s *Server) Do(tb testing.TB, method, path, body string, header http.Header) Response {
	tb.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	if err != nil {
		tb.Fatalf("Failed to build request: %v", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		tb.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		tb.Fatalf("Failed to read response body: %v", err)
	}
	return Response{Body: data, Header: resp.Header, Status: resp.StatusCode}
}

// PostJSON sends body as application/json.
func (s *Server) PostJSON(tb testing.TB, path, body string) Response {
	tb.Helper()
	return s.Do(tb, http.MethodPost, path, body, http.Header{"Content-Type": {"application/json"}})
}

// freePort asks the kernel for an unused loopback port.
func freePort(tb testing.TB) int {
	tb.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("Failed to find a free port: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}
