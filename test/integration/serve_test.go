package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/issuetree/test/integration/harness"
)

func decodeBody(t *testing.T, resp harness.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body), "body: %s", resp.Body)
	return body
}

func TestServe_Health(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	srv := harness.StartServer(t, env)

	resp := srv.Do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServe_CreateAndList(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	repo := harness.NewTestRepo(t, "webapp")
	srv := harness.StartServer(t, env)

	create := srv.PostJSON(t, "/worktree/create", fmt.Sprintf(
		`{"repoPath":%q,"branchName":"feat-http","baseBranch":"main","issueId":"ENG-1","worktreeRoot":%q,"terminalCommand":"true {directory}"}`,
		repo.Path, env.WorktreesPath()))

	require.Equal(t, http.StatusOK, create.Status, "body: %s", create.Body)
	body := decodeBody(t, create)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, filepath.Join(env.WorktreesPath(), "webapp", "feat-http"), body["directory"])

	again := srv.PostJSON(t, "/worktree/create", fmt.Sprintf(
		`{"repoPath":%q,"branchName":"feat-http","baseBranch":"main","issueId":"ENG-1","worktreeRoot":%q,"terminalCommand":"true"}`,
		repo.Path, env.WorktreesPath()))
	assert.Equal(t, http.StatusConflict, again.Status)
	assert.Equal(t, "exists", decodeBody(t, again)["error"])

	list := srv.Do(t, http.MethodGet, "/worktree/list?repoPath="+repo.Path, "", nil)
	require.Equal(t, http.StatusOK, list.Status)
	worktrees, ok := decodeBody(t, list)["worktrees"].([]any)
	require.True(t, ok)
	assert.Len(t, worktrees, 2)
}

func TestServe_CreateRequiresEveryField(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	repo := harness.NewTestRepo(t, "webapp")
	srv := harness.StartServer(t, env)

	noRoot := srv.PostJSON(t, "/worktree/create", fmt.Sprintf(
		`{"repoPath":%q,"branchName":"feat-a","baseBranch":"main","issueId":"ENG-1","terminalCommand":"true"}`, repo.Path))
	assert.Equal(t, http.StatusBadRequest, noRoot.Status)
	assert.Contains(t, decodeBody(t, noRoot)["message"], "worktreeRoot is required")

	noIssue := srv.PostJSON(t, "/worktree/create", fmt.Sprintf(
		`{"repoPath":%q,"branchName":"feat-a","baseBranch":"main","worktreeRoot":%q,"terminalCommand":"true"}`,
		repo.Path, env.WorktreesPath()))
	assert.Equal(t, http.StatusBadRequest, noIssue.Status)
	assert.Contains(t, decodeBody(t, noIssue)["message"], "issueId is required")

	assert.NoDirExists(t, filepath.Join(env.WorktreesPath(), "webapp"))
	assert.False(t, repo.HasBranch("feat-a"))
}

func TestServe_TerminalTest(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	srv := harness.StartServer(t, env)

	resp := srv.PostJSON(t, "/terminal/test", `{"terminalCommand":"echo {issueId}"}`)

	require.Equal(t, http.StatusOK, resp.Status, "body: %s", resp.Body)
	body := decodeBody(t, resp)
	assert.Equal(t, "TEST-123\n", body["stdout"])
	assert.Equal(t, true, body["success"])
}

func TestServe_Origins(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	env.WriteSettings(t, "settings.json", `{"allowed_origins": ["https://tracker.example.com"]}`)
	srv := harness.StartServer(t, env)

	allowed := srv.Do(t, http.MethodOptions, "/worktree/create", "", http.Header{
		"Origin":                        {"https://tracker.example.com"},
		"Access-Control-Request-Method": {"POST"},
	})
	assert.Equal(t, http.StatusNoContent, allowed.Status)
	assert.Equal(t, "https://tracker.example.com", allowed.Header.Get("Access-Control-Allow-Origin"))

	refused := srv.Do(t, http.MethodGet, "/health", "", http.Header{"Origin": {"https://evil.example.com"}})
	assert.Equal(t, http.StatusForbidden, refused.Status)
	assert.Empty(t, refused.Header.Get("Access-Control-Allow-Origin"))
}

func TestServe_ReloadsAllowedOrigins(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	env.WriteSettings(t, "settings.json", `{"allowed_origins": ["https://old.example.com"]}`)
	srv := harness.StartServer(t, env)
	origin := http.Header{"Origin": {"https://new.example.com"}}

	require.Equal(t, http.StatusForbidden, srv.Do(t, http.MethodGet, "/health", "", origin).Status)

	env.WriteSettings(t, "settings.json", `{"allowed_origins": ["https://new.example.com"]}`)

	assert.Eventually(t, func() bool {
		return srv.Do(t, http.MethodGet, "/health", "", origin).Status == http.StatusOK
	}, 5*time.Second, 100*time.Millisecond)
}

func TestServe_GracefulShutdown(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	srv := harness.StartServer(t, env)

	assert.NoError(t, srv.Stop())
	assert.Contains(t, srv.Stderr(), "listening on")
}
