package server

import (
	"context"
	"net/http"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/services"
)

// CreateRequest is the request body for POST /worktree/create
type CreateRequest struct {
	BaseBranch      string `json:"baseBranch"`
	BranchName      string `json:"branchName"`
	IssueID         string `json:"issueId"`
	RepoPath        string `json:"repoPath"`
	TerminalCommand string `json:"terminalCommand"`
	WorktreeRoot    string `json:"worktreeRoot"`
}

// CreateResponse is the response for POST /worktree/create.
// Warning is set when the worktree was created but the terminal did not start.
type CreateResponse struct {
	Directory string `json:"directory"`
	Success   bool   `json:"success"`
	Warning   string `json:"warning,omitempty"`
}

// OpenRequest is the request body for POST /worktree/open
type OpenRequest struct {
	BranchName      string `json:"branchName"`
	Directory       string `json:"directory"`
	IssueID         string `json:"issueId"`
	TerminalCommand string `json:"terminalCommand"`
}

// TestRequest is the request body for POST /terminal/test
type TestRequest struct {
	BranchName      string `json:"branchName"`
	Directory       string `json:"directory"`
	IssueID         string `json:"issueId"`
	TerminalCommand string `json:"terminalCommand"`
}

// TestResponse is the response for POST /terminal/test
type TestResponse struct {
	ExitCode        int    `json:"exitCode"`
	ExpandedCommand string `json:"expandedCommand"`
	Stderr          string `json:"stderr"`
	Stdout          string `json:"stdout"`
	Success         bool   `json:"success"`
}

// ListResponse is the response for GET /worktree/list
type ListResponse struct {
	Success   bool                    `json:"success"`
	Worktrees []domain.WorktreeRecord `json:"worktrees"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

// handleCreate handles POST /worktree/create
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// A client disconnect must not abort a half-done provisioning
	ctx := context.WithoutCancel(r.Context())
	result, err := s.worktrees.Provision(ctx, services.ProvisionParams{
		BaseBranch:      req.BaseBranch,
		BranchName:      req.BranchName,
		IssueID:         req.IssueID,
		RepoPath:        req.RepoPath,
		TerminalCommand: req.TerminalCommand,
		WorktreeRoot:    req.WorktreeRoot,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := CreateResponse{Directory: result.Directory, Success: true}
	if result.LaunchErr != nil {
		logging.Logger.Warn("Worktree created without terminal",
			"request_id", requestIDFrom(r.Context()), "directory", result.Directory, "error", result.LaunchErr)
		resp.Warning = "worktree created but terminal failed to start: " + result.LaunchErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleOpen handles POST /worktree/open
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req OpenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := s.worktrees.Open(r.Context(), services.OpenParams{
		BranchName:      req.BranchName,
		Directory:       req.Directory,
		IssueID:         req.IssueID,
		TerminalCommand: req.TerminalCommand,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// handleTest handles POST /terminal/test
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	var req TestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := s.terminals.Test(r.Context(), services.TestParams{
		BranchName:      req.BranchName,
		Directory:       req.Directory,
		IssueID:         req.IssueID,
		TerminalCommand: req.TerminalCommand,
		Timeout:         s.settings.TestTimeout(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TestResponse{
		ExitCode:        result.ExitCode,
		ExpandedCommand: result.ExpandedCommand,
		Stderr:          result.Stderr,
		Stdout:          result.Stdout,
		Success:         true,
	})
}

// handleList handles GET /worktree/list?repoPath=...
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	worktrees, err := s.worktrees.ListWorktrees(r.Context(), r.URL.Query().Get("repoPath"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if worktrees == nil {
		worktrees = []domain.WorktreeRecord{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Success: true, Worktrees: worktrees})
}
