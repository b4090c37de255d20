package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
)

// maxBodyBytes limits request bodies
const maxBodyBytes = 64 << 10

// Error codes sent in the "error" field of failure responses
const (
	codeBranchExists   = "branch_exists"
	codeExists         = "exists"
	codeForbidden      = "forbidden_origin"
	codeGitError       = "git_error"
	codeInternal       = "internal"
	codeLaunchError    = "launch_error"
	codeTimeout        = "timeout"
	codeValidation     = "validation"
	internalErrMessage = "internal server error"
)

type errorResponse struct {
	Directory string `json:"directory,omitempty"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Success   bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Warn("Failed to write response", "error", err)
	}
}

// writeError is the single place where a domain error becomes an HTTP status
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Message: err.Error()}
	var status int

	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindValidation:
			status, resp.Error = http.StatusBadRequest, codeValidation
		case domain.KindWorktreeExists:
			status, resp.Error = http.StatusConflict, codeExists
			resp.Directory = de.Directory
		case domain.KindBranchExists:
			status, resp.Error = http.StatusConflict, codeBranchExists
		case domain.KindGitOperation:
			status, resp.Error = http.StatusInternalServerError, codeGitError
		case domain.KindLaunchFailure:
			status, resp.Error = http.StatusInternalServerError, codeLaunchError
		case domain.KindTimeout:
			status, resp.Error = http.StatusInternalServerError, codeTimeout
		}
	}
	if status == 0 {
		status, resp.Error, resp.Message = http.StatusInternalServerError, codeInternal, internalErrMessage
	}

	log := logging.Logger.Info
	if status >= http.StatusInternalServerError {
		log = logging.Logger.Error
	}
	log("Request failed",
		"request_id", requestIDFrom(r.Context()), "path", r.URL.Path,
		"status", status, "code", resp.Error, "error", err)

	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON object from the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return domain.NewValidationError("Content-Type must be application/json")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.NewValidationError("request body exceeds %d bytes", maxBodyBytes)
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("request body is required")
		default:
			return domain.NewValidationError("invalid JSON: %v", err)
		}
	}
	return nil
}
