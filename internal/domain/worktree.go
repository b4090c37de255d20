package domain

// WorktreeRecord is one entry of `git worktree list --porcelain`
type WorktreeRecord struct {
	Branch   string `json:"branch,omitempty"`
	Bare     bool   `json:"bare,omitempty"`
	Detached bool   `json:"detached,omitempty"`
	Head     string `json:"head,omitempty"`
	Locked   bool   `json:"locked,omitempty"`
	Path     string `json:"path"`
	Prunable bool   `json:"prunable,omitempty"`
}

// TemplateTokens are the values substituted into a terminal command template
type TemplateTokens struct {
	BranchName string
	Directory  string
	IssueID    string
}

// CommandResult is the outcome of a command run in capture mode
type CommandResult struct {
	Args            []string
	ExitCode        int
	ExpandedCommand string
	Stderr          string
	Stdout          string
}
