package cmd

import (
	"context"
	"fmt"
	"os"

	adapterprocess "github.com/renato0307/issuetree/internal/adapters/process"
	"github.com/renato0307/issuetree/internal/config"
	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/services"
	"github.com/renato0307/issuetree/internal/theme"
)

// WorktreeCmd groups the worktree commands
type WorktreeCmd struct {
	Create WorktreeCreateCmd `cmd:"create" help:"Create a worktree for an issue and open a terminal in it"`
	List   WorktreeListCmd   `cmd:"list" help:"List the worktrees of a repository"`
	Open   WorktreeOpenCmd   `cmd:"open" help:"Open a terminal in an existing worktree"`
}

// WorktreeCreateCmd provisions a worktree the same way the HTTP endpoint does
type WorktreeCreateCmd struct {
	Base            string `help:"Base branch to fork from" default:"main"`
	Branch          string `help:"New branch name (derived from --issue when omitted)" short:"b"`
	Format          string `help:"Output format: text or json" enum:"text,json" default:"text"`
	Issue           string `help:"Issue identifier" required:"" short:"i"`
	NoLaunch        bool   `help:"Create the worktree without opening a terminal"`
	Repo            string `help:"Path to the repository" required:"" short:"r" type:"path"`
	Root            string `help:"Worktree root (defaults to the configured root)"`
	TerminalCommand string `help:"Terminal command template" env:"ISSUETREE_TERMINAL_COMMAND" short:"t"`
}

// createOutput is the json shape of a create result
type createOutput struct {
	Branch    string `json:"branch"`
	Directory string `json:"directory"`
	Warning   string `json:"warning,omitempty"`
}

// Run executes the create command
func (w *WorktreeCreateCmd) Run(cli *CLI) error {
	logging.Logger.Debug("Executing worktree create command",
		"repo", w.Repo, "branch", w.Branch, "base", w.Base, "issue", w.Issue, "no_launch", w.NoLaunch)

	// The command exits right after launching, so nothing would read the terminal output
	container := NewContainer(cli.config, adapterprocess.WithDiscardedOutput())

	branch := w.Branch
	if branch == "" {
		derived, err := container.WorktreeService.DeriveBranchName(w.Issue)
		if err != nil {
			return fmt.Errorf("cannot derive branch name from issue: %w", err)
		}
		branch = derived
	}

	result, err := container.WorktreeService.Provision(context.Background(), services.ProvisionParams{
		BaseBranch:      w.Base,
		BranchName:      branch,
		IssueID:         w.Issue,
		RepoPath:        w.Repo,
		SkipLaunch:      w.NoLaunch,
		TerminalCommand: w.TerminalCommand,
		WorktreeRoot:    w.root(cli.config),
	})
	if err != nil {
		return err
	}

	out := createOutput{Branch: branch, Directory: result.Directory}
	if result.LaunchErr != nil {
		out.Warning = result.LaunchErr.Error()
	}

	if w.Format == formatJSON {
		return printJSON(os.Stdout, out)
	}

	fmt.Printf("%s %s\n", theme.SuccessStyle.Render("Created"), theme.PathStyle.Render(result.Directory))
	fmt.Printf("%s %s\n", theme.LabelStyle.Render("Branch:"), branch)
	if out.Warning != "" {
		printWarning("worktree created but terminal failed to open: %s", out.Warning)
	}
	return nil
}

// root returns --root, or the configured worktree root when the flag is omitted
func (w *WorktreeCreateCmd) root(cfg config.ServerConfig) string {
	if w.Root != "" {
		return w.Root
	}
	return cfg.WorktreeRoot
}

// WorktreeOpenCmd opens a terminal in an existing worktree
type WorktreeOpenCmd struct {
	Branch          string `help:"Branch name substituted into the template" required:"" short:"b"`
	Directory       string `arg:"" help:"Worktree directory" type:"path"`
	Issue           string `help:"Issue identifier substituted into the template" required:"" short:"i"`
	TerminalCommand string `help:"Terminal command template" env:"ISSUETREE_TERMINAL_COMMAND" required:"" short:"t"`
}

// Run executes the open command
func (w *WorktreeOpenCmd) Run(cli *CLI) error {
	logging.Logger.Debug("Executing worktree open command", "directory", w.Directory)

	container := NewContainer(cli.config, adapterprocess.WithDiscardedOutput())
	err := container.WorktreeService.Open(context.Background(), services.OpenParams{
		BranchName:      w.Branch,
		Directory:       w.Directory,
		IssueID:         w.Issue,
		TerminalCommand: w.TerminalCommand,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", theme.SuccessStyle.Render("Opened"), theme.PathStyle.Render(w.Directory))
	return nil
}

// WorktreeListCmd lists the worktrees git knows about for a repository
type WorktreeListCmd struct {
	Format string `help:"Output format: text or json" enum:"text,json" default:"text"`
	Repo   string `arg:"" help:"Path to the repository" type:"path"`
}

// Run executes the list command
func (w *WorktreeListCmd) Run(cli *CLI) error {
	container := NewContainer(cli.config)

	records, err := container.WorktreeService.ListWorktrees(context.Background(), w.Repo)
	if err != nil {
		return err
	}
	if records == nil {
		records = []domain.WorktreeRecord{}
	}

	if w.Format == formatJSON {
		return printJSON(os.Stdout, records)
	}

	if len(records) == 0 {
		fmt.Println(theme.MutedStyle.Render("No worktrees"))
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{record.Path, record.Branch, shortHead(record.Head), worktreeState(record)})
	}
	fmt.Println(renderTable([]string{"PATH", "BRANCH", "HEAD", "STATE"}, rows))
	return nil
}
