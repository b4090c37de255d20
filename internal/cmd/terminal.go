package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/renato0307/issuetree/internal/logging"
	"github.com/renato0307/issuetree/internal/services"
	"github.com/renato0307/issuetree/internal/theme"
)

// TerminalCmd groups terminal template commands
type TerminalCmd struct {
	Test TerminalTestCmd `cmd:"test" help:"Run a terminal command template once and show its output"`
}

// TerminalTestCmd runs a template in capture mode
type TerminalTestCmd struct {
	Branch    string        `help:"Branch name substituted into the template" default:"test-branch"`
	Directory string        `help:"Working directory (defaults to the home directory)" type:"path"`
	Format    string        `help:"Output format: text or json" enum:"text,json" default:"text"`
	Issue     string        `help:"Issue identifier substituted into the template" default:"TEST-123"`
	Template  string        `arg:"" help:"Command template, e.g. 'echo {issueId} {directory}'"`
	Timeout   time.Duration `help:"How long to wait before killing the command (defaults to the configured timeout)"`
}

// testOutput mirrors the HTTP test response
type testOutput struct {
	ExitCode        int    `json:"exitCode"`
	ExpandedCommand string `json:"expandedCommand"`
	Stderr          string `json:"stderr"`
	Stdout          string `json:"stdout"`
	Success         bool   `json:"success"`
}

// Run executes the test command
func (t *TerminalTestCmd) Run(cli *CLI) error {
	logging.Logger.Debug("Executing terminal test command", "template", t.Template, "timeout", t.Timeout)

	container := NewContainer(cli.config)
	result, err := container.TerminalService.Test(context.Background(), services.TestParams{
		BranchName:      t.Branch,
		Directory:       t.Directory,
		IssueID:         t.Issue,
		TerminalCommand: t.Template,
		Timeout:         t.Timeout,
	})
	if err != nil {
		return err
	}

	out := testOutput{
		ExitCode:        result.ExitCode,
		ExpandedCommand: result.ExpandedCommand,
		Stderr:          result.Stderr,
		Stdout:          result.Stdout,
		Success:         result.ExitCode == 0,
	}

	if t.Format == formatJSON {
		if err := printJSON(os.Stdout, out); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s %s\n", theme.LabelStyle.Render("Command:"), out.ExpandedCommand)
		if out.Stdout != "" {
			fmt.Printf("%s\n%s\n", theme.LabelStyle.Render("stdout:"), out.Stdout)
		}
		if out.Stderr != "" {
			fmt.Printf("%s\n%s\n", theme.LabelStyle.Render("stderr:"), out.Stderr)
		}
		status := theme.SuccessStyle.Render("exit 0")
		if !out.Success {
			status = theme.ErrorStyle.Render(fmt.Sprintf("exit %d", out.ExitCode))
		}
		fmt.Println(status)
	}

	if !out.Success {
		return fmt.Errorf("command exited with status %d", out.ExitCode)
	}
	return nil
}
