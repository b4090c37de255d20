package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/theme"
)

// Output formats accepted by --format
const (
	formatJSON = "json"
	formatText = "text"
)

// printJSON writes v as indented JSON to w
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderTable draws headers and rows with the shared table styles
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeaderStyle
			}
			return theme.TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// worktreeState summarizes the flags of a worktree record
func worktreeState(record domain.WorktreeRecord) string {
	switch {
	case record.Bare:
		return "bare"
	case record.Locked && record.Prunable:
		return "locked, prunable"
	case record.Locked:
		return "locked"
	case record.Prunable:
		return "prunable"
	case record.Detached:
		return "detached"
	default:
		return ""
	}
}

// shortHead trims a commit hash for display
func shortHead(head string) string {
	if len(head) > 8 {
		return head[:8]
	}
	return head
}

// printWarning writes a non-fatal problem to stderr
func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, theme.WarningStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}
