package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandCommand_SubstitutesPlaceholders(t *testing.T) {
	tokens := TemplateTokens{Directory: "/a/b", IssueID: "X-1", BranchName: "x-1-y"}

	cmd, err := ExpandCommand("cmd {directory} {issueId}", tokens)

	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "/a/b", "X-1"}, cmd.Args)
	assert.Equal(t, "cmd /a/b X-1", cmd.Text)
	assert.Equal(t, "cmd", cmd.Program())
}

func TestExpandCommand_NestedShellStaysOneArgument(t *testing.T) {
	tokens := TemplateTokens{Directory: "/home/u/w", IssueID: "Q-3", BranchName: "q-3-b"}

	cmd, err := ExpandCommand("ghostty -e bash -c 'cd {directory} && opencode'", tokens)

	require.NoError(t, err)
	assert.Equal(t, []string{"ghostty", "-e", "bash", "-c", "cd /home/u/w && opencode"}, cmd.Args)
}

func TestExpandCommand_RejectsEmptyResult(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"empty template", ""},
		{"whitespace only", "   \t "},
		{"placeholder expands to nothing", "{directory}"},
		{"placeholder surrounded by spaces", "  {directory}  "},
		{"empty quoted program", "'' foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandCommand(tt.template, TemplateTokens{IssueID: "A-1"})

			require.ErrorIs(t, err, ErrEmptyCommand)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestExpandCommand_IsDeterministic(t *testing.T) {
	tokens := TemplateTokens{Directory: "/w", IssueID: "Q-1", BranchName: "q-1"}

	first, err := ExpandCommand("term --title \"{issueId} {branchName}\" {directory}", tokens)
	require.NoError(t, err)
	second, err := ExpandCommand("term --title \"{issueId} {branchName}\" {directory}", tokens)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"term", "--title", "Q-1 q-1", "/w"}, first.Args)
}

func TestSubstituteTokens_SinglePass(t *testing.T) {
	tokens := TemplateTokens{
		Directory:  "/tmp/{issueId}",
		IssueID:    "{branchName}",
		BranchName: "feature",
	}

	result := SubstituteTokens("{directory} {issueId} {branchName} {unknown}", tokens)

	assert.Equal(t, "/tmp/{issueId} {branchName} feature {unknown}", result)
}

func TestSubstituteTokens_RepeatedPlaceholders(t *testing.T) {
	result := SubstituteTokens("{issueId}-{issueId}", TemplateTokens{IssueID: "Z-9"})

	assert.Equal(t, "Z-9-Z-9", result)
}

func TestSubstituteTokens_ValuesAreNotEscaped(t *testing.T) {
	result := SubstituteTokens("open '{directory}'", TemplateTokens{Directory: "/x/it's here"})

	assert.Equal(t, "open '/x/it's here'", result)
}

func TestTokenizeCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"whitespace", "  \t\n ", nil},
		{"single word", "kitty", []string{"kitty"}},
		{"collapses whitespace", "a   b\tc", []string{"a", "b", "c"}},
		{"leading and trailing whitespace", "  a b  ", []string{"a", "b"}},
		{"single quoted span", "a 'b c' d", []string{"a", "b c", "d"}},
		{"double quoted span", `a "b c" d`, []string{"a", "b c", "d"}},
		{"double quote inside single", `echo 'say "hi"'`, []string{"echo", `say "hi"`}},
		{"single quote inside double", `echo "it's"`, []string{"echo", "it's"}},
		{"quote joins adjacent text", `pre'fix suf'fix`, []string{"prefix suffix"}},
		{"adjacent quoted spans", `'a''b'"c"`, []string{"abc"}},
		{"unterminated single quote", "a 'b c", []string{"a", "b c"}},
		{"unterminated double quote", `a "b c `, []string{"a", "b c "}},
		{"empty quoted argument", "bash -c ''", []string{"bash", "-c", ""}},
		{"backslash is literal", `a\ b`, []string{`a\`, "b"}},
		{"shell syntax unquoted is split", "cd /x && run", []string{"cd", "/x", "&&", "run"}},
		{"unicode", "wezterm start -- 'répertoire été'", []string{"wezterm", "start", "--", "répertoire été"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TokenizeCommand(tt.input))
		})
	}
}
