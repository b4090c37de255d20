package domain

import (
	"strings"
	"unicode"
)

// Placeholders recognised in terminal command templates
const (
	PlaceholderBranchName = "{branchName}"
	PlaceholderDirectory  = "{directory}"
	PlaceholderIssueID    = "{issueId}"
)

// ExpandedCommand is a terminal command template after substitution and tokenization
type ExpandedCommand struct {
	Args []string
	Text string
}

// Program returns the executable name
func (c ExpandedCommand) Program() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// ExpandCommand substitutes tokens into template and splits the result into an argv.
// Returns ErrEmptyCommand when nothing runnable is left.
func ExpandCommand(template string, tokens TemplateTokens) (ExpandedCommand, error) {
	text := strings.TrimSpace(SubstituteTokens(template, tokens))
	args := TokenizeCommand(text)
	if len(args) == 0 || args[0] == "" {
		return ExpandedCommand{Text: text}, ErrEmptyCommand
	}
	return ExpandedCommand{Args: args, Text: text}, nil
}

// SubstituteTokens replaces every placeholder in a single pass over template.
// Substituted values are inserted verbatim and never rescanned, so a value
// containing "{issueId}" stays literal.
func SubstituteTokens(template string, tokens TemplateTokens) string {
	r := strings.NewReplacer(
		PlaceholderDirectory, tokens.Directory,
		PlaceholderIssueID, tokens.IssueID,
		PlaceholderBranchName, tokens.BranchName,
	)
	return r.Replace(template)
}

type quoteState int

const (
	unquoted quoteState = iota
	inSingleQuote
	inDoubleQuote
)

// TokenizeCommand splits s on unquoted whitespace.
//
// Single and double quotes group text into one token and are removed. Inside
// one kind of quote the other kind is literal. An unterminated quote extends
// to the end of s. An empty quoted span ('' or "") yields an empty token.
func TokenizeCommand(s string) []string {
	var (
		tokens  []string
		current strings.Builder
		pending bool
		state   = unquoted
	)

	flush := func() {
		if pending {
			tokens = append(tokens, current.String())
			current.Reset()
			pending = false
		}
	}

	for _, r := range s {
		switch state {
		case unquoted:
			switch {
			case r == '\'':
				state = inSingleQuote
				pending = true
			case r == '"':
				state = inDoubleQuote
				pending = true
			case unicode.IsSpace(r):
				flush()
			default:
				current.WriteRune(r)
				pending = true
			}
		case inSingleQuote:
			if r == '\'' {
				state = unquoted
				continue
			}
			current.WriteRune(r)
		case inDoubleQuote:
			if r == '"' {
				state = unquoted
				continue
			}
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}
