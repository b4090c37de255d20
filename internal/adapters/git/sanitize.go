package git

import (
	"regexp"
	"strings"

	"github.com/renato0307/issuetree/internal/domain"
	"github.com/renato0307/issuetree/internal/logging"
)

var (
	// disallowedDerivedChars fall outside the alphabet of names derived from
	// free text. Names supplied directly only have to satisfy git's own rules.
	disallowedDerivedChars = regexp.MustCompile(`[^a-z0-9._/-]+`)

	consecutiveHyphens = regexp.MustCompile(`-{2,}`)
)

type branchRule struct {
	violates func(string) bool
	message  string
}

// branchRules follow git check-ref-format --branch, checked in order
var branchRules = []branchRule{
	{func(s string) bool { return strings.HasPrefix(s, "-") }, "branch name cannot start with '-'"},
	{func(s string) bool { return s == "@" }, "branch name cannot be '@'"},
	{func(s string) bool { return s == "HEAD" }, "branch name cannot be 'HEAD'"},
	{func(s string) bool { return strings.HasPrefix(s, "/") }, "branch name cannot start with '/'"},
	{func(s string) bool { return strings.HasSuffix(s, "/") }, "branch name cannot end with '/'"},
	{func(s string) bool { return strings.HasSuffix(s, ".") }, "branch name cannot end with '.'"},
	{func(s string) bool { return strings.Contains(s, "//") }, "branch name cannot contain '//'"},
	{func(s string) bool { return strings.Contains(s, "..") }, "branch name cannot contain '..'"},
	{func(s string) bool { return strings.Contains(s, "@{") }, "branch name cannot contain '@{'"},
	{func(s string) bool { return strings.ContainsFunc(s, isControl) }, "branch name cannot contain control characters"},
	{func(s string) bool { return strings.ContainsAny(s, " ~^:?*[\\") }, "branch name cannot contain space, '~', '^', ':', '?', '*', '[' or '\\'"},
	{componentStartsWithDot, "branch name components cannot start with '.'"},
	{componentEndsWithLock, "branch name components cannot end with '.lock'"},
}

// isControl matches the bytes git refuses in refs: below 0x20 and DEL
func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func componentStartsWithDot(s string) bool {
	for _, part := range strings.Split(s, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

func componentEndsWithLock(s string) bool {
	for _, part := range strings.Split(s, "/") {
		if strings.HasSuffix(part, ".lock") {
			return true
		}
	}
	return false
}

// validateBranchName rejects names git would refuse as a branch. Anything git
// accepts passes: template expansion never goes through a shell, so names like
// "fix#2" or "a;b" are safe to substitute. Returns a validation error.
func validateBranchName(name string) error {
	if name == "" {
		return domain.NewValidationError("branch name cannot be empty")
	}
	for _, rule := range branchRules {
		if rule.violates(name) {
			return domain.NewValidationError("%s", rule.message)
		}
	}
	return nil
}

// sanitizeBranchName derives a branch name from free text such as an issue
// identifier or title ("ENG-123 Fix login" becomes "eng-123-fix-login").
// Derived names are lowercase and restricted to [a-z0-9._/-].
func sanitizeBranchName(name string) (string, error) {
	logging.Logger.Debug("Sanitizing branch name", "input", name)

	if name == "" {
		return "", domain.NewValidationError("cannot sanitize empty string")
	}

	result := strings.Map(func(r rune) rune {
		if isControl(r) {
			return -1
		}
		return r
	}, strings.ToLower(name))

	result = disallowedDerivedChars.ReplaceAllString(result, "-")
	result = strings.ReplaceAll(result, "..", "-")

	parts := make([]string, 0, strings.Count(result, "/")+1)
	for _, part := range strings.Split(result, "/") {
		part = strings.TrimLeft(part, ".-")
		part = strings.TrimSuffix(part, ".lock")
		part = strings.TrimRight(part, ".-")
		part = consecutiveHyphens.ReplaceAllString(part, "-")
		if part != "" {
			parts = append(parts, part)
		}
	}
	result = strings.Join(parts, "/")

	if result == "" {
		return "", domain.NewValidationError("sanitization resulted in empty branch name")
	}
	if err := validateBranchName(result); err != nil {
		return "", err
	}

	logging.Logger.Debug("Branch name sanitized", "input", name, "output", result)
	return result, nil
}
