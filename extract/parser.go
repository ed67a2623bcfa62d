// Package extract turns a completed round's noisy multi-party transcript
// into a single clean, user-facing reply: it selects the authoritative turn
// and strips internal coordination artifacts from its text.
package extract

import (
	"regexp"
	"strings"
)

// Author-label grammar: a line is labeled when it starts with a bold author
// name followed by a colon, as in `**Name**: content`. Lines that do not
// match are passed through untouched (the fallback branch).
var labelRE = regexp.MustCompile(`^\*\*([^*]+)\*\*:[ \t]*(.*)$`)

// Delegation-marker grammar: an inline token by which one agent names the
// next speaker, `[Delegate: TargetName]`, matched case-insensitively. The
// match swallows trailing spaces so removing a mid-line marker does not
// leave a double space behind.
var delegateRE = regexp.MustCompile(`(?i)\[\s*delegate:\s*([^\]]*?)\s*\][ \t]*`)

// ParseLabel parses a single line against the author-label grammar.
// Returns the author, the remaining content, and whether the line matched.
func ParseLabel(line string) (author, content string, ok bool) {
	m := labelRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

// Delegations returns the targets of all delegation markers in the text,
// in order of appearance, with surrounding whitespace trimmed.
func Delegations(text string) []string {
	var targets []string
	for _, m := range delegateRE.FindAllStringSubmatch(text, -1) {
		if target := strings.TrimSpace(m[1]); target != "" {
			targets = append(targets, target)
		}
	}
	return targets
}
