package extract

import (
	"regexp"
	"strings"
)

// processKeywords marks lines that are coordination chatter between agents,
// not user-facing content. Matching is case-insensitive substring.
var processKeywords = []string{
	"delegate to",
	"delegating to",
	"handoff",
	"hand off",
	"invoking",
	"invoke",
	"plugin",
	"tool call",
	"agent group",
	"coordinator will",
}

// sectionHeaders marks the start of a raw specialist dump. Content after a
// header line is suppressed until the next blank line.
var sectionHeaders = []string{
	"### flights",
	"### hotels",
}

// Sanitize removes internal coordination artifacts from agent text. The
// steps run in a fixed order and the whole pipeline is idempotent:
// author-label prefixes, delegation markers, bracketed agent-name tags,
// process-keyword lines, acknowledgment lines, raw section dumps, and
// redundant blank lines.
func Sanitize(text string, agentNames []string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if _, content, ok := ParseLabel(line); ok {
			lines[i] = content
		}
	}
	text = strings.Join(lines, "\n")

	text = delegateRE.ReplaceAllString(text, "")
	for _, name := range agentNames {
		tagRE := regexp.MustCompile(`\[\s*` + regexp.QuoteMeta(name) + `\s*\]`)
		text = tagRE.ReplaceAllString(text, "")
	}

	var kept []string
	skipSection := false
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		lower := strings.ToLower(s)

		if skipSection {
			if s == "" {
				skipSection = false
			}
			continue
		}
		if isSectionHeader(lower) {
			skipSection = true
			continue
		}
		if s == "" {
			kept = append(kept, "")
			continue
		}
		if strings.HasPrefix(lower, "understood:") {
			continue
		}
		if containsProcessKeyword(lower) {
			continue
		}
		kept = append(kept, s)
	}

	var out []string
	prevBlank := false
	for _, line := range kept {
		blank := line == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func isSectionHeader(lower string) bool {
	for _, header := range sectionHeaders {
		if strings.HasPrefix(lower, header) {
			return true
		}
	}
	return false
}

func containsProcessKeyword(lower string) bool {
	for _, keyword := range processKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
