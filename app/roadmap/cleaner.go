package roadmap

import (
	"regexp"
	"strings"
)

const NoDescription = "No description available."

var (
	bracketPattern     = regexp.MustCompile(`\[.*?\]`)
	parenPattern       = regexp.MustCompile(`\(.*?\)`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	blankLinesPattern  = regexp.MustCompile(`\n{3,}`)
	paragraphSeparator = regexp.MustCompile(`\n[ \t]*\n`)
	headingPattern     = regexp.MustCompile(`^(#{1,6})(?:\s+(.*?))?\s*#*\s*$`)
	dodPattern         = regexp.MustCompile(`(?i)^definition\s+of\s+done\b`)
	listItemPattern    = regexp.MustCompile(`^(?:[-*+]\s|[-*+]$|\d+[.)](?:\s|$))`)
	checkboxPattern    = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]\s+)?\[[ xX]\][ \t]*`)
	thematicBreak      = regexp.MustCompile(`^(?:[-*_][ \t]*){3,}$`)
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	boldStarPattern    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	boldUnderPattern   = regexp.MustCompile(`__([^_]+)__`)
	italicStarPattern  = regexp.MustCompile(`\*([^*]+)\*`)
	italicUnderPattern = regexp.MustCompile(`\b_([^_]+)_\b`)
)

// CleanTitle drops bracketed and parenthesized annotations such as
// "[Infra]" or "(2024)". A title made only of annotations is returned as is.
func CleanTitle(title string) string {
	cleaned := bracketPattern.ReplaceAllString(title, "")
	cleaned = parenPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))

	if cleaned == "" {
		return title
	}
	return cleaned
}

// RemoveDefinitionOfDone removes every "Definition of Done" section. A section
// runs until the next heading of the same or a higher level. Lines inside
// fenced code blocks are never headings.
func RemoveDefinitionOfDone(body string) string {
	if body == "" {
		return body
	}

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))

	skipLevel := 0
	fence := ""
	for _, line := range lines {
		level, text := 0, ""
		if marker := fenceMarker(line); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case marker == fence:
				fence = ""
			}
		} else if fence == "" {
			level, text = parseHeading(line)
		}

		if skipLevel > 0 {
			if level == 0 || level > skipLevel {
				continue
			}
			skipLevel = 0
		}

		if level > 0 && dodPattern.MatchString(text) {
			skipLevel = level
			continue
		}

		kept = append(kept, line)
	}

	cleaned := blankLinesPattern.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(cleaned)
}

// fenceMarker returns "```" or "~~~" when line opens or closes a code fence.
func fenceMarker(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker
		}
	}
	return ""
}

func parseHeading(line string) (int, string) {
	match := headingPattern.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if match == nil {
		return 0, ""
	}
	return len(match[1]), strings.TrimSpace(match[2])
}

// ShortDescription returns the first prose paragraph of body, flattened so it
// fits in a single table cell, truncated to maxWords words.
func ShortDescription(body string, maxWords int) string {
	if strings.TrimSpace(body) == "" {
		return NoDescription
	}

	var paragraph string
	for _, candidate := range paragraphSeparator.Split(strings.ReplaceAll(body, "\r\n", "\n"), -1) {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || strings.HasPrefix(candidate, "#") || listItemPattern.MatchString(candidate) || thematicBreak.MatchString(candidate) {
			continue
		}
		paragraph = candidate
		break
	}

	if paragraph == "" {
		return NoDescription
	}

	paragraph = checkboxPattern.ReplaceAllString(paragraph, "")
	paragraph = linkPattern.ReplaceAllString(paragraph, "$1")
	paragraph = boldStarPattern.ReplaceAllString(paragraph, "$1")
	paragraph = boldUnderPattern.ReplaceAllString(paragraph, "$1")
	paragraph = italicStarPattern.ReplaceAllString(paragraph, "$1")
	paragraph = italicUnderPattern.ReplaceAllString(paragraph, "$1")
	paragraph = strings.ReplaceAll(paragraph, "|", "/")

	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return NoDescription
	}
	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}
	return strings.Join(words, " ")
}
