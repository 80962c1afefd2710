package internal

import (
	"bufio"
	"html"
	"regexp"
	"strings"
)

// Caption formats served by YouTube's timedtext endpoint
const (
	FormatSRV1 = "srv1"
	FormatSRV2 = "srv2"
	FormatSRV3 = "srv3"
	FormatVTT  = "vtt"
	FormatTTML = "ttml"
)

var (
	textElementRe = regexp.MustCompile(`(?s)<text[^>]*>(.*?)</text>`)
	paraElementRe = regexp.MustCompile(`(?s)<p[^>]*>(.*?)</p>`)
	markupTagRe   = regexp.MustCompile(`<[^>]+>`)
	cueNumberRe   = regexp.MustCompile(`^\d+$`)
)

// ParseCaptions extracts plain text from a raw caption document. The format
// hint selects the parsing path, but the content is also sniffed since the
// timedtext endpoint does not always honor the requested format. Degrades
// gracefully on unknown or malformed input instead of failing; an empty
// string means no usable caption text was found.
func ParseCaptions(format, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	// WEBVTT is line-oriented, everything else is XML-ish
	if format == FormatVTT || strings.HasPrefix(trimmed, "WEBVTT") {
		return parseVTT(trimmed)
	}

	// srv1/srv2 wrap caption lines in <text> elements
	if matches := textElementRe.FindAllStringSubmatch(raw, -1); len(matches) > 0 {
		return joinFragments(matches)
	}

	// srv3 and ttml use <p> elements instead
	if matches := paraElementRe.FindAllStringSubmatch(raw, -1); len(matches) > 0 {
		return joinFragments(matches)
	}

	// Unknown markup: strip every tag and salvage whatever words remain
	return cleanFragment(raw)
}

// parseVTT extracts cue text from a WEBVTT document, skipping headers,
// timing lines, cue numbers, and NOTE/STYLE/REGION blocks.
func parseVTT(doc string) string {
	var fragments []string

	scanner := bufio.NewScanner(strings.NewReader(doc))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "STYLE") ||
			strings.HasPrefix(line, "REGION") ||
			strings.HasPrefix(line, "Kind:") ||
			strings.HasPrefix(line, "Language:") {
			continue
		}
		if strings.Contains(line, "-->") || cueNumberRe.MatchString(line) {
			continue
		}

		if text := cleanFragment(line); text != "" {
			fragments = append(fragments, text)
		}
	}

	return strings.Join(fragments, " ")
}

// joinFragments cleans each captured element body and joins the non-empty
// results with single spaces.
func joinFragments(matches [][]string) string {
	fragments := make([]string, 0, len(matches))
	for _, match := range matches {
		if text := cleanFragment(match[1]); text != "" {
			fragments = append(fragments, text)
		}
	}
	return strings.Join(fragments, " ")
}

// cleanFragment strips nested markup (srv3 wraps words in <s> elements),
// decodes HTML entities, and collapses all whitespace runs to single spaces.
func cleanFragment(fragment string) string {
	text := markupTagRe.ReplaceAllString(fragment, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}
