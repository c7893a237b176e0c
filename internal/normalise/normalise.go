// Package normalise converts supported file formats to plain text
// before ingestion. Markdown and HTML are stripped down to their
// readable content; anything else passes through with line endings
// normalised.
package normalise

import (
	"html"
	"path/filepath"
	"regexp"
	"strings"
)

// Format labels for ingestion metadata.
const (
	FormatMarkdown  = "markdown"
	FormatHTML      = "html"
	FormatPlaintext = "plaintext"
)

// Text converts file content to plain text based on the file
// extension and returns the text together with the detected format.
func Text(path string, data []byte) (string, string) {
	content := normaliseLineEndings(string(data))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return strings.TrimSpace(stripMarkdown(content)), FormatMarkdown
	case ".html", ".htm":
		return strings.TrimSpace(stripHTML(content)), FormatHTML
	default:
		return strings.TrimSpace(content), FormatPlaintext
	}
}

// Title derives a document title: the first markdown H1 or HTML
// <title> when present, the cleaned-up file name otherwise.
func Title(path string, data []byte) string {
	content := string(data)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "# ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "#"))
			}
		}
	case ".html", ".htm":
		if matches := titleTag.FindStringSubmatch(content); len(matches) > 1 {
			if title := strings.TrimSpace(html.UnescapeString(matches[1])); title != "" {
				return title
			}
		}
	}

	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

var (
	codeBlockRe  = regexp.MustCompile("(?s)```[^`]*```")
	inlineCodeRe = regexp.MustCompile("`[^`]+`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquoteRe = regexp.MustCompile(`(?m)^>\s*`)
	hrLineRe     = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
)

// stripMarkdown removes common markdown formatting. It handles the
// constructs that actually show up in notes and READMEs rather than
// aiming for CommonMark completeness.
func stripMarkdown(content string) string {
	content = codeBlockRe.ReplaceAllString(content, "")
	content = inlineCodeRe.ReplaceAllString(content, "")
	content = imageRe.ReplaceAllString(content, "")
	content = linkRe.ReplaceAllString(content, "$1")
	content = headingRe.ReplaceAllString(content, "")
	content = blockquoteRe.ReplaceAllString(content, "")
	content = hrLineRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	return collapseWhitespace(content)
}

var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockTags    = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|ul|ol|tr|blockquote|pre|table|section|article)[^>]*>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
)

// stripHTML removes tags and extracts readable text content.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become line breaks so sentences from adjacent
	// elements don't run together.
	content = blockTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	return collapseWhitespace(content)
}

var (
	multiSpacesRe   = regexp.MustCompile(`[ \t]+`)
	multiNewlinesRe = regexp.MustCompile(`\n{3,}`)
)

func collapseWhitespace(content string) string {
	content = multiSpacesRe.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")

	return multiNewlinesRe.ReplaceAllString(content, "\n\n")
}

func normaliseLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}
