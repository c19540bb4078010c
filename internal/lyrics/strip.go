package lyrics

import (
	"regexp"
	"strings"
)

// Scraped lyric pages carry non-lyric boilerplate around the text:
// contributor-count headers, section titles ending in "Lyrics",
// promotional snippets and a trailing embed marker. These are removed
// in order, then blank-line runs are collapsed.
var stripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+\s*Contributors?.*?Lyrics`),
	regexp.MustCompile(`(?i)\d+\s*Contributor.*?\n`),
	regexp.MustCompile(`(?im)^.*?Lyrics\s*$`),
	regexp.MustCompile(`(?i)You might also like`),
	regexp.MustCompile(`(?i)See.*?Live`),
	regexp.MustCompile(`(?i)Get tickets as low as \$\d+`),
	regexp.MustCompile(`(?im)Embed$`),
}

var blankRun = regexp.MustCompile(`\n\s*\n+`)

// CleanPlainText strips known boilerplate from scraped plain lyrics.
func CleanPlainText(text string) string {
	for _, pattern := range stripPatterns {
		text = pattern.ReplaceAllString(text, "")
	}
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
