package lyrics

import (
	"strings"
	"testing"
)

func TestCleanPlainText(t *testing.T) {
	raw := strings.Join([]string{
		"12 ContributorsSong Title Lyrics",
		"first line",
		"",
		"",
		"second line",
		"You might also like",
		"See Artist Live",
		"Get tickets as low as $25",
		"third lineEmbed",
	}, "\n")

	got := CleanPlainText(raw)

	for _, banned := range []string{"Contributors", "You might also like", "tickets", "Embed"} {
		if strings.Contains(got, banned) {
			t.Errorf("boilerplate %q survived: %q", banned, got)
		}
	}
	for _, kept := range []string{"first line", "second line", "third line"} {
		if !strings.Contains(got, kept) {
			t.Errorf("lyric text %q was stripped: %q", kept, got)
		}
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank-line run not collapsed: %q", got)
	}
	if got != strings.TrimSpace(got) {
		t.Errorf("result not trimmed: %q", got)
	}
}

func TestCleanPlainTextPlainInputUntouched(t *testing.T) {
	raw := "just a line\nand another"
	if got := CleanPlainText(raw); got != raw {
		t.Errorf("CleanPlainText(%q) = %q, want unchanged", raw, got)
	}
}
