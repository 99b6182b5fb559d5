package text

import (
	"testing"

	"github.com/pageflow/pageflow/fontreg"
	"github.com/pageflow/pageflow/style"
)

func helvetica(t *testing.T) fontreg.Face {
	t.Helper()
	return fontreg.NewRegistry().Lookup("Helvetica", 400, false)
}

func TestBreakLinesSingleShortWordFits(t *testing.T) {
	face := helvetica(t)
	s := style.Defaults()
	lines := BreakLines([]InputRun{{Content: "Hello", Style: s, Face: face}}, 500)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if len(lines[0].Fragments) != 1 || lines[0].Fragments[0].Text != "Hello" {
		t.Fatalf("unexpected fragments: %+v", lines[0].Fragments)
	}
}

func TestBreakLinesWraps(t *testing.T) {
	face := helvetica(t)
	s := style.Defaults()
	// Narrow width forces multiple lines for a longer sentence.
	lines := BreakLines([]InputRun{{Content: "the quick brown fox jumps", Style: s, Face: face}}, 60)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(lines))
	}
	var rebuilt string
	for i, l := range lines {
		if i > 0 {
			rebuilt += " "
		}
		for _, f := range l.Fragments {
			rebuilt += f.Text
		}
	}
	// Word content must survive wrapping in order (inter-word spaces are
	// reconstructed above, not asserted byte-for-byte).
	want := "the quick brown fox jumps"
	if collapseSpaces(rebuilt) != want {
		t.Fatalf("expected %q, got %q", want, rebuilt)
	}
}

func collapseSpaces(s string) string {
	out := make([]byte, 0, len(s))
	prevSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		out = append(out, c)
	}
	return string(out)
}

func TestBreakLinesOversizedWordAlone(t *testing.T) {
	face := helvetica(t)
	s := style.Defaults()
	lines := BreakLines([]InputRun{{Content: "supercalifragilisticexpialidocious short", Style: s, Face: face}}, 50)
	if len(lines[0].Fragments[0].Text) == 0 {
		t.Fatalf("expected the oversized word placed alone on its own line")
	}
}

func TestMinContentWidthIsWidestWord(t *testing.T) {
	face := helvetica(t)
	s := style.Defaults()
	runs := []InputRun{{Content: "a bb ccccccccc", Style: s, Face: face}}
	got := MinContentWidth(runs)
	_, wantWidth := measureWord("ccccccccc", face, s.FontSize, s.LetterSpacing)
	if got != wantWidth {
		t.Fatalf("expected widest word width %v, got %v", wantWidth, got)
	}
}

func TestPlaceholderTokenIsAtomic(t *testing.T) {
	face := helvetica(t)
	s := style.Defaults()
	lines := BreakLines([]InputRun{{Content: "Page {{pageNumber}} of {{totalPages}}", Style: s, Face: face}}, 1000)
	if len(lines) != 1 {
		t.Fatalf("expected single line, got %d", len(lines))
	}
	var placeholders int
	for _, f := range lines[0].Fragments {
		if f.Placeholder != "" {
			placeholders++
		}
	}
	if placeholders != 2 {
		t.Fatalf("expected 2 placeholder fragments, got %d", placeholders)
	}
}
