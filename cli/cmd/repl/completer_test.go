package repl

import (
	"context"
	"testing"

	"github.com/ardnew/ftmpl/registry"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"second_alternative", "n(0) m", 6, "m", 5, 6},
		{"after_paren", "seq(wo", 6, "wo", 4, 6},
		{"after_comma", "seq(a, wo", 9, "wo", 7, 9},
		{"in_angle_tuple", "<a,wo", 5, "wo", 3, 5},
		{"after_scope_open", "n(0){wo", 7, "wo", 5, 7},
		{"after_poly_marker", "poly#(2, wo", 11, "wo", 9, 11},
		{"empty_at_boundary", "n(0){", 5, "", 5, 5},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"empty_input", "", 0, "", 0, 0},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		// Name separators are part of a word.
		{"dotted", "word.lower", 10, "word.lower", 0, 10},
		{"separators", "x.y-z", 5, "x.y-z", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(
		context.Background(),
		Config{Registry: registry.Demo()},
		NewHistory(""),
	)
}

func withInput(m model, text string, cursor int) model {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)

	return m
}

func TestComputeMatches(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		mode      inputMode
		wantFirst string
		wantNone  bool
	}{
		{"feature", "n(0) o", modeEval, "o", false},
		{"keyword", "n(0) tup", modeEval, "tuple", false},
		{"inside_seq", "seq(n(0), o", modeEval, "o", false},
		{"inside_poly", "poly(2, o", modeEval, "o", false},
		{"literal_argument", "n(o", modeEval, "", true},
		{"at_boundary", "n(0) ", modeEval, "", true},
		{"command", "hel", modeCtrl, "help", false},
		{"no_features_in_ctrl", "tup", modeCtrl, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(t)
			m.mode = tt.mode
			m = withInput(m, tt.input, len(tt.input))

			matches, _, end := m.computeMatches()
			if tt.wantNone {
				if len(matches) != 0 {
					t.Fatalf("got %d matches, want none", len(matches))
				}

				return
			}

			if len(matches) == 0 {
				t.Fatal("got no matches")
			}

			if matches[0].Str != tt.wantFirst {
				t.Errorf("best match = %q, want %q", matches[0].Str, tt.wantFirst)
			}

			if end != len(tt.input) {
				t.Errorf("word end = %d, want %d", end, len(tt.input))
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	m := testModel(t)
	m = withInput(m, "p", 1)

	matches, _, _ := m.computeMatches()
	if len(matches) < 2 {
		t.Fatalf("want several matches for %q, got %d", "p", len(matches))
	}

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("no matches rendered %q", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("zero width rendered %q", got)
	}

	if got := renderCandidateBar(matches, 0, true, 80); got == "" {
		t.Error("matches rendered nothing")
	}
}
