package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() missing file: %v", err)
	}

	for _, e := range []HistoryEntry{
		{Line: "player.health > 10", Mode: modeEval},
		{Line: "tick 2", Mode: modeCtrl},
		{Line: "  max(1, 2)  ", Mode: modeEval},
		{Line: "   ", Mode: modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("Add(%q): %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "E:player.health > 10\nC:tick 2\nE:max(1, 2)\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if reloaded.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", reloaded.Len())
	}

	if e, _ := reloaded.Entry(1); e.Line != "tick 2" || e.Mode != modeCtrl {
		t.Errorf("Entry(1) = %+v", e)
	}
}

func TestHistory_Duplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "c", "a"} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	var got []string

	for i := range h.Len() {
		e, err := h.Entry(i)
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, e.Line)
	}

	if strings.Join(got, ",") != "b,c,a" {
		t.Errorf("entries = %v, want [b c a]", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "E:b\nE:c\nE:a\n" {
		t.Errorf("file = %q", data)
	}

	// The same text in another mode is a distinct entry.
	if err := h.Add("a", modeCtrl); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 4 {
		t.Errorf("Len() = %d, want 4", h.Len())
	}
}

func TestHistory_Bounds(t *testing.T) {
	h := NewHistory("")

	if _, err := h.Entry(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(0) on empty history: %v", err)
	}

	for i := range maxHistory + 5 {
		if err := h.Add(strings.Repeat("x", i+1), modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Fatalf("Len() = %d, want %d", h.Len(), maxHistory)
	}

	if e, _ := h.Entry(0); len(e.Line) != 6 {
		t.Errorf("oldest entry has length %d, want 6", len(e.Line))
	}

	if _, err := h.Entry(-1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(-1): %v", err)
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		line string
		want HistoryEntry
		ok   bool
	}{
		{"E:a + b", HistoryEntry{Line: "a + b", Mode: modeEval}, true},
		{"C:list", HistoryEntry{Line: "list", Mode: modeCtrl}, true},
		{"legacy", HistoryEntry{Line: "legacy", Mode: modeEval}, true},
		{"C:", HistoryEntry{Mode: modeCtrl}, false},
		{"", HistoryEntry{}, false},
	}

	for _, tt := range tests {
		got, ok := parseEntry(tt.line)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseEntry(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}
