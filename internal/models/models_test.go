package models

import "testing"

func TestParsePosition(t *testing.T) {
	for _, p := range Positions {
		got, err := ParsePosition(string(p))
		if err != nil {
			t.Errorf("ParsePosition(%q) unexpected error: %v", p, err)
		}
		if got != p {
			t.Errorf("ParsePosition(%q) = %q", p, got)
		}
	}

	got, err := ParsePosition("middle")
	if err == nil {
		t.Error("expected error for unknown position")
	}
	if got != PositionBottomRight {
		t.Errorf("expected bottom-right fallback, got %q", got)
	}
}

func TestBatchResultTotal(t *testing.T) {
	r := BatchResult{Processed: 3, Skipped: 1, Failed: 2}
	if r.Total() != 6 {
		t.Errorf("expected total 6, got %d", r.Total())
	}
}
