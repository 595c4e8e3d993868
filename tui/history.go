// Package tui provides a Bubble Tea terminal UI for playing SoloDnD campaigns.
package tui

// History keeps the most recent input lines for Up/Down recall.
type History struct {
	entries []string
	max     int
	cursor  int // -1 when not navigating
}

// NewHistory creates a history holding at most max entries.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// Len reports how many entries are stored.
func (h *History) Len() int { return len(h.entries) }

// Push records an input line. Blank lines and repeats of the newest entry
// are skipped; the oldest entry is dropped once the history is full.
func (h *History) Push(line string) {
	if line == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.max-1]
	}
	h.entries = append(h.entries, line)
}

// Prev steps back to an older entry, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = len(h.entries) - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward to a newer entry. Stepping past the newest returns
// ("", false) and ends navigation.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
