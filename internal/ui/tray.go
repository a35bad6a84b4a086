package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"glimpse/internal/story"
)

// trayModel renders the horizontal story tray: one badge per group in feed
// order, preceded by the upload slot for the current user's own story.
type trayModel struct {
	index    *story.Index
	cursor   int
	seen     map[string]bool // story id -> seen locally
	showSeen bool            // dim fully-seen rings
	limit    int             // max groups rendered, 0 = no cap
}

func newTrayModel(ix *story.Index, showSeen bool, limit int) trayModel {
	return trayModel{index: ix, seen: make(map[string]bool), showSeen: showSeen, limit: limit}
}

// MoveCursor shifts the selection, clamped to the group range.
func (t *trayModel) MoveCursor(delta int) {
	t.cursor += delta
	t.clamp()
}

func (t *trayModel) clamp() {
	if t.cursor < 0 {
		t.cursor = 0
	}
	if n := t.index.Len(); t.cursor >= n {
		t.cursor = n - 1
		if t.cursor < 0 {
			t.cursor = 0
		}
	}
}

// Selected returns the group under the cursor.
func (t *trayModel) Selected() (*story.Group, bool) {
	groups := t.index.Groups()
	if t.cursor < 0 || t.cursor >= len(groups) {
		return nil, false
	}
	return groups[t.cursor], true
}

// SetSeen replaces the local seen set used for ring rendering.
func (t *trayModel) SetSeen(seen map[string]bool) {
	if seen == nil {
		seen = make(map[string]bool)
	}
	t.seen = seen
}

// MarkSeen records one story locally.
func (t *trayModel) MarkSeen(storyID string) {
	t.seen[storyID] = true
}

// allSeen reports whether every story in the group has been seen locally.
func (t *trayModel) allSeen(g *story.Group) bool {
	for _, s := range g.Stories {
		if !t.seen[s.ID] {
			return false
		}
	}
	return true
}

// View renders the tray as a single row. Cells past the width are elided;
// styling happens after width accounting so ANSI codes never skew it.
func (t *trayModel) View(width int, selfName string) string {
	label := "+ Your story"
	if selfName != "" {
		label = "+ " + runewidth.Truncate(selfName, 12, "…")
	}

	used := runewidth.StringWidth(label) + 2 // cell padding
	cells := []string{trayUploadStyle.Render(label)}

	for i, g := range t.index.Groups() {
		if t.limit > 0 && i >= t.limit {
			cells = append(cells, "…")
			break
		}
		name := runewidth.Truncate(g.Owner.Name, 12, "…")
		cell := fmt.Sprintf("● %s %d", name, len(g.Stories))

		used += runewidth.StringWidth(cell) + 3 // padding + separator
		if used > width && len(cells) > 1 {
			cells = append(cells, "…")
			break
		}

		switch {
		case i == t.cursor:
			cells = append(cells, traySelectedStyle.Render(cell))
		case t.showSeen && t.allSeen(g):
			cells = append(cells, traySeenStyle.Render(cell))
		default:
			cells = append(cells, trayUnseenStyle.Render(cell))
		}
	}

	return strings.Join(cells, " ")
}
