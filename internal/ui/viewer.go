package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"glimpse/internal/story"
	"glimpse/internal/viewer"
)

// viewerView renders an open viewer.Session. All state lives in the
// session; this type only holds the rendering widgets.
type viewerView struct {
	prog progress.Model
}

func newViewerView() viewerView {
	p := progress.New(
		progress.WithGradient(string(colorPrimary), string(colorHighlight)),
		progress.WithoutPercentage(),
	)
	return viewerView{prog: p}
}

// View renders the full-screen viewer for the open session.
func (v *viewerView) View(s *viewer.Session, currentUserID string, width, height int) string {
	g := s.Group()
	if g == nil {
		return ""
	}
	cur := s.Current()

	var sections []string
	sections = append(sections, v.renderBars(s, width))
	sections = append(sections, v.renderHeader(s, width))

	paneHeight := height - 6
	if s.DrawerOpen() {
		paneHeight -= len(cur.Viewers) + 2
	}
	if paneHeight < 3 {
		paneHeight = 3
	}
	sections = append(sections, v.renderMedia(s, currentUserID, width, paneHeight))

	if s.DrawerOpen() {
		sections = append(sections, v.renderDrawer(cur, width))
	}

	sections = append(sections, v.renderHelp(g.Owner.ID == currentUserID))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderBars draws one segment per story: full for played, live progress for
// the current one, empty for upcoming.
func (v *viewerView) renderBars(s *viewer.Session, width int) string {
	n := len(s.Group().Stories)
	segWidth := (width - n + 1) / n
	if segWidth < 3 {
		segWidth = 3
	}
	v.prog.Width = segWidth

	segs := make([]string, 0, n)
	for i := range s.Group().Stories {
		var val float64
		switch {
		case i < s.Index():
			val = 1
		case i == s.Index():
			val = s.Progress() / 100
		}
		segs = append(segs, v.prog.ViewAs(val))
	}
	return strings.Join(segs, " ")
}

func (v *viewerView) renderHeader(s *viewer.Session, width int) string {
	g := s.Group()
	name := viewerOwnerStyle.Render(runewidth.Truncate(g.Owner.Name, 24, "…"))
	pos := helpStyle.Render(fmt.Sprintf("%d/%d", s.Index()+1, len(g.Stories)))

	badge := ""
	if !s.Playing() {
		badge = "  " + pausedStyle.Render("⏸ paused")
	}
	return fmt.Sprintf(" %s  %s%s", name, pos, badge)
}

func (v *viewerView) renderMedia(s *viewer.Session, currentUserID string, width, height int) string {
	cur := s.Current()

	icon := "🖼"
	if cur.Kind == story.MediaVideo {
		icon = "▶"
	}
	heart := helpStyle.Render(fmt.Sprintf("♡ %d", len(cur.Likes)))
	if cur.LikedBy(currentUserID) {
		heart = likedStyle.Render(fmt.Sprintf("♥ %d", len(cur.Likes)))
	}

	body := fmt.Sprintf("%s  %s\n\n%s\n\n%s",
		icon, cur.Kind,
		runewidth.Truncate(cur.MediaURL, width-8, "…"),
		heart)

	return mediaPaneStyle.Width(width - 2).Height(height).Render(body)
}

// renderDrawer lists who viewed the current story. Only reachable for the
// owner; the session rejects the toggle for everyone else.
func (v *viewerView) renderDrawer(cur *story.Story, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seen by %d\n", len(cur.Viewers))
	for _, u := range cur.Viewers {
		fmt.Fprintf(&b, "  %s\n", runewidth.Truncate(u.Name, 24, "…"))
	}
	return drawerStyle.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func (v *viewerView) renderHelp(isOwner bool) string {
	keys := "[←/tap] back  [→/tap] next  [p] pause  [f] like"
	if isOwner {
		keys += "  [v] viewers  [d] delete"
	}
	keys += "  [esc] close"
	return helpStyle.Render(" " + keys)
}
