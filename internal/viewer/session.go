// Package viewer holds the state machine for the full-screen story viewer.
//
// A Session is either closed or open on one group with a current index,
// playing flag, and progress percentage. All transitions run on the Bubble
// Tea update loop, so the machine is single-threaded by construction.
//
// Timer invalidation: every transition bumps an epoch counter. Tick and
// media-ended handlers carry the epoch they were scheduled under and are
// discarded when it no longer matches, so a stale timer can never advance a
// story that is no longer current.
package viewer

import (
	"glimpse/internal/story"
)

// Session is the transient state of the story playback UI.
//
// Invariant while open: 0 <= index < len(group.Stories).
type Session struct {
	group      *story.Group
	index      int
	progress   float64
	playing    bool
	drawerOpen bool
	open       bool

	epoch  int
	viewed map[string]bool // story ids view-tracked this session
}

// NewSession returns a closed session.
func NewSession() *Session {
	return &Session{viewed: make(map[string]bool)}
}

// IsOpen reports whether a group is open.
func (s *Session) IsOpen() bool { return s.open }

// Group returns the open group, nil when closed.
func (s *Session) Group() *story.Group {
	if !s.open {
		return nil
	}
	return s.group
}

// Index returns the current story index.
func (s *Session) Index() int { return s.index }

// Progress returns the current story's progress in [0, 100].
func (s *Session) Progress() float64 { return s.progress }

// Playing reports whether autoplay is running.
func (s *Session) Playing() bool { return s.open && s.playing }

// DrawerOpen reports whether the viewers drawer is showing.
func (s *Session) DrawerOpen() bool { return s.open && s.drawerOpen }

// Epoch returns the current timer token. Ticks scheduled under an older
// epoch must be ignored.
func (s *Session) Epoch() int { return s.epoch }

// Current returns the story at the current index, nil when closed.
func (s *Session) Current() *story.Story {
	if !s.open {
		return nil
	}
	return s.group.Stories[s.index]
}

// Open starts playback at index 0 of the group. Returns the story id to
// view-track, or "" if the group has no stories and the session stays
// closed.
func (s *Session) Open(g *story.Group) string {
	s.epoch++
	if g == nil || len(g.Stories) == 0 {
		return ""
	}
	s.group = g
	s.index = 0
	s.progress = 0
	s.playing = true
	s.drawerOpen = false
	s.open = true
	s.viewed = make(map[string]bool)
	return s.markViewed()
}

// markViewed records the current story as view-tracked for this session and
// returns its id, or "" if it was already tracked. One view call per
// distinct (session, index), regardless of pause/resume or revisits.
func (s *Session) markViewed() string {
	id := s.group.Stories[s.index].ID
	if s.viewed[id] {
		return ""
	}
	s.viewed[id] = true
	return id
}

// Next advances to the following story, or closes past the last one.
// Returns the story id to view-track (may be "") and whether the session
// closed.
func (s *Session) Next() (viewID string, closed bool) {
	if !s.open {
		return "", false
	}
	if s.index+1 < len(s.group.Stories) {
		s.index++
		s.progress = 0
		s.epoch++
		return s.markViewed(), false
	}
	s.Close()
	return "", true
}

// Previous steps back one story, or restarts the current one at index 0.
// Never closes.
func (s *Session) Previous() {
	if !s.open {
		return
	}
	if s.index > 0 {
		s.index--
	}
	s.progress = 0
	s.epoch++
}

// Tap routes a tap by horizontal position: the left third goes back, the
// rest goes forward.
func (s *Session) Tap(x, viewportWidth int) (viewID string, closed bool) {
	if !s.open {
		return "", false
	}
	if x < viewportWidth/3 {
		s.Previous()
		return "", false
	}
	return s.Next()
}

// Pause stops autoplay without resetting progress.
func (s *Session) Pause() {
	if !s.open || !s.playing {
		return
	}
	s.playing = false
	s.epoch++
}

// Resume restarts autoplay from the frozen progress.
func (s *Session) Resume() {
	if !s.open || s.playing {
		return
	}
	s.playing = true
	s.epoch++
}

// Close tears the session down. Any outstanding tick is orphaned by the
// epoch bump.
func (s *Session) Close() {
	s.epoch++
	s.group = nil
	s.index = 0
	s.progress = 0
	s.playing = false
	s.drawerOpen = false
	s.open = false
}

// ToggleDrawer shows or hides the viewers drawer. Owner-only: the drawer
// exposes who viewed the story, which only its owner may see.
func (s *Session) ToggleDrawer(userID string) error {
	if !s.open {
		return nil
	}
	if s.group.Owner.ID != userID {
		return story.ErrNotOwner
	}
	s.drawerOpen = !s.drawerOpen
	return nil
}

// Tick applies one autoplay tick scheduled under epoch. Returns true when
// the current story completed and the caller should advance. Stale epochs,
// paused playback, and video stories (which advance on media end) are all
// no-ops.
func (s *Session) Tick(epoch int) bool {
	if !s.open || !s.playing || epoch != s.epoch {
		return false
	}
	if s.group.Stories[s.index].Kind != story.MediaImage {
		return false
	}
	s.progress += ProgressPerTick
	if s.progress >= progressDone {
		s.progress = progressDone
		return true
	}
	return false
}

// MediaEnded advances past a finished video story. Ignored unless the named
// story is still current.
func (s *Session) MediaEnded(storyID string) (viewID string, closed bool) {
	if !s.open || s.group.Stories[s.index].ID != storyID {
		return "", false
	}
	return s.Next()
}

// RemoveStory takes a deleted story out of the open group, keeping the index
// pointed at the same logical story: a removal before the current index
// shifts it down, a removal after leaves it alone, and removing the last
// remaining story closes the session. The group slice is shared with the
// tray index, so the removal is visible there too.
func (s *Session) RemoveStory(storyID string) (removed, closed bool) {
	if !s.open {
		return false, false
	}
	at := -1
	for i, st := range s.group.Stories {
		if st.ID == storyID {
			at = i
			break
		}
	}
	if at < 0 {
		return false, false
	}

	s.group.Stories = append(s.group.Stories[:at], s.group.Stories[at+1:]...)
	if len(s.group.Stories) == 0 {
		s.Close()
		return true, true
	}
	switch {
	case at < s.index:
		s.index--
	case at == s.index:
		if s.index >= len(s.group.Stories) {
			s.index = len(s.group.Stories) - 1
		}
		s.progress = 0
	}
	s.epoch++
	return true, false
}
