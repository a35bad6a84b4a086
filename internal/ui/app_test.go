package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glimpse/internal/api"
	"glimpse/internal/config"
	"glimpse/internal/story"
)

const selfID = "me"

func testGroup(ownerID string, ids ...string) *story.Group {
	g := &story.Group{Owner: story.User{ID: ownerID, Name: "@" + ownerID}}
	for _, id := range ids {
		g.Stories = append(g.Stories, &story.Story{
			ID:      id,
			OwnerID: ownerID,
			Kind:    story.MediaImage,
		})
	}
	return g
}

func newTestModel(t *testing.T, groups ...*story.Group) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.User.ID = selfID
	cfg.User.Name = "@me"

	// The client is never dialed in these tests: commands are returned
	// as closures and deliberately not executed.
	client := api.New("http://127.0.0.1:1", "token", time.Second)

	m := New(cfg, client, nil, nil)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	m, _ = apply(t, m, FeedLoaded{Groups: groups})
	return m
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOpenViewerMarksFirstStorySeen(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1", "s2"))

	m, cmd := apply(t, m, key(" "))
	if !m.session.IsOpen() {
		t.Fatal("viewer should be open after enter on tray")
	}
	if !m.tray.seen["s1"] {
		t.Error("first story should be marked seen on open")
	}
	if m.tray.seen["s2"] {
		t.Error("second story should not be seen yet")
	}
	if cmd == nil {
		t.Error("open should issue view tracking and timer commands")
	}
}

func TestOptimisticLikeRollsBackOnFailure(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	m, cmd := apply(t, m, key("f"))
	if cmd == nil {
		t.Fatal("like should issue a server command")
	}
	s, _ := m.index.Lookup("s1")
	if !s.LikedBy(selfID) {
		t.Fatal("like should flip immediately, before the server responds")
	}

	m, _ = apply(t, m, LikeResult{StoryID: "s1", Err: errors.New("boom")})
	if s.LikedBy(selfID) {
		t.Error("failed like should roll back to the pre-tap state")
	}
	if m.notice == "" {
		t.Error("failed like should surface a notice")
	}
}

func TestLikeAdoptsServerCopy(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))
	m, _ = apply(t, m, key("f"))

	server := story.Story{ID: "s1", OwnerID: "alice", Kind: story.MediaImage, Likes: []string{selfID, "bob"}}
	m, _ = apply(t, m, LikeResult{StoryID: "s1", Story: &server})

	s, _ := m.index.Lookup("s1")
	if len(s.Likes) != 2 {
		t.Fatalf("story should carry the server's like list, got %v", s.Likes)
	}
	if cur := m.session.Current(); len(cur.Likes) != 2 {
		t.Error("viewer should see the reconciled record too; the copies diverged")
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m := newTestModel(t, testGroup(selfID, "mine1"))
	m, _ = apply(t, m, key(" "))

	m, _ = apply(t, m, key("d"))
	if m.confirm == nil {
		t.Fatal("owner pressing d should open the confirm modal")
	}
	if m.session.Playing() {
		t.Error("timer should pause while the confirm modal is up")
	}

	m, _ = apply(t, m, key("n"))
	if m.confirm != nil {
		t.Error("n should dismiss the modal")
	}
	if !m.session.Playing() {
		t.Error("dismissing the modal should resume playback")
	}
	if s, ok := m.index.Lookup("mine1"); !ok || s == nil {
		t.Error("declining should leave the story in place")
	}
}

func TestDeleteHiddenFromNonOwner(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	m, cmd := apply(t, m, key("d"))
	if m.confirm != nil {
		t.Error("non-owner must not reach the delete confirm")
	}
	if cmd != nil {
		t.Error("non-owner d should be a no-op")
	}
}

func TestDeleteResultReindexesBothCopies(t *testing.T) {
	m := newTestModel(t, testGroup(selfID, "mine1", "mine2"))
	m, _ = apply(t, m, key(" "))

	m, _ = apply(t, m, DeleteResult{OwnerID: selfID, StoryID: "mine1"})

	g, ok := m.index.FindGroup(selfID)
	if !ok || len(g.Stories) != 1 {
		t.Fatalf("tray group should hold one story after delete, got ok=%v", ok)
	}
	if !m.session.IsOpen() {
		t.Fatal("viewer should stay open while the group has stories")
	}
	if cur := m.session.Current(); cur.ID != "mine2" {
		t.Errorf("viewer should land on the surviving story, got %q", cur.ID)
	}
}

func TestDeletingLastStoryClosesViewerAndDropsGroup(t *testing.T) {
	m := newTestModel(t, testGroup(selfID, "only"))
	m, _ = apply(t, m, key(" "))

	m, _ = apply(t, m, DeleteResult{OwnerID: selfID, StoryID: "only"})

	if m.session.IsOpen() {
		t.Error("viewer should close when its group empties")
	}
	if m.index.Len() != 0 {
		t.Error("emptied group should vanish from the tray")
	}
}

func TestStaleTickIsDiscarded(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	old := m.session.Epoch()
	m, _ = apply(t, m, key("p")) // pause bumps the epoch

	m, _ = apply(t, m, TickMsg{Epoch: old})
	if got := m.session.Progress(); got != 0 {
		t.Errorf("stale tick must not move progress, got %v", got)
	}
}

func TestLiveTickAdvancesProgress(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	m, cmd := apply(t, m, TickMsg{Epoch: m.session.Epoch()})
	if m.session.Progress() <= 0 {
		t.Error("live tick should advance progress")
	}
	if cmd == nil {
		t.Error("an unfinished story should reschedule the tick")
	}
}

func TestFeedRefreshDeferredWhileViewerOpen(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	fresh := []*story.Group{testGroup("bob", "b1")}
	m, _ = apply(t, m, FeedLoaded{Groups: fresh})

	if _, ok := m.index.FindGroup("alice"); !ok {
		t.Fatal("refresh must not swap records out from under an open viewer")
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := m.index.FindGroup("bob"); !ok {
		t.Error("held-back feed should apply once the viewer closes")
	}
	if _, ok := m.index.FindGroup("alice"); ok {
		t.Error("stale groups should be gone after the deferred apply")
	}
}

func TestMouseTapZones(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1", "s2"))
	m, _ = apply(t, m, key(" "))

	// Right two thirds advance.
	m, _ = apply(t, m, tea.MouseMsg{X: 80, Action: tea.MouseActionRelease})
	if got := m.session.Index(); got != 1 {
		t.Fatalf("tap at x=80 of 90 should advance, index = %d", got)
	}

	// Left third goes back.
	m, _ = apply(t, m, tea.MouseMsg{X: 5, Action: tea.MouseActionRelease})
	if got := m.session.Index(); got != 0 {
		t.Errorf("tap at x=5 of 90 should rewind, index = %d", got)
	}
}

func TestMousePressPausesUntilRelease(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	m, _ = apply(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.session.Playing() {
		t.Fatal("press-and-hold should pause playback")
	}

	m, _ = apply(t, m, tea.MouseMsg{X: 80, Action: tea.MouseActionRelease})
	if !m.session.Playing() {
		t.Error("release should resume playback")
	}
}

func TestViewersDrawerOwnerOnly(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key(" "))

	m, _ = apply(t, m, key("v"))
	if m.session.DrawerOpen() {
		t.Error("non-owner must not open the viewers drawer")
	}

	m = newTestModel(t, testGroup(selfID, "mine"))
	m, _ = apply(t, m, key(" "))
	m, _ = apply(t, m, key("v"))
	if !m.session.DrawerOpen() {
		t.Error("owner should open the viewers drawer")
	}
}

func TestUploadPromptCancel(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))

	m, _ = apply(t, m, key("u"))
	if !m.uploading {
		t.Fatal("u should open the upload prompt")
	}

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.uploading {
		t.Error("esc should cancel the upload prompt")
	}
}

func TestUploadSubmitIssuesCommand(t *testing.T) {
	m := newTestModel(t, testGroup("alice", "s1"))
	m, _ = apply(t, m, key("u"))
	m, _ = apply(t, m, key("x"))

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.uploading {
		t.Error("enter should close the prompt")
	}
	if cmd == nil {
		t.Error("a non-empty path should issue the upload command")
	}
}
