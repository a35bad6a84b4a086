package story

import "testing"

func group(ownerID string, storyIDs ...string) *Group {
	g := &Group{Owner: User{ID: ownerID, Name: ownerID}}
	for _, id := range storyIDs {
		g.Stories = append(g.Stories, &Story{ID: id, OwnerID: ownerID, Kind: MediaImage})
	}
	return g
}

func TestReplaceDropsEmptyGroups(t *testing.T) {
	ix := NewIndex()
	ix.Replace([]*Group{
		group("u1", "a", "b"),
		group("u2"), // empty, must not be retained
		group("u3", "c"),
	})

	if ix.Len() != 2 {
		t.Fatalf("index length = %d, want 2", ix.Len())
	}
	for _, g := range ix.Groups() {
		if len(g.Stories) == 0 {
			t.Errorf("group %s retained with zero stories", g.Owner.ID)
		}
	}
	if _, ok := ix.FindGroup("u2"); ok {
		t.Error("empty group should not be findable")
	}
}

func TestReplacePreservesFeedOrder(t *testing.T) {
	ix := NewIndex()
	ix.Replace([]*Group{group("u2", "a"), group("u1", "b"), group("u3", "c")})

	want := []string{"u2", "u1", "u3"}
	for i, g := range ix.Groups() {
		if g.Owner.ID != want[i] {
			t.Errorf("groups[%d] = %s, want %s", i, g.Owner.ID, want[i])
		}
	}
}

func TestRemoveStoryDropsEmptiedGroup(t *testing.T) {
	ix := NewIndex()
	ix.Replace([]*Group{group("u1", "a"), group("u2", "b", "c")})

	ix.RemoveStory("u1", "a")
	if _, ok := ix.FindGroup("u1"); ok {
		t.Error("group emptied by removal must be dropped")
	}
	if _, ok := ix.Lookup("a"); ok {
		t.Error("removed story still resolvable by id")
	}

	ix.RemoveStory("u2", "b")
	g, ok := ix.FindGroup("u2")
	if !ok || len(g.Stories) != 1 || g.Stories[0].ID != "c" {
		t.Errorf("partial removal broke the group: %+v", g)
	}

	// Unknown owner or story id is a no-op.
	ix.RemoveStory("nobody", "x")
	ix.RemoveStory("u2", "x")
	if ix.Len() != 1 {
		t.Errorf("no-op removals changed the index, len = %d", ix.Len())
	}
}

func TestReplaceStoryWritesThroughSharedRecord(t *testing.T) {
	ix := NewIndex()
	g := group("u1", "a")
	ix.Replace([]*Group{g})

	// A viewer session holds the same pointer the tray renders.
	held := g.Stories[0]

	ix.ReplaceStory(Story{ID: "a", OwnerID: "u1", Kind: MediaImage, Likes: []string{"u9"}})
	if !held.LikedBy("u9") {
		t.Error("authoritative copy not visible through the shared record")
	}
	if looked, _ := ix.Lookup("a"); looked != held {
		t.Error("lookup returned a different record than the group holds")
	}

	// Unknown ids are ignored.
	ix.ReplaceStory(Story{ID: "zzz"})
}

func TestToggleLikeFlipsMembership(t *testing.T) {
	s := &Story{ID: "a"}
	s.ToggleLike("u1")
	if !s.LikedBy("u1") {
		t.Fatal("toggle should add membership")
	}
	s.ToggleLike("u1")
	if s.LikedBy("u1") {
		t.Fatal("second toggle should remove membership")
	}
}
