package story

// Index is the ordered set of story groups backing the tray.
//
// It is the single source of truth for story records: byID maps every story
// id to the same *Story the group slices hold, so the tray and an open viewer
// never see divergent copies. The Bubble Tea update loop serializes all
// access; Index does no locking of its own.
type Index struct {
	groups []*Group
	byID   map[string]*Story
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[string]*Story)}
}

// Replace swaps in a freshly fetched feed. Groups with no stories are
// dropped; feed order is preserved for the rest.
func (ix *Index) Replace(groups []*Group) {
	ix.groups = ix.groups[:0]
	ix.byID = make(map[string]*Story)
	for _, g := range groups {
		if g == nil || len(g.Stories) == 0 {
			continue
		}
		ix.groups = append(ix.groups, g)
		for _, s := range g.Stories {
			ix.byID[s.ID] = s
		}
	}
}

// Groups returns the ordered groups. Callers must not reorder the slice.
func (ix *Index) Groups() []*Group {
	return ix.groups
}

// Len returns the number of groups.
func (ix *Index) Len() int {
	return len(ix.groups)
}

// FindGroup returns the group owned by ownerID.
func (ix *Index) FindGroup(ownerID string) (*Group, bool) {
	for _, g := range ix.groups {
		if g.Owner.ID == ownerID {
			return g, true
		}
	}
	return nil, false
}

// Lookup returns the shared record for a story id.
func (ix *Index) Lookup(storyID string) (*Story, bool) {
	s, ok := ix.byID[storyID]
	return s, ok
}

// ReplaceStory writes the server's authoritative copy of a story through the
// shared record. Every holder of the pointer (tray, open viewer) sees the
// update at once. Unknown ids are a no-op.
func (ix *Index) ReplaceStory(updated Story) {
	if s, ok := ix.byID[updated.ID]; ok {
		*s = updated
	}
}

// RemoveStory removes one story from the named owner's group, dropping the
// group when it empties. Missing group or story is a no-op, and a story
// already removed from the group slice (a viewer session mutates the shared
// slice first) still gets its byID entry cleared.
func (ix *Index) RemoveStory(ownerID, storyID string) {
	delete(ix.byID, storyID)

	g, ok := ix.FindGroup(ownerID)
	if !ok {
		return
	}
	for i, s := range g.Stories {
		if s.ID == storyID {
			g.Stories = append(g.Stories[:i], g.Stories[i+1:]...)
			break
		}
	}
	if len(g.Stories) == 0 {
		ix.dropGroup(ownerID)
	}
}

func (ix *Index) dropGroup(ownerID string) {
	for i, g := range ix.groups {
		if g.Owner.ID == ownerID {
			ix.groups = append(ix.groups[:i], ix.groups[i+1:]...)
			return
		}
	}
}
