// Package story provides the data model for the stories feed.
//
// Story records are shared: the tray index and an open viewer session hold
// pointers to the same Story, so a mutation (like, authoritative server copy)
// is visible everywhere in a single write.
package story

import (
	"errors"
	"time"
)

// ErrNotOwner is returned when an owner-only operation is attempted by
// someone other than the story's owner.
var ErrNotOwner = errors.New("not the story owner")

// ErrNotFound is returned when a story id is not present in the index.
var ErrNotFound = errors.New("story not found")

// MediaKind distinguishes image stories (fixed autoplay duration) from video
// stories (advance on media end).
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// User is a reference to an account as the backend returns it.
type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Story is a single ephemeral media post. OwnerID is immutable after
// creation. Likes and Viewers are membership sets; order carries no meaning.
type Story struct {
	ID        string    `json:"_id"`
	OwnerID   string    `json:"user"`
	MediaURL  string    `json:"media"`
	Kind      MediaKind `json:"type"`
	Likes     []string  `json:"likes"`
	Viewers   []User    `json:"viewers"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikedBy reports whether userID is in the story's like set.
func (s *Story) LikedBy(userID string) bool {
	for _, id := range s.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike flips userID's membership in the like set locally. Used for the
// optimistic update before the backend responds; the response's authoritative
// copy replaces the record afterwards.
func (s *Story) ToggleLike(userID string) {
	for i, id := range s.Likes {
		if id == userID {
			s.Likes = append(s.Likes[:i], s.Likes[i+1:]...)
			return
		}
	}
	s.Likes = append(s.Likes, userID)
}

// ViewedBy reports whether userID is in the story's viewer set.
func (s *Story) ViewedBy(userID string) bool {
	for _, u := range s.Viewers {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Group is all of one user's current stories, one tray entry. Derived from
// the feed response and never persisted. A group with zero stories is never
// retained.
type Group struct {
	Owner   User     `json:"user"`
	Stories []*Story `json:"stories"`
}
