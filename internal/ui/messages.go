// Package ui provides the Bubble Tea TUI for glimpse.
package ui

import "glimpse/internal/story"

// FeedLoaded is sent when a story feed fetch finishes. On error the tray
// keeps its prior state; stories are best effort.
type FeedLoaded struct {
	Groups []*story.Group
	Err    error
}

// TickMsg drives autoplay progress for the open viewer. Epoch ties the tick
// to the session state it was scheduled under; stale ticks are dropped.
type TickMsg struct {
	Epoch int
}

// MediaEndedMsg signals that a video story finished playing.
type MediaEndedMsg struct {
	StoryID string
	Epoch   int
}

// ViewRecorded is sent when a view-tracking call completes. Failures are
// logged and otherwise ignored.
type ViewRecorded struct {
	StoryID string
	Err     error
}

// LikeResult carries the server's authoritative story copy after a like
// toggle, or the error that should roll the optimistic flip back.
type LikeResult struct {
	StoryID string
	Story   *story.Story
	Err     error
}

// DeleteResult is sent when a delete call completes.
type DeleteResult struct {
	OwnerID string
	StoryID string
	Err     error
}

// UploadResult is sent when the upload-then-create flow completes.
type UploadResult struct {
	Err error
}

// PrefetchDone reports a background media warm-up, for logging only.
type PrefetchDone struct {
	Fetched int
}

// noticeExpiredMsg clears the transient status notice.
type noticeExpiredMsg struct{}
