package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glimpse/internal/api"
	"glimpse/internal/media"
	"glimpse/internal/viewer"
)

// defaultVideoDuration stands in for the media element's own end signal: a
// terminal cannot decode video, so playback is simulated at the boundary.
const defaultVideoDuration = 15 * time.Second

// noticeDuration is how long transient status notices stay visible.
const noticeDuration = 3 * time.Second

// refreshCmd fetches the story feed.
func refreshCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		groups, err := client.Feed(context.Background())
		return FeedLoaded{Groups: groups, Err: err}
	}
}

// recordViewCmd fires view tracking for one story. The id is captured here
// by value: however the session moves before the call lands, the view is
// attributed to the story that was actually shown.
func recordViewCmd(client *api.Client, storyID string) tea.Cmd {
	return func() tea.Msg {
		err := client.RecordView(context.Background(), storyID)
		return ViewRecorded{StoryID: storyID, Err: err}
	}
}

// toggleLikeCmd toggles the like server-side. The optimistic flip has
// already happened by the time this runs.
func toggleLikeCmd(client *api.Client, storyID string) tea.Cmd {
	return func() tea.Msg {
		updated, err := client.ToggleLike(context.Background(), storyID)
		return LikeResult{StoryID: storyID, Story: updated, Err: err}
	}
}

// deleteCmd deletes a story.
func deleteCmd(client *api.Client, ownerID, storyID string) tea.Cmd {
	return func() tea.Msg {
		err := client.DeleteStory(context.Background(), storyID)
		return DeleteResult{OwnerID: ownerID, StoryID: storyID, Err: err}
	}
}

// uploadCmd uploads a media file and creates the story record.
func uploadCmd(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		url, err := client.Upload(ctx, path)
		if err != nil {
			return UploadResult{Err: err}
		}
		if _, err := client.CreateStory(ctx, url, api.KindForFile(path)); err != nil {
			return UploadResult{Err: err}
		}
		return UploadResult{}
	}
}

// tickCmd schedules one autoplay tick under the given epoch.
func tickCmd(epoch int) tea.Cmd {
	return tea.Tick(viewer.TickInterval, func(time.Time) tea.Msg {
		return TickMsg{Epoch: epoch}
	})
}

// mediaEndCmd schedules the simulated end-of-playback signal for a video
// story, tagged with the epoch so pausing or navigating orphans it.
func mediaEndCmd(storyID string, epoch int) tea.Cmd {
	return tea.Tick(defaultVideoDuration, func(time.Time) tea.Msg {
		return MediaEndedMsg{StoryID: storyID, Epoch: epoch}
	})
}

// prefetchCmd warms upcoming media in the background.
func prefetchCmd(p *media.Prefetcher, urls []string) tea.Cmd {
	if p == nil || len(urls) == 0 {
		return nil
	}
	return func() tea.Msg {
		n := p.Warm(context.Background(), urls)
		return PrefetchDone{Fetched: n}
	}
}

// noticeCmd expires the transient status notice.
func noticeCmd() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}
