// Package coord provides background feed refresh for glimpse.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"glimpse/internal/logging"
	"glimpse/internal/story"
	"glimpse/internal/ui"
)

// refreshInterval is the time between feed refreshes.
const refreshInterval = 2 * time.Minute

// fetchTimeout is the timeout for each feed fetch.
const fetchTimeout = 15 * time.Second

// feedClient is the slice of the API client the coordinator needs.
type feedClient interface {
	Feed(ctx context.Context) ([]*story.Group, error)
}

// Coordinator refreshes the story feed in the background and delivers the
// result to the UI loop. Context cancellation is the only stop mechanism.
type Coordinator struct {
	client feedClient
	wg     sync.WaitGroup
}

// New creates a Coordinator.
func New(client feedClient) *Coordinator {
	return &Coordinator{client: client}
}

// Start begins background refreshing. Call with a cancellable context.
// Performs an initial fetch immediately, then on every interval.
func (c *Coordinator) Start(ctx context.Context, program *tea.Program) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.refresh(ctx, program)

		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx, program)
			}
		}
	}()
}

// Wait blocks until the background goroutine exits. Call after canceling
// the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// refresh fetches the feed once with a timeout and sends the result. Errors
// travel in the message too; the UI keeps its prior tray state and the
// failure is only logged.
func (c *Coordinator) refresh(ctx context.Context, program *tea.Program) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	groups, err := c.client.Feed(fetchCtx)
	if err != nil {
		logging.Warn("feed refresh failed", "error", err)
	}

	// nil program keeps tests simple
	if program != nil {
		program.Send(ui.FeedLoaded{Groups: groups, Err: err})
	}
}
