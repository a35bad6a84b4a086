// Package api is the REST client for the stories backend.
//
// Every call is context-bound and returns on completion; nothing here blocks
// the UI loop. View-tracking is rate limited so tapping through a long group
// cannot burst the telemetry endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"glimpse/internal/story"
)

// viewRate caps view-tracking at 5 calls/second with a small burst. Taps are
// human-speed; anything faster is a runaway loop.
var viewRate = rate.Limit(5)

const viewBurst = 10

// Client talks to the stories backend.
type Client struct {
	baseURL   string
	token     string
	sessionID string
	client    *http.Client
	views     *rate.Limiter
}

// New creates a client for the given base URL. The bearer token may be
// empty for anonymous read access. A fresh session id is generated per
// client and sent with every request for view attribution.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		sessionID: uuid.NewString(),
		client:    &http.Client{Timeout: timeout},
		views:     rate.NewLimiter(viewRate, viewBurst),
	}
}

// SessionID returns the client session identifier.
func (c *Client) SessionID() string { return c.sessionID }

// Feed fetches the story groups for the current user's friends and self.
// GET /stories/feed
func (c *Client) Feed(ctx context.Context) ([]*story.Group, error) {
	var groups []*story.Group
	if err := c.do(ctx, http.MethodGet, "/stories/feed", nil, &groups); err != nil {
		return nil, fmt.Errorf("fetch story feed: %w", err)
	}
	out := groups[:0]
	for _, g := range groups {
		if g != nil && len(g.Stories) > 0 {
			out = append(out, g)
		}
	}
	return out, nil
}

// CreateStory creates a story record for already-uploaded media.
// POST /stories
func (c *Client) CreateStory(ctx context.Context, mediaURL string, kind story.MediaKind) (*story.Story, error) {
	body := map[string]string{"media": mediaURL, "type": string(kind)}
	var created story.Story
	if err := c.do(ctx, http.MethodPost, "/stories", body, &created); err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}
	return &created, nil
}

// RecordView records that the current user viewed a story. Fire-and-forget
// semantics belong to the caller; this just makes the call. The story id is
// bound here by value, so a late response can never be misattributed.
// POST /stories/{id}/view
func (c *Client) RecordView(ctx context.Context, storyID string) error {
	if err := c.views.Wait(ctx); err != nil {
		return fmt.Errorf("record view %s: %w", storyID, err)
	}
	if err := c.do(ctx, http.MethodPost, "/stories/"+storyID+"/view", nil, nil); err != nil {
		return fmt.Errorf("record view %s: %w", storyID, err)
	}
	return nil
}

// ToggleLike toggles the current user's like on a story and returns the
// server's authoritative copy, which covers concurrent likes by others.
// PUT /stories/{id}/like
func (c *Client) ToggleLike(ctx context.Context, storyID string) (*story.Story, error) {
	var updated story.Story
	if err := c.do(ctx, http.MethodPut, "/stories/"+storyID+"/like", nil, &updated); err != nil {
		return nil, fmt.Errorf("toggle like %s: %w", storyID, err)
	}
	return &updated, nil
}

// DeleteStory deletes a story. The backend enforces ownership; the client
// gate in the UI is a convenience, not a security boundary.
// DELETE /stories/{id}
func (c *Client) DeleteStory(ctx context.Context, storyID string) error {
	if err := c.do(ctx, http.MethodDelete, "/stories/"+storyID, nil, nil); err != nil {
		return fmt.Errorf("delete story %s: %w", storyID, err)
	}
	return nil
}

// Upload sends a media file as multipart form data and returns the hosted
// URL. POST /upload
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload: decode response: %w", err)
	}
	return out.URL, nil
}

// KindForFile guesses the media kind from a file extension, the same split
// the upload form applies.
func KindForFile(path string) story.MediaKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".webm", ".mkv", ".avi":
		return story.MediaVideo
	default:
		return story.MediaImage
	}
}

// do performs a JSON request. A nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Client-Session", c.sessionID)
}

// checkStatus maps non-2xx responses to errors, pulling the backend's
// {"error": "..."} message when present.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var apiErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(data, &apiErr) == nil {
		if apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Message)
		}
	}
	return fmt.Errorf("unexpected status %s", resp.Status)
}
