package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"glimpse/internal/api"
	"glimpse/internal/cache"
	"glimpse/internal/config"
	"glimpse/internal/logging"
	"glimpse/internal/media"
	"glimpse/internal/story"
	"glimpse/internal/viewer"
)

// Model is the root Bubble Tea model.
//
// The story index is the single source of truth for records; the tray and
// the viewer session both read through it. Every mutation (like flip,
// delete, authoritative server copy) lands in one Update call, so the tray
// and viewer can never disagree within a frame.
type Model struct {
	cfg        *config.Config
	client     *api.Client
	seen       *cache.Store      // nil disables local persistence
	prefetcher *media.Prefetcher // nil disables media warming

	index   *story.Index
	session *viewer.Session
	tray    trayModel
	view    viewerView

	confirm     *confirmDelete
	uploading   bool
	uploadInput textinput.Model

	// A feed refresh arriving while the viewer is open is held back:
	// applying it would swap records out from under the session.
	pendingFeed []*story.Group

	cacheSession int64
	viewedCount  int

	notice string
	width  int
	height int
}

// New creates the root model.
func New(cfg *config.Config, client *api.Client, seen *cache.Store, prefetcher *media.Prefetcher) Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/image.jpg or video.mp4"
	ti.CharLimit = 512

	ix := story.NewIndex()
	m := Model{
		cfg:         cfg,
		client:      client,
		seen:        seen,
		prefetcher:  prefetcher,
		index:       ix,
		session:     viewer.NewSession(),
		tray:        newTrayModel(ix, cfg.UI.ShowSeenRings, cfg.UI.TrayLimit),
		view:        newViewerView(),
		uploadInput: ti,
		width:       80,
		height:      24,
	}

	if seen != nil {
		if id, err := seen.StartSession(); err == nil {
			m.cacheSession = id
		} else {
			logging.Warn("failed to start cache session", "error", err)
		}
	}
	return m
}

// Init fetches the feed.
func (m Model) Init() tea.Cmd {
	return refreshCmd(m.client)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case FeedLoaded:
		if msg.Err != nil {
			// Stories are best effort: keep the prior tray, log only.
			logging.Warn("feed load failed", "error", msg.Err)
			return m, nil
		}
		if m.session.IsOpen() {
			m.pendingFeed = msg.Groups
			return m, nil
		}
		m.applyFeed(msg.Groups)
		return m, nil

	case TickMsg:
		if !m.session.IsOpen() || msg.Epoch != m.session.Epoch() {
			return m, nil // stale timer, already torn down
		}
		if m.session.Tick(msg.Epoch) {
			viewID, closed := m.session.Next()
			cmd := m.afterAdvance(viewID, closed)
			return m, cmd
		}
		return m, tickCmd(msg.Epoch)

	case MediaEndedMsg:
		if !m.session.IsOpen() || msg.Epoch != m.session.Epoch() {
			return m, nil
		}
		viewID, closed := m.session.MediaEnded(msg.StoryID)
		cmd := m.afterAdvance(viewID, closed)
		return m, cmd

	case ViewRecorded:
		if msg.Err != nil {
			// Best-effort telemetry, swallowed by contract.
			logging.Debug("view tracking failed", "story", msg.StoryID, "error", msg.Err)
		}
		return m, nil

	case LikeResult:
		return m.handleLikeResult(msg)

	case DeleteResult:
		return m.handleDeleteResult(msg)

	case UploadResult:
		if msg.Err != nil {
			logging.Error("story upload failed", "error", msg.Err)
			cmd := m.setNotice("Failed to add story")
			return m, cmd
		}
		cmd := tea.Batch(m.setNotice("Story added!"), refreshCmd(m.client))
		return m, cmd

	case PrefetchDone:
		if msg.Fetched > 0 {
			logging.Debug("media prefetched", "count", msg.Fetched)
		}
		return m, nil

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch {
	case m.confirm != nil:
		return m.handleConfirmKey(msg)
	case m.uploading:
		return m.handleUploadKey(msg)
	case m.session.IsOpen():
		return m.handleViewerKey(msg)
	default:
		return m.handleTrayKey(msg)
	}
}

func (m Model) handleTrayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "left", "h":
		m.tray.MoveCursor(-1)

	case "right", "l":
		m.tray.MoveCursor(1)

	case "enter", " ":
		return m.openSelected()

	case "u":
		m.uploading = true
		m.uploadInput.SetValue("")
		cmd := m.uploadInput.Focus()
		return m, cmd

	case "r":
		return m, refreshCmd(m.client)
	}
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.session.Close()
		m.applyPendingFeed()
		return m, nil

	case "left", "h":
		viewID, closed := m.session.Tap(0, m.width)
		cmd := m.afterAdvance(viewID, closed)
		return m, cmd

	case "right", "l", " ", "enter":
		viewID, closed := m.session.Tap(m.width-1, m.width)
		cmd := m.afterAdvance(viewID, closed)
		return m, cmd

	case "p":
		if m.session.Playing() {
			m.session.Pause()
			return m, nil
		}
		m.session.Resume()
		return m, m.scheduleCurrent()

	case "f":
		return m.toggleLike()

	case "v":
		// Owner-only; the session rejects everyone else and the help
		// line never advertises it to them.
		if err := m.session.ToggleDrawer(m.cfg.User.ID); err != nil {
			logging.Debug("viewers drawer denied", "error", err)
		}
		return m, nil

	case "d":
		cur := m.session.Current()
		if cur == nil || cur.OwnerID != m.cfg.User.ID {
			return m, nil // control hidden for non-owners
		}
		m.session.Pause()
		m.confirm = &confirmDelete{ownerID: cur.OwnerID, storyID: cur.ID}
		return m, nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		c := *m.confirm
		m.confirm = nil
		return m, deleteCmd(m.client, c.ownerID, c.storyID)

	case "n", "esc", "q":
		m.confirm = nil
		if m.session.IsOpen() {
			m.session.Resume()
			return m, m.scheduleCurrent()
		}
	}
	return m, nil
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.uploading = false
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.uploadInput.Value())
		m.uploading = false
		if path == "" {
			return m, nil
		}
		cmd := tea.Batch(m.setNotice("Uploading…"), uploadCmd(m.client, path))
		return m, cmd
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

// handleMouse maps terminal clicks onto the tap model: press-and-hold
// pauses, release resumes and routes the tap by its x position.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.session.IsOpen() || m.confirm != nil || m.uploading {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.session.Pause()
		}
		return m, nil

	case tea.MouseActionRelease:
		m.session.Resume()
		viewID, closed := m.session.Tap(msg.X, m.width)
		cmd := m.afterAdvance(viewID, closed)
		return m, cmd
	}
	return m, nil
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	g, ok := m.tray.Selected()
	if !ok {
		return m, nil
	}

	viewID := m.session.Open(g)
	cmds := []tea.Cmd{m.viewCmd(viewID, g.Owner.ID), m.scheduleCurrent()}

	if m.prefetcher != nil && m.cfg.UI.Prefetch {
		urls := make([]string, 0, len(g.Stories))
		for _, s := range g.Stories {
			urls = append(urls, s.MediaURL)
		}
		cmds = append(cmds, prefetchCmd(m.prefetcher, urls))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) toggleLike() (tea.Model, tea.Cmd) {
	cur := m.session.Current()
	if cur == nil {
		return m, nil
	}
	// Optimistic flip on the shared record: tray and viewer both see it
	// now; the server's copy reconciles (or rolls back) on response.
	cur.ToggleLike(m.cfg.User.ID)
	return m, toggleLikeCmd(m.client, cur.ID)
}

func (m Model) handleLikeResult(msg LikeResult) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Roll the optimistic flip back rather than drifting from the
		// server's truth.
		if s, ok := m.index.Lookup(msg.StoryID); ok {
			s.ToggleLike(m.cfg.User.ID)
		}
		logging.Warn("like toggle failed", "story", msg.StoryID, "error", msg.Err)
		cmd := m.setNotice("Couldn't update like")
		return m, cmd
	}
	if msg.Story != nil {
		m.index.ReplaceStory(*msg.Story)
	}
	return m, nil
}

func (m Model) handleDeleteResult(msg DeleteResult) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		logging.Error("story delete failed", "story", msg.StoryID, "error", msg.Err)
		cmds := []tea.Cmd{m.setNotice("Couldn't delete story")}
		if m.session.IsOpen() {
			m.session.Resume()
			cmds = append(cmds, m.scheduleCurrent())
		}
		return m, tea.Batch(cmds...)
	}

	// Both copies go in one update: the session first (it fixes its own
	// index against the shared slice), then the tray index.
	closed := false
	if g := m.session.Group(); g != nil && g.Owner.ID == msg.OwnerID {
		_, closed = m.session.RemoveStory(msg.StoryID)
	}
	m.index.RemoveStory(msg.OwnerID, msg.StoryID)
	m.tray.clamp()

	cmds := []tea.Cmd{m.setNotice("Story deleted")}
	if closed {
		m.applyPendingFeed()
	} else if m.session.IsOpen() {
		m.session.Resume()
		cmds = append(cmds, m.scheduleCurrent())
	}
	return m, tea.Batch(cmds...)
}

// afterAdvance issues the follow-up work shared by every forward
// transition: view tracking for a newly current story and the next timer.
func (m *Model) afterAdvance(viewID string, closed bool) tea.Cmd {
	if closed {
		m.applyPendingFeed()
		return nil
	}
	var ownerID string
	if g := m.session.Group(); g != nil {
		ownerID = g.Owner.ID
	}
	return tea.Batch(m.viewCmd(viewID, ownerID), m.scheduleCurrent())
}

// viewCmd handles one view-tracking trigger: local seen state updates
// immediately, the backend call runs fire-and-forget.
func (m *Model) viewCmd(viewID, ownerID string) tea.Cmd {
	if viewID == "" {
		return nil
	}
	m.viewedCount++
	m.tray.MarkSeen(viewID)
	if m.seen != nil {
		if err := m.seen.MarkSeen(viewID, ownerID); err != nil {
			logging.Warn("failed to persist seen mark", "story", viewID, "error", err)
		}
	}
	return recordViewCmd(m.client, viewID)
}

// scheduleCurrent arms the timer appropriate for the current story: the
// interval tick for images, the simulated media-end signal for videos.
func (m *Model) scheduleCurrent() tea.Cmd {
	if !m.session.IsOpen() || !m.session.Playing() {
		return nil
	}
	cur := m.session.Current()
	if cur.Kind == story.MediaVideo {
		return mediaEndCmd(cur.ID, m.session.Epoch())
	}
	return tickCmd(m.session.Epoch())
}

func (m *Model) applyFeed(groups []*story.Group) {
	m.index.Replace(groups)
	m.tray.clamp()

	if m.seen == nil {
		return
	}
	var ids []string
	for _, g := range m.index.Groups() {
		for _, s := range g.Stories {
			ids = append(ids, s.ID)
		}
	}
	set, err := m.seen.SeenSet(ids)
	if err != nil {
		logging.Warn("failed to load seen set", "error", err)
		return
	}
	m.tray.SetSeen(set)
}

func (m *Model) applyPendingFeed() {
	if m.pendingFeed != nil {
		m.applyFeed(m.pendingFeed)
		m.pendingFeed = nil
	}
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.notice = text
	return noticeCmd()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.seen != nil && m.cacheSession != 0 {
		if err := m.seen.EndSession(m.cacheSession, m.viewedCount); err != nil {
			logging.Warn("failed to end cache session", "error", err)
		}
	}
	return m, tea.Quit
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initialising..."
	}
	if m.confirm != nil {
		return renderConfirm(m.width, m.height)
	}
	if m.session.IsOpen() {
		return m.view.View(m.session, m.cfg.User.ID, m.width, m.height)
	}
	return m.trayView()
}

func (m Model) trayView() string {
	total := 0
	for _, g := range m.index.Groups() {
		total += len(g.Stories)
	}
	header := headerStyle.Width(m.width).Render(
		fmt.Sprintf("  GLIMPSE  ·  %d friends  ·  %d stories", m.index.Len(), total))

	tray := m.tray.View(m.width, m.cfg.User.Name)

	var bottom string
	switch {
	case m.uploading:
		bottom = statusBarStyle.Width(m.width).Render("  Add story: " + m.uploadInput.View())
	case m.notice != "":
		bottom = statusBarStyle.Width(m.width).Render("  " + noticeStyle.Render(m.notice))
	default:
		bottom = statusBarStyle.Width(m.width).Render(
			"  [←→] pick  [enter] watch  [u] add story  [r] refresh  [q] quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", tray, "", bottom)
}
