package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("205") // Pink, the story-ring accent
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Light pink
	colorDanger    = lipgloss.Color("196") // Red
)

// Header style for the top application bar.
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// Tray entry with unseen stories: the bright ring.
var trayUnseenStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary).
	Padding(0, 1)

// Tray entry whose stories have all been seen.
var traySeenStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// Tray entry under the cursor.
var traySelectedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// The "your story" upload slot.
var trayUploadStyle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Padding(0, 1)

// Viewer media pane.
var mediaPaneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Align(lipgloss.Center, lipgloss.Center)

// Owner name overlay in the viewer.
var viewerOwnerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// Paused badge.
var pausedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("226"))

// Liked heart.
var likedStyle = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// Viewers drawer box.
var drawerStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), true, false, false, false).
	BorderForeground(colorMuted).
	Padding(0, 1)

// Status bar at the bottom.
var statusBarStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// Transient notice shown in the status bar.
var noticeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// Error text in the status bar.
var errorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true)

// Confirm modal box.
var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDanger).
	Padding(1, 2)

// Help text.
var helpStyle = lipgloss.NewStyle().
	Foreground(colorMuted)
