package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// confirmDelete is the pending delete confirmation. Deletion is
// irreversible, so it always goes through an explicit confirm step.
type confirmDelete struct {
	ownerID string
	storyID string
}

// renderConfirm draws the modal centered in the viewport. Borders stay
// minimal; nested bordered components show artifacts in some terminals.
func renderConfirm(width, height int) string {
	body := fmt.Sprintf("%s\n\n%s",
		"Delete this story? This cannot be undone.",
		helpStyle.Render("[y] delete   [n/esc] keep"))

	box := modalStyle.Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
