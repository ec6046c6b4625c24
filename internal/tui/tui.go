package tui

import (
	"storekeep-cli/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configure the interactive console.
type Options struct {
	Client   api.Client
	PageSize int
	// At is the initial location to open ("/admin/posts?page=2"); empty
	// starts on the collection index.
	At string
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(modelOptions{
		client:   opts.Client,
		pageSize: opts.PageSize,
		at:       opts.At,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
