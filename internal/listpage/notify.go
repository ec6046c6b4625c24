package listpage

// Notifier is the user-facing notification capability: fire-and-forget
// success/error toasts. The TUI routes these to its status bar; scripted
// commands route them to stderr or drop them.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Messages are the per-page notification texts. Zero values fall back to
// generic defaults; resources override them with entity-specific wording.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string
	DetailFailed string
}

func (m Messages) withDefaults() Messages {
	def := func(s *string, fallback string) {
		if *s == "" {
			*s = fallback
		}
	}
	def(&m.Created, "Created")
	def(&m.Updated, "Updated")
	def(&m.Deleted, "Deleted")
	def(&m.CreateFailed, "Create failed")
	def(&m.UpdateFailed, "Update failed")
	def(&m.DeleteFailed, "Delete failed")
	def(&m.DetailFailed, "Could not load details; editing the summary record")
	return m
}
