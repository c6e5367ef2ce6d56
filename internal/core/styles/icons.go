package styles

var (
	IconBlocked   = "⊘"
	IconAllowed   = "✓"
	IconUploading = "↑"
	IconFailed    = "✗"
	IconFile      = "•"
)
