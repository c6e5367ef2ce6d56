// Package modal implements the confirmation dialog controller: a single
// session-scoped slot that turns dialog display into an awaitable outcome.
//
// Business logic asks for a decision with Confirm (or one of its variants) and
// blocks on the returned Outcome. The rendering layer observes State and
// reports the user's choice through HandleConfirm and HandleCancel.
package modal

// Variant tags a dialog with a display style and its default affordances.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantDanger  Variant = "danger"
)

// Default labels.
const (
	DefaultTitle         = "확인"
	DefaultConfirmText   = "확인"
	DefaultCancelText    = "취소"
	SuccessTitle         = "성공"
	ErrorTitle           = "오류"
	DeleteTitle          = "삭제 확인"
	DeleteConfirmText    = "삭제"
	DefaultDeleteMessage = "정말로 삭제하시겠습니까?"
)

// Config describes the dialog currently presented.
type Config struct {
	Title           string
	Message         string
	ConfirmText     string
	CancelText      string
	Variant         Variant
	HideCancel      bool // only the confirm action is offered
	IsLoading       bool // interaction disabled while a consequence is in flight
	CloseOnBackdrop bool // dismissing from outside the dialog counts as cancel
}

// DefaultConfig returns the configuration every request starts from.
func DefaultConfig() Config {
	return Config{
		Title:           DefaultTitle,
		Message:         "",
		ConfirmText:     DefaultConfirmText,
		CancelText:      DefaultCancelText,
		Variant:         VariantDefault,
		HideCancel:      false,
		IsLoading:       false,
		CloseOnBackdrop: true,
	}
}

// Option overrides one field of a Config. Options apply in order; later wins.
type Option func(*Config)

func WithTitle(title string) Option {
	return func(c *Config) { c.Title = title }
}

func WithMessage(message string) Option {
	return func(c *Config) { c.Message = message }
}

func WithConfirmText(text string) Option {
	return func(c *Config) { c.ConfirmText = text }
}

func WithCancelText(text string) Option {
	return func(c *Config) { c.CancelText = text }
}

func WithVariant(v Variant) Option {
	return func(c *Config) { c.Variant = v }
}

func WithHideCancel(hide bool) Option {
	return func(c *Config) { c.HideCancel = hide }
}

func WithLoading(loading bool) Option {
	return func(c *Config) { c.IsLoading = loading }
}

func WithCloseOnBackdrop(enabled bool) Option {
	return func(c *Config) { c.CloseOnBackdrop = enabled }
}

// Build returns DefaultConfig with opts applied.
func Build(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
