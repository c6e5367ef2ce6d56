package modal

import (
	"context"
	"fmt"
)

// DefaultErrorMessage is shown when an error carries no text of its own.
const DefaultErrorMessage = "오류가 발생했습니다."

// DefaultItemName names the subject of a ConfirmDelete call without one.
const DefaultItemName = "항목"

// Helper layers caller-side conveniences over a Controller. Every method
// blocks until the dialog is answered or ctx is done, and treats a declined
// or dismissed dialog as a normal result rather than an error.
type Helper struct {
	*Controller
}

// NewHelper wraps c.
func NewHelper(c *Controller) *Helper {
	return &Helper{Controller: c}
}

// HandleAPISuccess reports a completed action and runs callback once the
// user acknowledges it.
func (h *Helper) HandleAPISuccess(ctx context.Context, message string, callback func()) {
	if ok, _ := h.Success(message).Wait(ctx); ok && callback != nil {
		callback()
	}
}

// HandleAPIError reports err and runs callback once the user acknowledges it.
func (h *Helper) HandleAPIError(ctx context.Context, err error, callback func()) {
	if ok, _ := h.Error(ErrorMessage(err)).Wait(ctx); ok && callback != nil {
		callback()
	}
}

// ConfirmAction asks a yes/no question. An empty title falls back to
// DefaultTitle.
func (h *Helper) ConfirmAction(ctx context.Context, message, title string) bool {
	if title == "" {
		title = DefaultTitle
	}
	ok, _ := h.Confirm(WithTitle(title), WithMessage(message)).Wait(ctx)
	return ok
}

// ConfirmDelete asks the user to approve deleting itemName.
func (h *Helper) ConfirmDelete(ctx context.Context, itemName string) bool {
	if itemName == "" {
		itemName = DefaultItemName
	}
	ok, _ := h.DeleteConfirm(fmt.Sprintf(`"%s"을(를) 삭제하시겠습니까?`, itemName)).Wait(ctx)
	return ok
}

// ErrorMessage returns the display text for err.
func ErrorMessage(err error) string {
	if err == nil {
		return DefaultErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
