package modal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// autoAnswer answers every dialog the controller opens, from a separate
// goroutine, and records the configuration that was shown.
func autoAnswer(t *testing.T, c *Controller, confirm bool) <-chan Config {
	t.Helper()
	shown := make(chan Config, 8)
	unsubscribe := c.Subscribe(func(st State) {
		if !st.IsOpen || !st.Pending {
			return
		}
		shown <- st.Config
		go func() {
			if confirm {
				c.HandleConfirm()
			} else {
				c.HandleCancel()
			}
		}()
	})
	t.Cleanup(unsubscribe)
	return shown
}

func TestHelper_HandleAPISuccess(t *testing.T) {
	t.Run("runs callback when acknowledged", func(t *testing.T) {
		h := NewHelper(New())
		shown := autoAnswer(t, h.Controller, true)

		called := false
		h.HandleAPISuccess(waitCtx(t), "saved", func() { called = true })

		assert.True(t, called)
		cfg := <-shown
		assert.Equal(t, "saved", cfg.Message)
		assert.Equal(t, VariantSuccess, cfg.Variant)
	})

	t.Run("swallows dismissal", func(t *testing.T) {
		h := NewHelper(New())
		autoAnswer(t, h.Controller, false)

		called := false
		h.HandleAPISuccess(waitCtx(t), "saved", func() { called = true })

		assert.False(t, called)
	})

	t.Run("nil callback", func(t *testing.T) {
		h := NewHelper(New())
		autoAnswer(t, h.Controller, true)

		assert.NotPanics(t, func() {
			h.HandleAPISuccess(waitCtx(t), "saved", nil)
		})
	})
}

func TestHelper_HandleAPIError(t *testing.T) {
	h := NewHelper(New())
	shown := autoAnswer(t, h.Controller, true)

	called := false
	h.HandleAPIError(waitCtx(t), errors.New("upload rejected"), func() { called = true })

	assert.True(t, called)
	cfg := <-shown
	assert.Equal(t, "오류", cfg.Title)
	assert.Equal(t, "upload rejected", cfg.Message)
	assert.Equal(t, VariantDanger, cfg.Variant)
}

func TestHelper_HandleAPIError_GivesUpWithContext(t *testing.T) {
	h := NewHelper(New())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	h.HandleAPIError(ctx, errors.New("boom"), func() { called = true })

	assert.False(t, called)
	assert.True(t, h.IsOpen(), "dialog stays up until answered")
}

func TestHelper_ConfirmAction(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		h := NewHelper(New())
		shown := autoAnswer(t, h.Controller, true)

		assert.True(t, h.ConfirmAction(waitCtx(t), "proceed?", ""))
		cfg := <-shown
		assert.Equal(t, "확인", cfg.Title)
		assert.Equal(t, "proceed?", cfg.Message)
	})

	t.Run("declined", func(t *testing.T) {
		h := NewHelper(New())
		shown := autoAnswer(t, h.Controller, false)

		assert.False(t, h.ConfirmAction(waitCtx(t), "proceed?", "Reset"))
		assert.Equal(t, "Reset", (<-shown).Title)
	})
}

func TestHelper_ConfirmDelete(t *testing.T) {
	t.Run("named item", func(t *testing.T) {
		h := NewHelper(New())
		shown := autoAnswer(t, h.Controller, true)

		assert.True(t, h.ConfirmDelete(waitCtx(t), "report.pdf"))
		cfg := <-shown
		assert.Equal(t, `"report.pdf"을(를) 삭제하시겠습니까?`, cfg.Message)
		assert.Equal(t, "삭제", cfg.ConfirmText)
	})

	t.Run("default item name", func(t *testing.T) {
		h := NewHelper(New())
		shown := autoAnswer(t, h.Controller, false)

		assert.False(t, h.ConfirmDelete(waitCtx(t), ""))
		assert.Equal(t, `"항목"을(를) 삭제하시겠습니까?`, (<-shown).Message)
	})
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, DefaultErrorMessage, ErrorMessage(nil))
	assert.Equal(t, DefaultErrorMessage, ErrorMessage(errors.New("")))
	assert.Equal(t, "x", ErrorMessage(errors.New("x")))
}

func TestHelper_ExposesController(t *testing.T) {
	h := NewHelper(New())
	out := h.Confirm(WithMessage("direct"))
	require.True(t, h.IsOpen())

	h.HandleCancel()
	_, err := out.Wait(waitCtx(t))
	require.ErrorIs(t, err, ErrCancelled)
}
