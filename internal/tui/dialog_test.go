package tui

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/extguard/internal/core/modal"
	"github.com/colonyops/extguard/pkg/tuitest"
)

var (
	keyPressEnter = tuitest.Key(tea.KeyEnter)
	keyPressEsc   = tuitest.Key(tea.KeyEscape)
	keyPressLeft  = tuitest.Key(tea.KeyLeft)
	keyPressTab   = tuitest.Key(tea.KeyTab)
)

func openDialog(t *testing.T, opts ...modal.Option) (*Dialog, *modal.Outcome) {
	t.Helper()
	ctrl := modal.New()
	d := NewDialog(ctrl)
	out := ctrl.Confirm(opts...)
	d.Sync(ctrl.State())
	require.True(t, d.Visible())
	return &d, out
}

func settle(t *testing.T, out *modal.Outcome) (bool, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return out.Wait(ctx)
}

func TestDialog_ClosedIgnoresKeys(t *testing.T) {
	d := NewDialog(modal.New())
	assert.False(t, d.Visible())
	assert.False(t, d.HandleKey(keyPressEnter))
	assert.Equal(t, "bg", d.Overlay("bg", 80, 24))
}

func TestDialog_EnterConfirmsByDefault(t *testing.T) {
	d, out := openDialog(t, modal.WithMessage("go?"))
	assert.True(t, d.ConfirmSelected())

	assert.True(t, d.HandleKey(keyPressEnter))

	ok, err := settle(t, out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, d.Visible())
}

func TestDialog_ToggleThenEnterCancels(t *testing.T) {
	d, out := openDialog(t)

	d.HandleKey(keyPressLeft)
	assert.False(t, d.ConfirmSelected())
	d.HandleKey(keyPressTab)
	assert.True(t, d.ConfirmSelected())
	d.HandleKey(keyPressTab)

	d.HandleKey(keyPressEnter)

	_, err := settle(t, out)
	assert.ErrorIs(t, err, modal.ErrCancelled)
}

func TestDialog_Shortcuts(t *testing.T) {
	t.Run("y confirms", func(t *testing.T) {
		d, out := openDialog(t)
		d.HandleKey(tuitest.KeyPress('y'))
		ok, err := settle(t, out)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("n cancels", func(t *testing.T) {
		d, out := openDialog(t)
		d.HandleKey(tuitest.KeyPress('n'))
		_, err := settle(t, out)
		assert.ErrorIs(t, err, modal.ErrCancelled)
	})

	t.Run("other keys are swallowed", func(t *testing.T) {
		d, out := openDialog(t)
		assert.True(t, d.HandleKey(tuitest.KeyPress('q')))
		assert.True(t, d.Visible())
		assert.False(t, out.Settled())
	})
}

func TestDialog_Escape(t *testing.T) {
	t.Run("cancels when backdrop dismissal is allowed", func(t *testing.T) {
		d, out := openDialog(t)
		d.HandleKey(keyPressEsc)
		_, err := settle(t, out)
		assert.ErrorIs(t, err, modal.ErrCancelled)
	})

	t.Run("ignored otherwise", func(t *testing.T) {
		d, out := openDialog(t, modal.WithCloseOnBackdrop(false))
		assert.True(t, d.HandleKey(keyPressEsc))
		assert.True(t, d.Visible())
		assert.False(t, out.Settled())
	})
}

func TestDialog_HideCancel(t *testing.T) {
	d, out := openDialog(t, modal.WithHideCancel(true))

	d.HandleKey(keyPressLeft)
	assert.True(t, d.ConfirmSelected(), "only confirm can be selected")

	d.HandleKey(tuitest.KeyPress('n'))
	assert.False(t, out.Settled())

	d.HandleKey(keyPressEnter)
	ok, err := settle(t, out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDialog_LoadingSwallowsEverything(t *testing.T) {
	ctrl := modal.New()
	d := NewDialog(ctrl)
	out := ctrl.Confirm(modal.WithLoading(true))

	cmd := d.Sync(ctrl.State())
	assert.NotNil(t, cmd, "spinner starts")

	for _, k := range []tea.KeyPressMsg{keyPressEnter, keyPressEsc, tuitest.KeyPress('y')} {
		assert.True(t, d.HandleKey(k))
	}
	assert.False(t, out.Settled())

	ctrl.SetLoading(false)
	d.Sync(ctrl.State())
	d.HandleKey(keyPressEnter)
	ok, err := settle(t, out)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDialog_SyncResetsSelectionForNewDialog(t *testing.T) {
	ctrl := modal.New()
	d := NewDialog(ctrl)

	first := ctrl.Confirm(modal.WithMessage("first"))
	d.Sync(ctrl.State())
	d.HandleKey(keyPressLeft)
	require.False(t, d.ConfirmSelected())

	ctrl.Confirm(modal.WithMessage("second"))
	d.Sync(ctrl.State())
	assert.True(t, d.ConfirmSelected())

	_, err := settle(t, first)
	assert.ErrorIs(t, err, modal.ErrSuperseded)
}

func TestDialog_Render(t *testing.T) {
	d, _ := openDialog(t,
		modal.WithTitle("업로드"),
		modal.WithMessage("report.pdf"),
		modal.WithConfirmText("OK"),
		modal.WithCancelText("Back"),
	)

	out := tuitest.StripANSI(d.Render())
	assert.Contains(t, out, "업로드")
	assert.Contains(t, out, "report.pdf")
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "Back")

	hidden, _ := openDialog(t, modal.WithHideCancel(true), modal.WithCancelText("Back"))
	assert.NotContains(t, hidden.Render(), "Back")
}
