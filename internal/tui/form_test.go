package tui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/extguard/pkg/tuitest"
)

func typeText(f *Form, s string) {
	for _, k := range tuitest.Type(s) {
		f.Update(k)
	}
}

func TestForm_TypingAndNavigation(t *testing.T) {
	f := NewForm("로그인",
		FieldSpec{Key: "username", Label: "아이디"},
		FieldSpec{Key: "password", Label: "비밀번호", Secret: true},
	)

	typeText(f, "alice")
	f.Update(keyPressTab)
	typeText(f, "pw")

	assert.Equal(t, map[string]string{"username": "alice", "password": "pw"}, f.Values())
	assert.NotContains(t, f.View(), "pw", "secret fields are masked")
}

func TestForm_EnterAdvancesThenSubmits(t *testing.T) {
	f := NewForm("", FieldSpec{Key: "a"}, FieldSpec{Key: "b"})

	f.Update(keyPressEnter)
	assert.False(t, f.TakeSubmit())

	f.Update(keyPressEnter)
	assert.True(t, f.TakeSubmit())
	assert.False(t, f.TakeSubmit(), "submit is consumed")
}

func TestForm_FocusWraps(t *testing.T) {
	f := NewForm("", FieldSpec{Key: "a"}, FieldSpec{Key: "b"})

	f.Update(tuitest.Key(tea.KeyUp))
	typeText(f, "x")
	assert.Equal(t, "x", f.Value("b"))
}

func TestForm_EscCancels(t *testing.T) {
	f := NewForm("", FieldSpec{Key: "a", Value: "seed"})
	assert.Equal(t, "seed", f.Value("a"))

	f.Update(keyPressEsc)
	assert.True(t, f.Cancelled())
}

func TestForm_Error(t *testing.T) {
	f := NewForm("", FieldSpec{Key: "a"})
	f.SetError("로그인 실패")
	assert.Contains(t, f.View(), "로그인 실패")
	assert.Equal(t, "", f.Value("missing"))
}
