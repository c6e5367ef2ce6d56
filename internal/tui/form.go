package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/extguard/internal/core/styles"
)

// FieldSpec declares one text field of a Form.
type FieldSpec struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	Secret      bool
}

// Form is a vertical list of text inputs. Tab and the arrow keys move focus,
// enter on the last field submits and esc cancels.
type Form struct {
	Title string

	specs     []FieldSpec
	inputs    []textinput.Model
	focus     int
	err       string
	submitted bool
	cancelled bool
}

// NewForm builds a form with the first field focused.
func NewForm(title string, fields ...FieldSpec) *Form {
	f := &Form{Title: title, specs: fields}
	for i, spec := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.Placeholder
		in.SetWidth(36)
		in.SetValue(spec.Value)
		if spec.Secret {
			in.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			in.Focus()
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

// Update applies msg to the focused field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}

	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f.move(1)
		case "shift+tab", "up":
			return f.move(-1)
		case keyEnter:
			if f.focus == len(f.inputs)-1 {
				f.submitted = true
				return nil
			}
			return f.move(1)
		case keyEsc:
			f.cancelled = true
			return nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *Form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// TakeSubmit reports a pending submit and clears it.
func (f *Form) TakeSubmit() bool {
	s := f.submitted
	f.submitted = false
	return s
}

// Cancelled reports whether the user pressed esc.
func (f *Form) Cancelled() bool {
	return f.cancelled
}

// Value returns the current text of the field named key.
func (f *Form) Value(key string) string {
	for i, spec := range f.specs {
		if spec.Key == key {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

// Values returns every field keyed by name.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.specs))
	for _, spec := range f.specs {
		out[spec.Key] = f.Value(spec.Key)
	}
	return out
}

// SetError shows msg under the fields. Empty clears it.
func (f *Form) SetError(msg string) {
	f.err = msg
}

// Err returns the message set by SetError.
func (f *Form) Err() string {
	return f.err
}

// View renders the labelled fields.
func (f *Form) View() string {
	rows := make([]string, 0, len(f.inputs)*2+1)
	for i, spec := range f.specs {
		label := styles.MutedStyle.Render(spec.Label)
		if i == f.focus {
			label = styles.HeaderStyle.Render(spec.Label)
		}
		rows = append(rows, label, f.inputs[i].View())
	}
	if f.err != "" {
		rows = append(rows, "", styles.ErrorTextStyle.Render(f.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
