package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"botforge/internal/api"
)

const composerFields = 4 // name, description, introduction, censored toggle

// genericCreateFailure is shown when the backend rejects a persona without a
// detail message.
const genericCreateFailure = "Failed to create chatbot. Please try again."

// composerModel is the create-chatbot form. Field values survive failed
// submissions so the user can correct them.
type composerModel struct {
	name         textinput.Model
	description  textinput.Model
	introduction textinput.Model
	censored     bool
	focusIdx     int
	submitting   bool
	errText      string
}

func newComposerModel() composerModel {
	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 80
	name.Focus()

	description := textinput.New()
	description.Placeholder = "description (what is this bot like?)"
	description.CharLimit = 400

	introduction := textinput.New()
	introduction.Placeholder = "introduction (the bot's opening line)"
	introduction.CharLimit = 400

	return composerModel{
		name:         name,
		description:  description,
		introduction: introduction,
		censored:     true, // content-safe by default
	}
}

// reset clears the form after a successful creation.
func (f *composerModel) reset() {
	f.name.SetValue("")
	f.description.SetValue("")
	f.introduction.SetValue("")
	f.censored = true
	f.errText = ""
	f.submitting = false
	f.focusOn(0)
}

func (f *composerModel) focusOn(idx int) {
	f.focusIdx = idx
	inputs := []*textinput.Model{&f.name, &f.description, &f.introduction}
	for i, in := range inputs {
		if i == idx {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// cycleFocus moves to the next field, including the censored toggle.
func (f *composerModel) cycleFocus() {
	f.focusOn((f.focusIdx + 1) % composerFields)
}

// validate checks the required fields, returning a user-facing message for
// the first problem found.
func (f *composerModel) validate() string {
	switch {
	case isBlank(f.name.Value()):
		return "Name is required."
	case isBlank(f.description.Value()):
		return "Description is required."
	case isBlank(f.introduction.Value()):
		return "Introduction is required."
	}
	return ""
}

// request builds the creation payload from the current field values.
func (f *composerModel) request() api.CreateChatbotRequest {
	return api.CreateChatbotRequest{
		Name:         f.name.Value(),
		Description:  f.description.Value(),
		Introduction: f.introduction.Value(),
		IsCensored:   f.censored,
	}
}

// update routes key input to the focused text field and handles the toggle.
func (f composerModel) update(msg tea.Msg) (composerModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && f.focusIdx == 3 {
		// Censored toggle has focus; space flips it.
		if key.String() == " " {
			f.censored = !f.censored
			return f, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	f.name, cmd = f.name.Update(msg)
	cmds = append(cmds, cmd)
	f.description, cmd = f.description.Update(msg)
	cmds = append(cmds, cmd)
	f.introduction, cmd = f.introduction.Update(msg)
	cmds = append(cmds, cmd)
	return f, tea.Batch(cmds...)
}

func (f composerModel) view(width int) string {
	toggle := "[x] content-safe responses"
	if !f.censored {
		toggle = "[ ] content-safe responses"
	}
	if f.focusIdx == 3 {
		toggle = selectedStyle.Render("> " + toggle + "  (space to toggle)")
	} else {
		toggle = "  " + toggle
	}

	body := headerStyle.Render("New Chatbot") + "\n\n" +
		f.name.View() + "\n" +
		f.description.View() + "\n" +
		f.introduction.View() + "\n\n" +
		toggle + "\n"

	if f.submitting {
		body += "\n" + dimStyle.Render("Creating...")
	} else if f.errText != "" {
		body += "\n" + statusErrStyle.Render(f.errText)
	}

	body += "\n" + footerStyle.Render("enter: create • tab: next field • esc: back to catalog")
	return lipgloss.NewStyle().Width(width).Render(body)
}
