package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// authMode selects which endpoint the modal submits to.
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// Fallback messages when the backend supplies no detail.
const (
	genericLoginFailure    = "Login failed. Check your username and password."
	genericRegisterFailure = "Registration failed. Please try again."
)

// authModel is the login/register modal. It keeps its fields across failed
// attempts so the user can correct them.
type authModel struct {
	mode       authMode
	username   textinput.Model
	password   textinput.Model
	focusIdx   int
	submitting bool
	errText    string
}

func newAuthModel() authModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return authModel{
		mode:     modeLogin,
		username: username,
		password: password,
	}
}

// reset prepares the modal for a fresh appearance.
func (a *authModel) reset() {
	a.submitting = false
	a.errText = ""
	a.username.SetValue("")
	a.password.SetValue("")
	a.focusIdx = 0
	a.username.Focus()
	a.password.Blur()
}

// toggleMode flips between login and register.
func (a *authModel) toggleMode() {
	if a.mode == modeLogin {
		a.mode = modeRegister
	} else {
		a.mode = modeLogin
	}
}

// cycleFocus moves focus between the two fields.
func (a *authModel) cycleFocus() {
	a.focusIdx = (a.focusIdx + 1) % 2
	if a.focusIdx == 0 {
		a.username.Focus()
		a.password.Blur()
	} else {
		a.username.Blur()
		a.password.Focus()
	}
}

// fallback returns the generic failure text for the current mode.
func (a *authModel) fallback() string {
	if a.mode == modeRegister {
		return genericRegisterFailure
	}
	return genericLoginFailure
}

// update routes key input to the focused field.
func (a authModel) update(msg tea.Msg) (authModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.username, cmd = a.username.Update(msg)
	cmds = append(cmds, cmd)
	a.password, cmd = a.password.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a authModel) view(width, height int) string {
	title := "Sign In"
	switchHint := "ctrl+r: create an account instead"
	if a.mode == modeRegister {
		title = "Create Account"
		switchHint = "ctrl+r: sign in instead"
	}

	body := titleStyle.Render(title) + "\n\n" +
		a.username.View() + "\n" +
		a.password.View() + "\n"
	if a.submitting {
		body += "\n" + dimStyle.Render("Contacting server...")
	} else if a.errText != "" {
		body += "\n" + statusErrStyle.Render(a.errText)
	}
	body += "\n\n" + dimStyle.Render("enter: submit • tab: next field\n"+switchHint+" • esc: cancel")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modalStyle.Render(body))
}
