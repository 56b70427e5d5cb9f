package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"botforge/internal/api"
)

// chatViewModel renders the active conversation: a static persona header
// (the introduction is UI copy, never a transcript entry), the transcript
// viewport, and the input line.
type chatViewModel struct {
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	ready    bool
}

func newChatViewModel() chatViewModel {
	input := textinput.New()
	input.Placeholder = "Say something..."
	input.CharLimit = 2000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = titleStyle

	return chatViewModel{input: input, spin: spin}
}

// resize recomputes the viewport for the current terminal size.
func (v *chatViewModel) resize(width, height int, state *chatState) {
	headerHeight := lipgloss.Height(v.header(width, state))
	vpHeight := height - headerHeight - 4 // input line + footer
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !v.ready {
		v.viewport = viewport.New(width, vpHeight)
		v.ready = true
	} else {
		v.viewport.Width = width
		v.viewport.Height = vpHeight
	}
	v.refresh(width, state)
}

// refresh re-renders the transcript into the viewport and follows the tail.
func (v *chatViewModel) refresh(width int, state *chatState) {
	if !v.ready {
		return
	}
	v.viewport.SetContent(v.renderTranscript(width, state))
	v.viewport.GotoBottom()
}

func (v *chatViewModel) renderTranscript(width int, state *chatState) string {
	if len(state.transcript) == 0 {
		return dimStyle.Render("No messages yet. Say hello!")
	}

	wrap := lipgloss.NewStyle().Width(width - 2)
	var b strings.Builder
	for _, msg := range state.transcript {
		label := userMsgStyle.Render("You")
		if msg.SenderType != api.SenderUser {
			label = botMsgStyle.Render(state.persona.Name)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wrap.Render(msg.Content))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (v *chatViewModel) header(width int, state *chatState) string {
	title := headerStyle.Render("Chat with " + state.persona.Name)
	intro := introStyle.Width(width).Render(state.persona.Introduction)
	return title + "\n" + intro
}

// update routes scrolling keys to the viewport and everything else to the
// input, so typed characters never double as scroll commands.
func (v chatViewModel) update(msg tea.Msg) (chatViewModel, tea.Cmd) {
	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "down", "pgup", "pgdown":
			v.viewport, cmd = v.viewport.Update(msg)
		default:
			v.input, cmd = v.input.Update(msg)
		}
		return v, cmd
	}

	var cmds []tea.Cmd
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	v.viewport, cmd = v.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v chatViewModel) view(width int, state *chatState, status string) string {
	var b strings.Builder
	b.WriteString(v.header(width, state))
	b.WriteString("\n")
	if v.ready {
		b.WriteString(v.viewport.View())
	}
	b.WriteString("\n")

	if state.sending {
		b.WriteString(v.spin.View() + dimStyle.Render(" waiting for "+state.persona.Name+"..."))
	} else {
		b.WriteString(v.input.View())
	}
	b.WriteString("\n")

	footer := "enter: send • ctrl+y: copy last reply • esc: back to catalog"
	if status != "" {
		footer = status
	}
	b.WriteString(footerStyle.Render(footer))
	return b.String()
}
