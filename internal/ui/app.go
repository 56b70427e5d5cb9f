// Package ui implements the terminal interface: catalog, composer and
// conversation views plus the auth and alert modals, all driven by a single
// bubbletea update loop.
package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"botforge/internal/api"
	"botforge/internal/session"
)

// view is the top-level screen being shown.
type view int

const (
	viewCatalog view = iota
	viewChat
	viewComposer
)

// App is the root bubbletea model.
type App struct {
	client  *api.Client
	session *session.Store
	logger  *slog.Logger

	view   view
	width  int
	height int
	banner string
	status string

	catalog  catalogModel
	chat     chatState
	chatView chatViewModel
	composer composerModel

	auth      authModel
	showAuth  bool
	alertText string
	quitting  bool
}

// New builds the application model around an API client and session store.
func New(client *api.Client, store *session.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		client:   client,
		session:  store,
		logger:   logger,
		banner:   figure.NewFigure("BotForge", "small", true).String(),
		catalog:  newCatalogModel(),
		chatView: newChatViewModel(),
		composer: newComposerModel(),
		auth:     newAuthModel(),
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(app *App) error {
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

// Init loads the catalog; it needs no session and its failure is non-fatal.
func (a *App) Init() tea.Cmd {
	return fetchCatalogCmd(a.client, false)
}

// Update is the single place where state changes happen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.chatView.resize(msg.Width, msg.Height, &a.chat)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case catalogLoadedMsg:
		return a.handleCatalogLoaded(msg)

	case authResultMsg:
		return a.handleAuthResult(msg)

	case conversationStartedMsg:
		return a.handleConversationStarted(msg)

	case messagePairMsg:
		return a.handleMessagePair(msg)

	case chatbotCreatedMsg:
		return a.handleChatbotCreated(msg)

	case clipboardCopiedMsg:
		if msg.err != nil {
			a.status = "Clipboard unavailable"
		} else {
			a.status = "Copied reply to clipboard"
		}
		return a, nil

	case spinner.TickMsg:
		if a.chat.sending || a.chat.phase == chatStarting {
			var cmd tea.Cmd
			a.chatView.spin, cmd = a.chatView.spin.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Blocking alert swallows everything until dismissed.
	if a.alertText != "" {
		switch msg.String() {
		case "enter", "esc":
			a.alertText = ""
		}
		return a, nil
	}

	if a.showAuth {
		return a.handleAuthKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	}

	switch a.view {
	case viewCatalog:
		return a.handleCatalogKey(msg)
	case viewChat:
		return a.handleChatKey(msg)
	case viewComposer:
		return a.handleComposerKey(msg)
	}
	return a, nil
}

func (a *App) handleCatalogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		a.quitting = true
		return a, tea.Quit
	case "up", "k":
		a.catalog.moveUp()
	case "down", "j":
		a.catalog.moveDown()
	case "enter":
		return a, a.selectPersona()
	case "n":
		if !a.session.Authenticated() {
			a.openAuth()
			return a, nil
		}
		a.view = viewComposer
		a.composer.focusOn(0)
		return a, nil
	case "m":
		if !a.session.Authenticated() {
			a.openAuth()
			return a, nil
		}
		a.catalog.loading = true
		return a, fetchCatalogCmd(a.client, !a.catalog.mine)
	case "r":
		a.catalog.loading = true
		return a, fetchCatalogCmd(a.client, a.catalog.mine)
	case "i":
		if !a.session.Authenticated() {
			a.openAuth()
		}
		return a, nil
	case "o":
		if a.session.Authenticated() {
			a.signOut()
			return a, fetchCatalogCmd(a.client, false)
		}
		return a, nil
	}
	return a, nil
}

// selectPersona is the catalog→conversation transition. Without a session it
// opens the auth modal and never issues the start call.
func (a *App) selectPersona() tea.Cmd {
	bot, ok := a.catalog.selected()
	if !ok {
		return nil
	}
	if !a.session.Authenticated() {
		a.openAuth()
		return nil
	}
	if !a.chat.start(bot) {
		// A start is already in flight.
		return nil
	}
	a.status = "Starting conversation with " + bot.Name + "..."
	return tea.Batch(startConversationCmd(a.client, bot.ID), a.chatView.spin.Tick)
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Navigating away discards the conversation; a late response will
		// be dropped as stale.
		a.chat.reset()
		a.view = viewCatalog
		a.status = ""
		return a, nil
	case "enter":
		return a, a.submitMessage()
	case "ctrl+y":
		if reply, ok := a.chat.lastBotReply(); ok {
			return a, copyToClipboardCmd(reply.Content)
		}
		return a, nil
	}

	if a.chat.sending {
		// Input is disabled while a send is in flight; sends are not queued.
		return a, nil
	}
	var cmd tea.Cmd
	a.chatView, cmd = a.chatView.update(msg)
	return a, cmd
}

// submitMessage validates and dispatches the typed message. Blank input and
// in-flight sends never reach the network.
func (a *App) submitMessage() tea.Cmd {
	text := a.chatView.input.Value()
	if !a.chat.canSend(text) {
		return nil
	}
	a.chat.sendStarted()
	// The input clears immediately; the transcript only changes when the
	// backend returns the message pair.
	a.chatView.input.SetValue("")
	return tea.Batch(sendMessageCmd(a.client, a.chat.conversation.ID, text), a.chatView.spin.Tick)
}

func (a *App) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.view = viewCatalog
		return a, nil
	case "tab", "down":
		a.composer.cycleFocus()
		return a, nil
	case "enter":
		return a, a.submitComposer()
	}
	if a.composer.submitting {
		return a, nil
	}
	var cmd tea.Cmd
	a.composer, cmd = a.composer.update(msg)
	return a, cmd
}

// submitComposer validates the form and posts the new persona.
func (a *App) submitComposer() tea.Cmd {
	if a.composer.submitting {
		return nil
	}
	if errText := a.composer.validate(); errText != "" {
		a.composer.errText = errText
		return nil
	}
	a.composer.submitting = true
	a.composer.errText = ""
	return createChatbotCmd(a.client, a.composer.request())
}

func (a *App) handleAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showAuth = false
		a.auth.reset()
		return a, nil
	case "ctrl+r":
		a.auth.toggleMode()
		return a, nil
	case "tab":
		a.auth.cycleFocus()
		return a, nil
	case "enter":
		return a, a.submitAuth()
	}
	if a.auth.submitting {
		return a, nil
	}
	var cmd tea.Cmd
	a.auth, cmd = a.auth.update(msg)
	return a, cmd
}

func (a *App) submitAuth() tea.Cmd {
	if a.auth.submitting {
		return nil
	}
	username := a.auth.username.Value()
	password := a.auth.password.Value()
	if isBlank(username) || password == "" {
		a.auth.errText = "Username and password are required."
		return nil
	}
	a.auth.submitting = true
	a.auth.errText = ""
	return authenticateCmd(a.client, a.auth.mode, username, password)
}

func (a *App) openAuth() {
	a.auth.reset()
	a.showAuth = true
}

// signOut clears the session and every downstream selection in one step.
func (a *App) signOut() {
	a.session.Logout()
	a.chat.reset()
	a.view = viewCatalog
	a.catalog.mine = false
	a.catalog.loading = true
	a.status = "Signed out"
}

func (a *App) handleCatalogLoaded(msg catalogLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.logger.Warn("catalog fetch failed", "error", msg.err)
		a.catalog.loading = false
		a.catalog.loadErr = api.ErrorDetail(msg.err, "backend unreachable")
		return a, nil
	}
	a.catalog.setBots(msg.bots, msg.mine)
	return a, nil
}

func (a *App) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if !a.showAuth {
		// The user cancelled the modal before the response arrived.
		return a, nil
	}
	a.auth.submitting = false
	if msg.err != nil {
		a.logger.Info("authentication failed", "error", msg.err)
		a.alertText = api.ErrorDetail(msg.err, a.auth.fallback())
		return a, nil
	}
	a.session.Adopt(msg.resp)
	a.showAuth = false
	a.auth.reset()
	a.status = "Signed in as " + msg.resp.User.Username
	return a, nil
}

func (a *App) handleConversationStarted(msg conversationStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if !a.chat.startFailed(msg.chatbotID) {
			return a, nil // stale
		}
		a.status = ""
		return a, a.apiFailure(msg.err, "Could not start the conversation.")
	}
	if !a.chat.started(msg.chatbotID, msg.conv) {
		return a, nil // user navigated away before the response arrived
	}
	a.view = viewChat
	a.status = ""
	a.chatView.input.SetValue("")
	a.chatView.input.Focus()
	a.chatView.resize(a.width, a.height, &a.chat)
	return a, nil
}

func (a *App) handleMessagePair(msg messagePairMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if !a.chat.sendFailed(msg.conversationID) {
			return a, nil // stale
		}
		// The typed text is not restored.
		return a, a.apiFailure(msg.err, "Failed to send message.")
	}
	if !a.chat.appendPair(msg.conversationID, msg.pair) {
		return a, nil // stale
	}
	a.chatView.refresh(a.width, &a.chat)
	return a, nil
}

func (a *App) handleChatbotCreated(msg chatbotCreatedMsg) (tea.Model, tea.Cmd) {
	a.composer.submitting = false
	if msg.err != nil {
		a.composer.errText = api.ErrorDetail(msg.err, genericCreateFailure)
		return a, nil
	}
	a.catalog.prepend(msg.bot)
	a.composer.reset()
	a.view = viewCatalog
	a.status = "Created " + msg.bot.Name
	return a, nil
}

// apiFailure surfaces err as a blocking alert. An unauthorized response also
// tears the session down: token, identity and conversation state go together.
func (a *App) apiFailure(err error, fallback string) tea.Cmd {
	a.logger.Warn("request failed", "error", err)
	if api.IsUnauthorized(err) {
		a.session.Logout()
		a.chat.reset()
		a.view = viewCatalog
		a.alertText = "Your session has expired. Please sign in again."
		return nil
	}
	a.alertText = api.ErrorDetail(err, fallback)
	return nil
}

// View renders the current screen with any modal on top.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}
	if a.width == 0 {
		return "Loading..."
	}

	if a.alertText != "" {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			alertStyle.Render(a.alertText+"\n\n"+dimStyle.Render("enter: dismiss")))
	}
	if a.showAuth {
		return a.auth.view(a.width, a.height)
	}

	switch a.view {
	case viewChat:
		return a.chatView.view(a.width, &a.chat, a.status)
	case viewComposer:
		return a.composer.view(a.width)
	default:
		return a.catalogScreen()
	}
}

func (a *App) catalogScreen() string {
	var b []string
	if a.height > 20 {
		b = append(b, titleStyle.Render(a.banner))
	}
	b = append(b, a.catalog.view(a.width, a.height))

	footer := "enter: chat • n: new bot • m: my bots • r: refresh • i: sign in • q: quit"
	if a.session.Authenticated() {
		footer = "enter: chat • n: new bot • m: my bots • r: refresh • o: sign out • q: quit"
		if user := a.session.User(); user != nil {
			b = append(b, dimStyle.Render("signed in as "+user.Username))
		}
	}
	if a.chat.phase == chatStarting {
		footer = a.chatView.spin.View() + " " + a.status
	} else if a.status != "" {
		footer = a.status + "  •  " + footer
	}
	b = append(b, footerStyle.Render(footer))

	return lipgloss.JoinVertical(lipgloss.Left, b...)
}
