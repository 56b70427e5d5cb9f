package ui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"botforge/internal/api"
)

// Result messages delivered back into Update by the commands below. Each
// carries enough identity (persona id, conversation id, auth mode) for the
// handler to drop results that arrive after the user navigated away.

type catalogLoadedMsg struct {
	bots []api.Chatbot
	mine bool
	err  error
}

type authResultMsg struct {
	mode authMode
	resp api.AuthResponse
	err  error
}

type conversationStartedMsg struct {
	chatbotID string
	conv      api.Conversation
	err       error
}

type messagePairMsg struct {
	conversationID string
	pair           api.MessagePair
	err            error
}

type chatbotCreatedMsg struct {
	bot api.Chatbot
	err error
}

type clipboardCopiedMsg struct {
	err error
}

// fetchCatalogCmd loads the persona list, either the full community catalog
// or just the current user's.
func fetchCatalogCmd(client *api.Client, mine bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var bots []api.Chatbot
		var err error
		if mine {
			bots, err = client.ListMyChatbots(ctx)
		} else {
			bots, err = client.ListChatbots(ctx)
		}
		return catalogLoadedMsg{bots: bots, mine: mine, err: err}
	}
}

// authenticateCmd exchanges credentials for a session token.
func authenticateCmd(client *api.Client, mode authMode, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var resp api.AuthResponse
		var err error
		if mode == modeRegister {
			resp, err = client.Register(ctx, username, password)
		} else {
			resp, err = client.Login(ctx, username, password)
		}
		return authResultMsg{mode: mode, resp: resp, err: err}
	}
}

// startConversationCmd opens a conversation with the given persona.
func startConversationCmd(client *api.Client, chatbotID string) tea.Cmd {
	return func() tea.Msg {
		conv, err := client.StartConversation(context.Background(), chatbotID)
		return conversationStartedMsg{chatbotID: chatbotID, conv: conv, err: err}
	}
}

// sendMessageCmd posts one user message and waits for the paired reply.
func sendMessageCmd(client *api.Client, conversationID, text string) tea.Cmd {
	return func() tea.Msg {
		pair, err := client.SendMessage(context.Background(), conversationID, text)
		return messagePairMsg{conversationID: conversationID, pair: pair, err: err}
	}
}

// createChatbotCmd submits the composer form.
func createChatbotCmd(client *api.Client, req api.CreateChatbotRequest) tea.Cmd {
	return func() tea.Msg {
		bot, err := client.CreateChatbot(context.Background(), req)
		return chatbotCreatedMsg{bot: bot, err: err}
	}
}

// copyToClipboardCmd writes text to the system clipboard.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		safe := strings.ReplaceAll(text, "\x00", "")
		return clipboardCopiedMsg{err: clipboard.WriteAll(safe)}
	}
}

// isBlank reports whether s is empty or whitespace-only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
