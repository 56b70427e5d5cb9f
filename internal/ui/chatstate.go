package ui

import "botforge/internal/api"

// chatPhase is the conversation flow state. The phase plus the fields valid
// in it form a tagged variant: a conversation id can only exist in
// chatActive, a persona only from chatStarting on.
type chatPhase int

const (
	// chatIdle: no persona selected, catalog is the active view.
	chatIdle chatPhase = iota
	// chatStarting: start call in flight for state.persona.
	chatStarting
	// chatActive: conversation established, transcript live.
	chatActive
)

// chatState tracks the conversation flow. All transitions go through its
// methods so impossible combinations cannot be represented.
type chatState struct {
	phase        chatPhase
	persona      api.Chatbot
	conversation api.Conversation
	transcript   []api.Message
	sending      bool
}

// start moves idle→starting for the given persona. Returns false when a
// start is already in flight or a conversation is already active.
func (c *chatState) start(persona api.Chatbot) bool {
	if c.phase != chatIdle {
		return false
	}
	c.phase = chatStarting
	c.persona = persona
	return true
}

// started moves starting→active. A response for a persona the user has
// already navigated away from is reported stale and ignored.
func (c *chatState) started(chatbotID string, conv api.Conversation) bool {
	if c.phase != chatStarting || c.persona.ID != chatbotID {
		return false
	}
	c.phase = chatActive
	c.conversation = conv
	c.transcript = nil
	return true
}

// startFailed moves starting→idle, leaving the catalog view unchanged.
func (c *chatState) startFailed(chatbotID string) bool {
	if c.phase != chatStarting || c.persona.ID != chatbotID {
		return false
	}
	c.reset()
	return true
}

// canSend reports whether text would be submitted right now: an active
// conversation, no send in flight, and a non-blank message.
func (c *chatState) canSend(text string) bool {
	return c.phase == chatActive && !c.sending && !isBlank(text)
}

// sendStarted marks a message in flight; the input stays disabled until the
// paired result arrives.
func (c *chatState) sendStarted() {
	c.sending = true
}

// appendPair atomically appends the echoed user message and the reply, in
// that order. Results for a different conversation are stale and dropped.
func (c *chatState) appendPair(conversationID string, pair api.MessagePair) bool {
	if c.phase != chatActive || c.conversation.ID != conversationID {
		return false
	}
	c.sending = false
	c.transcript = append(c.transcript, pair.UserMessage, pair.BotResponse)
	return true
}

// sendFailed re-enables the input without touching the transcript. The typed
// text is not restored.
func (c *chatState) sendFailed(conversationID string) bool {
	if c.phase != chatActive || c.conversation.ID != conversationID {
		return false
	}
	c.sending = false
	return true
}

// lastBotReply returns the most recent chatbot message, if any.
func (c *chatState) lastBotReply() (api.Message, bool) {
	for i := len(c.transcript) - 1; i >= 0; i-- {
		if c.transcript[i].SenderType != api.SenderUser {
			return c.transcript[i], true
		}
	}
	return api.Message{}, false
}

// reset discards the conversation entirely, returning to idle. In-flight
// responses for the old conversation will be dropped as stale.
func (c *chatState) reset() {
	*c = chatState{}
}
