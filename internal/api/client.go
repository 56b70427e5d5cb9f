// Package api implements the typed REST client for the BotForge backend.
//
// Every call resolves the bearer token through a TokenSource at request time;
// the client itself holds no credential state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// TokenSource returns the current bearer token, or "" when no session exists.
// It is consulted on every request so a login or logout takes effect on the
// next call without touching the client.
type TokenSource func() string

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// NewClient creates a client for the backend at baseURL. token may be nil for
// a client that only performs unauthenticated calls.
func NewClient(baseURL string, token TokenSource) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-side timeout: the UI waits for the backend and the user
		// can abandon the result by navigating away.
		http:  &http.Client{},
		token: token,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Register creates an account and returns its first session token.
func (c *Client) Register(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentialsRequest{username, password}, &out)
	return out, err
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentialsRequest{username, password}, &out)
	return out, err
}

// Me fetches the identity behind the current token. A 401 means the token is
// no longer valid and the session should be discarded.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &out)
	return out, err
}

// ListChatbots returns every persona, newest first as ordered by the backend.
func (c *Client) ListChatbots(ctx context.Context) ([]Chatbot, error) {
	var out []Chatbot
	err := c.do(ctx, http.MethodGet, "/api/chatbots", nil, &out)
	return out, err
}

// ListMyChatbots returns the personas created by the current user.
func (c *Client) ListMyChatbots(ctx context.Context) ([]Chatbot, error) {
	var out []Chatbot
	err := c.do(ctx, http.MethodGet, "/api/chatbots/my", nil, &out)
	return out, err
}

// GetChatbot fetches a single persona by id.
func (c *Client) GetChatbot(ctx context.Context, id string) (Chatbot, error) {
	var out Chatbot
	err := c.do(ctx, http.MethodGet, "/api/chatbots/"+id, nil, &out)
	return out, err
}

// CreateChatbot submits a new persona and returns it as stored.
func (c *Client) CreateChatbot(ctx context.Context, req CreateChatbotRequest) (Chatbot, error) {
	var out Chatbot
	err := c.do(ctx, http.MethodPost, "/api/chatbots", req, &out)
	return out, err
}

// StartConversation opens a fresh conversation with the given persona.
func (c *Client) StartConversation(ctx context.Context, chatbotID string) (Conversation, error) {
	var out Conversation
	err := c.do(ctx, http.MethodPost, "/api/chat/"+chatbotID+"/start", nil, &out)
	return out, err
}

// SendMessage posts one user message and returns the echoed message together
// with the generated reply.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (MessagePair, error) {
	var out MessagePair
	err := c.do(ctx, http.MethodPost, "/api/chat/"+conversationID+"/message", chatMessageRequest{Message: text}, &out)
	return out, err
}

// ListMessages returns the stored transcript of a conversation, oldest first.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var out []Message
	err := c.do(ctx, http.MethodGet, "/api/chat/"+conversationID+"/messages", nil, &out)
	return out, err
}

// ListConversations returns the current user's conversations, newest first.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &out)
	return out, err
}

// do performs one request against the backend, attaching the bearer token
// when one is available and decoding either the success body into out or the
// error body into an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError builds an *APIError from a non-2xx response, preferring the
// backend's detail field over a generic message.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Detail: fallbackDetail(resp.StatusCode)}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
