package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: "u1", Username: "alice"})
	}))
	defer srv.Close()

	token := ""
	client := NewClient(srv.URL, func() string { return token })

	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me err: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}

	token = "tok-123"
	if _, err := client.Me(context.Background()); err != nil {
		t.Fatalf("Me err: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestLoginDecodesAuthResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if creds["username"] != "alice" || creds["password"] != "pw1" {
			t.Fatalf("unexpected credentials: %v", creds)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			AccessToken: "T",
			TokenType:   "bearer",
			User:        User{ID: "u1", Username: "alice"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	resp, err := client.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if resp.AccessToken != "T" {
		t.Fatalf("unexpected token: %q", resp.AccessToken)
	}
	if resp.User.Username != "alice" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestErrorDetailFromBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Username already exists"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.Register(context.Background(), "alice", "pw1")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := ErrorDetail(err, "fallback"); got != "Username already exists" {
		t.Fatalf("expected backend detail, got %q", got)
	}
}

func TestErrorDetailFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.ListChatbots(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := ErrorDetail(err, "fallback"); got == "" || got == "fallback" {
		// A generic per-status message is expected, not the caller fallback.
		t.Fatalf("expected generic status message, got %q", got)
	}
}

func TestIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid token"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, func() string { return "stale" })
	_, err := client.Me(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv2.Close()

	client2 := NewClient(srv2.URL, nil)
	_, err = client2.GetChatbot(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsUnauthorized(err) {
		t.Fatalf("404 must not be unauthorized: %v", err)
	}
}

func TestListChatbotsPreservesBackendOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Chatbot{
			{ID: "c3", Name: "newest"},
			{ID: "c2", Name: "middle"},
			{ID: "c1", Name: "oldest"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	bots, err := client.ListChatbots(context.Background())
	if err != nil {
		t.Fatalf("ListChatbots err: %v", err)
	}
	want := []string{"c3", "c2", "c1"}
	if len(bots) != len(want) {
		t.Fatalf("expected %d bots, got %d", len(want), len(bots))
	}
	for i, id := range want {
		if bots[i].ID != id {
			t.Fatalf("order changed at %d: got %s want %s", i, bots[i].ID, id)
		}
	}
}

func TestSendMessageReturnsPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/conv-1/message" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["message"] != "hello" {
			t.Fatalf("unexpected message body: %v", body)
		}
		json.NewEncoder(w).Encode(MessagePair{
			UserMessage: Message{ID: "m1", SenderType: SenderUser, Content: "hello"},
			BotResponse: Message{ID: "m2", SenderType: SenderChatbot, Content: "hi!"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, func() string { return "T" })
	pair, err := client.SendMessage(context.Background(), "conv-1", "hello")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if pair.UserMessage.Content != "hello" || pair.BotResponse.Content != "hi!" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
}

func TestCreateChatbotPostsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateChatbotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Name != "Socrates" || req.IsCensored {
			t.Fatalf("unexpected request: %+v", req)
		}
		json.NewEncoder(w).Encode(Chatbot{
			ID:              "c1",
			Name:            req.Name,
			Description:     req.Description,
			Introduction:    req.Introduction,
			IsCensored:      req.IsCensored,
			CreatorUsername: "alice",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, func() string { return "T" })
	bot, err := client.CreateChatbot(context.Background(), CreateChatbotRequest{
		Name:         "Socrates",
		Description:  "asks questions",
		Introduction: "Know thyself.",
		IsCensored:   false,
	})
	if err != nil {
		t.Fatalf("CreateChatbot err: %v", err)
	}
	if bot.ID != "c1" || bot.CreatorUsername != "alice" {
		t.Fatalf("unexpected chatbot: %+v", bot)
	}
}

func TestStartConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/bot-1/start" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(Conversation{ID: "conv-1", ChatbotID: "bot-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, func() string { return "T" })
	conv, err := client.StartConversation(context.Background(), "bot-1")
	if err != nil {
		t.Fatalf("StartConversation err: %v", err)
	}
	if conv.ID != "conv-1" || conv.ChatbotID != "bot-1" {
		t.Fatalf("unexpected conversation: %+v", conv)
	}
}
