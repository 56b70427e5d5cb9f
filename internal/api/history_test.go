package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeBackend serves the read-side endpoints used by the history calls.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/chatbots/my", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode([]Chatbot{{ID: "mine-1", CreatorUsername: "alice"}})
	})
	mux.HandleFunc("GET /api/chat/conv-1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Message{
			{ID: "m1", SenderType: SenderUser, Content: "hello"},
			{ID: "m2", SenderType: SenderChatbot, Content: "hi!"},
		})
	})
	mux.HandleFunc("GET /api/conversations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Conversation{{ID: "conv-1", ChatbotID: "bot-1"}})
	})
	return httptest.NewServer(mux)
}

func TestListMyChatbots(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	unauthed := NewClient(srv.URL, nil)
	if _, err := unauthed.ListMyChatbots(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized without token, got %v", err)
	}

	client := NewClient(srv.URL, func() string { return "T" })
	bots, err := client.ListMyChatbots(context.Background())
	if err != nil {
		t.Fatalf("ListMyChatbots err: %v", err)
	}
	if len(bots) != 1 || bots[0].ID != "mine-1" {
		t.Fatalf("unexpected bots: %+v", bots)
	}
}

func TestListMessagesOrder(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	client := NewClient(srv.URL, func() string { return "T" })
	msgs, err := client.ListMessages(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("ListMessages err: %v", err)
	}
	if len(msgs) != 2 || msgs[0].SenderType != SenderUser || msgs[1].SenderType != SenderChatbot {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestListConversations(t *testing.T) {
	srv := fakeBackend(t)
	defer srv.Close()

	client := NewClient(srv.URL, func() string { return "T" })
	convs, err := client.ListConversations(context.Background())
	if err != nil {
		t.Fatalf("ListConversations err: %v", err)
	}
	if len(convs) != 1 || convs[0].ID != "conv-1" {
		t.Fatalf("unexpected conversations: %+v", convs)
	}
}
