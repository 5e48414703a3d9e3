package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/web3-frozen/todo-board/internal/model"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	msg, err := newMessage(model.EventCreated, 42, model.Todo{ID: 42, Title: "Buy milk"}, at)
	if err != nil {
		t.Fatalf("newMessage: %v", err)
	}
	if string(msg.Key) != "42" {
		t.Errorf("key = %q, want 42", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != model.EventCreated {
		t.Errorf("headers = %+v", msg.Headers)
	}

	var event struct {
		ID     string `json:"id"`
		Type   string `json:"type"`
		TodoID int64  `json:"todo_id"`
		Data   struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.ID == "" || event.Type != model.EventCreated || event.TodoID != 42 || event.Data.Title != "Buy milk" {
		t.Errorf("unexpected event: %+v", event)
	}
}
