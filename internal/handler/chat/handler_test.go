package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
	"github.com/mindfulai/backend/internal/model/persona"
	chatService "github.com/mindfulai/backend/internal/service/chat"
	"github.com/mindfulai/backend/internal/service/completion"
	emotionService "github.com/mindfulai/backend/internal/service/emotion"
)

type stubResponder struct {
	reply    chatService.Reply
	err      error
	panicMsg string
	requests []chatService.Request
}

func (s *stubResponder) Reply(_ context.Context, req chatService.Request) (chatService.Reply, error) {
	s.requests = append(s.requests, req)
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.reply, s.err
}

type timeoutCompleter struct{}

func (timeoutCompleter) Complete(context.Context, completion.Request) (*completion.Response, error) {
	return nil, completion.ErrTimeout
}

func setupRouter(responder Responder) *chi.Mux {
	r := chi.NewRouter()
	New(responder).RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var decoded map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &decoded)
	return resp, decoded
}

func TestChatMissingMessage(t *testing.T) {
	r := setupRouter(&stubResponder{})

	for _, body := range []string{`{"message":""}`, `{}`, `not json`} {
		resp, decoded := postChat(t, r, body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.Code)
		}
		if decoded["success"] != false {
			t.Fatalf("%s: expected success false, got %v", body, decoded)
		}
	}

	_, decoded := postChat(t, r, `{"message":""}`)
	if decoded["error"] != "No message provided" {
		t.Fatalf("unexpected error %v", decoded["error"])
	}
}

func TestChatRejectsUnknownHistoryRole(t *testing.T) {
	responder := &stubResponder{}
	r := setupRouter(responder)

	resp, decoded := postChat(t, r, `{"message":"hi","history":[{"role":"robot","content":"beep"}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if decoded["success"] != false {
		t.Fatalf("expected success false, got %v", decoded)
	}
	if len(responder.requests) != 0 {
		t.Fatal("responder must not be called for invalid history")
	}
}

func TestChatAcceptsEmptyHistoryContent(t *testing.T) {
	responder := &stubResponder{reply: chatService.Reply{Response: "ok", Emotion: analysis.Joy, Success: true}}
	r := setupRouter(responder)

	resp, decoded := postChat(t, r, `{"message":"I am so happy today!","history":[{"role":"assistant","content":""}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", resp.Code, decoded)
	}
	if len(responder.requests) != 1 {
		t.Fatalf("expected responder to be called once, got %d", len(responder.requests))
	}
	history := responder.requests[0].History
	if len(history) != 1 || history[0].Role != "assistant" || history[0].Content != "" {
		t.Fatalf("history not forwarded as sent: %+v", history)
	}
}

func TestChatPassesRequestThrough(t *testing.T) {
	responder := &stubResponder{reply: chatService.Reply{
		Response:   "That sounds exciting, Ana!",
		Emotion:    analysis.Excitement,
		Confidence: 0.9,
		Success:    true,
	}}
	r := setupRouter(responder)

	body := `{"message":"I got the job","userName":"Ana","history":[{"role":"user","content":"wish me luck"},{"role":"assistant","content":"Good luck!"}]}`
	resp, decoded := postChat(t, r, body)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if decoded["response"] != "That sounds exciting, Ana!" || decoded["emotion"] != "excitement" {
		t.Fatalf("unexpected body %v", decoded)
	}
	if decoded["fallback"] != false || decoded["success"] != true {
		t.Fatalf("unexpected flags %v", decoded)
	}
	if _, ok := decoded["error_details"]; ok {
		t.Fatalf("error_details must be omitted on success: %v", decoded)
	}

	got := responder.requests[0]
	if got.Message != "I got the job" || got.UserName != "Ana" || len(got.History) != 2 {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestChatInternalErrorReturnsTemplate(t *testing.T) {
	for _, responder := range []*stubResponder{
		{err: errors.New("render failed")},
		{panicMsg: "render failed"},
	} {
		r := setupRouter(responder)

		resp, decoded := postChat(t, r, `{"message":"I feel so sad","userName":"Kai"}`)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if decoded["fallback"] != true || decoded["success"] != true || decoded["confidence"] != 0.5 {
			t.Fatalf("unexpected flags %v", decoded)
		}
		if decoded["emotion"] != "sadness" {
			t.Fatalf("unexpected emotion %v", decoded["emotion"])
		}
		if decoded["response"] != "Kai, I'm here for you. Tell me what's on your mind." {
			t.Fatalf("unexpected response %v", decoded["response"])
		}
		if decoded["error_details"] != "render failed" {
			t.Fatalf("unexpected error_details %v", decoded["error_details"])
		}
	}
}

func TestChatProviderTimeoutFallsBack(t *testing.T) {
	completer := timeoutCompleter{}
	classifier, err := emotionService.NewService(completer, emotionService.Config{Enabled: true})
	if err != nil {
		t.Fatalf("emotion service: %v", err)
	}
	r := setupRouter(chatService.NewService(completer, classifier, persona.Default()))

	resp, decoded := postChat(t, r, `{"message":"I am so happy today!","userName":"Alex"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if decoded["fallback"] != true || decoded["emotion"] != "joy" {
		t.Fatalf("unexpected body %v", decoded)
	}
	if decoded["response"] != "Alex, I can feel your happiness! What's bringing you this joy?" {
		t.Fatalf("unexpected response %v", decoded["response"])
	}
}

type slowResponder struct {
	delay time.Duration
}

func (s slowResponder) Reply(ctx context.Context, _ chatService.Request) (chatService.Reply, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
	}
	return chatService.Reply{Response: "ok", Emotion: analysis.Neutral, Success: true}, nil
}

func dialChat(t *testing.T, responder Responder) *websocket.Conn {
	t.Helper()
	return dialHandler(t, New(responder))
}

func dialHandler(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) outgoingMessage {
	t.Helper()
	var raw struct {
		Type      string          `json:"type"`
		ID        string          `json:"id"`
		Data      json.RawMessage `json:"data"`
		Timestamp int64           `json:"timestamp"`
	}
	if err := conn.ReadJSON(&raw); err != nil {
		t.Fatalf("read: %v", err)
	}
	var data map[string]any
	if len(raw.Data) > 0 {
		_ = json.Unmarshal(raw.Data, &data)
	}
	return outgoingMessage{Type: raw.Type, ID: raw.ID, Data: data, Timestamp: raw.Timestamp}
}

func TestWebSocketChatReply(t *testing.T) {
	responder := &stubResponder{reply: chatService.Reply{
		Response:   "Hello Bo!",
		Emotion:    analysis.Neutral,
		Confidence: 0.9,
		Success:    true,
	}}
	conn := dialChat(t, responder)

	err := conn.WriteJSON(map[string]any{
		"type": "chat",
		"data": map[string]any{"message": "hi", "userName": "Bo"},
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	frame := readFrame(t, conn)
	if frame.Type != "reply" || frame.ID == "" || frame.Timestamp == 0 {
		t.Fatalf("unexpected frame %+v", frame)
	}
	data := frame.Data.(map[string]any)
	if data["response"] != "Hello Bo!" || data["success"] != true {
		t.Fatalf("unexpected reply data %v", data)
	}
}

func TestWebSocketErrorsKeepConnectionOpen(t *testing.T) {
	conn := dialChat(t, &stubResponder{reply: chatService.Reply{Response: "ok", Success: true}})

	if err := conn.WriteMessage(websocket.TextMessage, []byte("garbage")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", frame)
	}

	if err := conn.WriteJSON(map[string]any{"type": "chat", "data": map[string]any{"message": ""}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	frame := readFrame(t, conn)
	if frame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", frame)
	}
	if msg := frame.Data.(map[string]any)["message"]; msg != "No message provided" {
		t.Fatalf("unexpected error message %v", msg)
	}

	if err := conn.WriteJSON(map[string]any{"type": "ping"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != "pong" {
		t.Fatalf("expected pong, got %+v", frame)
	}

	if err := conn.WriteJSON(map[string]any{"type": "chat", "data": map[string]any{"message": "still there?"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != "reply" {
		t.Fatalf("expected reply, got %+v", frame)
	}
}

func TestWebSocketSurvivesReplyLongerThanReadWait(t *testing.T) {
	h := New(slowResponder{delay: 500 * time.Millisecond})
	h.readWait = 300 * time.Millisecond
	conn := dialHandler(t, h)

	for i := 0; i < 2; i++ {
		if err := conn.WriteJSON(map[string]any{"type": "chat", "data": map[string]any{"message": "hi"}}); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		if frame := readFrame(t, conn); frame.Type != "reply" {
			t.Fatalf("frame %d: expected reply, got %+v", i, frame)
		}
	}
}
