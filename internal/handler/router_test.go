package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mindfulai/backend/internal/handler/system"
	"github.com/mindfulai/backend/internal/model/persona"
	chatService "github.com/mindfulai/backend/internal/service/chat"
	emotionService "github.com/mindfulai/backend/internal/service/emotion"
)

// newOfflineRouter 构造一个没有远端模型的路由，所有请求走本地回退。
func newOfflineRouter(t *testing.T) http.Handler {
	t.Helper()
	emotionSvc, err := emotionService.NewService(nil, emotionService.Config{Enabled: true})
	if err != nil {
		t.Fatalf("emotion service: %v", err)
	}
	return NewRouter(Dependencies{
		Emotion: emotionSvc,
		Chat:    chatService.NewService(nil, emotionSvc, persona.Default()),
		Persona: persona.Default(),
		System:  system.Info{Provider: "OpenAI", Model: "gpt-5-turbo"},
	})
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var decoded map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &decoded)
	return resp, decoded
}

func TestRouterOfflineEndpoints(t *testing.T) {
	r := newOfflineRouter(t)

	resp, body := do(t, r, http.MethodPost, "/api/detect-emotion", `{"text":"I am so grateful, thank you"}`)
	if resp.Code != http.StatusOK || body["emotion"] != "gratitude" || body["method"] != "keyword" {
		t.Fatalf("detect-emotion: %d %v", resp.Code, body)
	}

	resp, body = do(t, r, http.MethodPost, "/api/sentiment-analysis", `{"text":"I am so grateful, thank you"}`)
	if resp.Code != http.StatusOK || body["sentiment"] != "positive" {
		t.Fatalf("sentiment-analysis: %d %v", resp.Code, body)
	}

	resp, body = do(t, r, http.MethodPost, "/api/emotion-breakdown", `{"text":"I am so grateful, thank you"}`)
	if resp.Code != http.StatusOK || body["top_emotion"] != "gratitude" {
		t.Fatalf("emotion-breakdown: %d %v", resp.Code, body)
	}

	resp, body = do(t, r, http.MethodPost, "/api/chat", `{"message":"I am so grateful, thank you","userName":"Lee"}`)
	if resp.Code != http.StatusOK || body["fallback"] != true {
		t.Fatalf("chat: %d %v", resp.Code, body)
	}
	if body["response"] != "Lee, your gratitude is beautiful. What are you thankful for?" {
		t.Fatalf("chat response: %v", body["response"])
	}

	resp, body = do(t, r, http.MethodGet, "/api/health", "")
	if resp.Code != http.StatusOK || body["api_key_configured"] != false {
		t.Fatalf("health: %d %v", resp.Code, body)
	}

	resp, body = do(t, r, http.MethodGet, "/api/models", "")
	features, _ := body["features"].(map[string]any)
	if resp.Code != http.StatusOK || features["websocket_chat"] != true {
		t.Fatalf("models: %d %v", resp.Code, body)
	}
}

func TestRouterValidation(t *testing.T) {
	r := newOfflineRouter(t)

	for _, path := range []string{"/api/detect-emotion", "/api/sentiment-analysis", "/api/emotion-breakdown"} {
		resp, body := do(t, r, http.MethodPost, path, `{"text":""}`)
		if resp.Code != http.StatusBadRequest || body["error"] != "No text provided" {
			t.Fatalf("%s: %d %v", path, resp.Code, body)
		}
	}

	resp, body := do(t, r, http.MethodPost, "/api/chat", `{"message":""}`)
	if resp.Code != http.StatusBadRequest || body["success"] != false {
		t.Fatalf("chat: %d %v", resp.Code, body)
	}
}

func TestRouterAnswersPreflight(t *testing.T) {
	r := newOfflineRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected preflight allow origin %q", got)
	}
}
