package chat_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	analysis "github.com/mindfulai/backend/internal/analysis/emotion"
	modelchat "github.com/mindfulai/backend/internal/model/chat"
	"github.com/mindfulai/backend/internal/model/classification"
	"github.com/mindfulai/backend/internal/model/persona"
	"github.com/mindfulai/backend/internal/service/chat"
	"github.com/mindfulai/backend/internal/service/completion"
	"github.com/mindfulai/backend/internal/service/emotion"
)

type fakeCompleter struct {
	reply    string
	err      error
	requests []completion.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req completion.Request) (*completion.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &completion.Response{Content: f.reply}, nil
}

type fixedClassifier struct {
	result classification.Result
}

func (c fixedClassifier) Classify(context.Context, string) classification.Result {
	return c.result
}

func TestReplyFallsBackOnProviderTimeout(t *testing.T) {
	completer := &fakeCompleter{err: completion.ErrTimeout}
	classifier, err := emotion.NewService(completer, emotion.Config{Enabled: true})
	if err != nil {
		t.Fatalf("emotion.NewService err: %v", err)
	}
	svc := chat.NewService(completer, classifier, persona.Default())

	reply, err := svc.Reply(context.Background(), chat.Request{
		Message:  "I am so happy today!",
		UserName: "Alex",
	})
	if err != nil {
		t.Fatalf("Reply err: %v", err)
	}

	if !reply.Fallback || !reply.Success {
		t.Fatalf("expected successful fallback reply, got %+v", reply)
	}
	if reply.Emotion != analysis.Joy {
		t.Fatalf("expected joy, got %s", reply.Emotion)
	}
	want := "Alex, I can feel your happiness! What's bringing you this joy?"
	if reply.Response != want {
		t.Fatalf("unexpected response: got %q want %q", reply.Response, want)
	}
}

func TestReplyForwardsRecentHistory(t *testing.T) {
	completer := &fakeCompleter{reply: "I'm sorry the week has been so heavy, Sam."}
	classifier := fixedClassifier{result: classification.Result{Emotion: analysis.Sadness, Confidence: 0.9, Method: classification.MethodGPT}}
	svc := chat.NewService(completer, classifier, persona.Default())

	history := make(modelchat.History, 0, 12)
	for i := 0; i < 12; i++ {
		role := modelchat.RoleUser
		if i%2 == 1 {
			role = modelchat.RoleAssistant
		}
		history = append(history, modelchat.Turn{Role: role, Content: fmt.Sprintf("m%d", i)})
	}

	reply, err := svc.Reply(context.Background(), chat.Request{
		Message:  "It has been a long week",
		History:  history,
		UserName: "Sam",
	})
	if err != nil {
		t.Fatalf("Reply err: %v", err)
	}
	if reply.Fallback {
		t.Fatal("expected model reply")
	}
	if reply.Response != completer.reply || reply.Emotion != analysis.Sadness || reply.Confidence != 0.9 {
		t.Fatalf("unexpected reply %+v", reply)
	}

	if len(completer.requests) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(completer.requests))
	}
	req := completer.requests[0]
	if req.MaxTokens != 250 || req.Temperature != 0.9 {
		t.Fatalf("unexpected generation params: %d / %v", req.MaxTokens, req.Temperature)
	}

	messages := req.Messages
	if len(messages) != 1+modelchat.HistoryLimit+1 {
		t.Fatalf("expected system + 8 history + query, got %d messages", len(messages))
	}

	system := messages[0]
	if system.Role != schema.System {
		t.Fatalf("first message should be system, got %s", system.Role)
	}
	for _, fragment := range []string{"You are MindfulAI", "chatting with Sam", "current emotion: sadness", "(2-4 sentences)"} {
		if !strings.Contains(system.Content, fragment) {
			t.Fatalf("system prompt missing %q: %q", fragment, system.Content)
		}
	}

	for i, msg := range messages[1 : 1+modelchat.HistoryLimit] {
		want := fmt.Sprintf("m%d", i+4)
		if msg.Content != want {
			t.Fatalf("history[%d]: got %q want %q", i, msg.Content, want)
		}
	}
	if messages[1].Role != schema.User || messages[2].Role != schema.Assistant {
		t.Fatalf("history roles not preserved: %s, %s", messages[1].Role, messages[2].Role)
	}

	last := messages[len(messages)-1]
	if last.Role != schema.User || last.Content != "It has been a long week" {
		t.Fatalf("unexpected final message %+v", last)
	}
}

func TestReplyWithoutCompleterUsesDefaultName(t *testing.T) {
	classifier := fixedClassifier{result: classification.Result{Emotion: analysis.Neutral, Confidence: 0.5, Method: classification.MethodKeyword}}
	svc := chat.NewService(nil, classifier, persona.Default())

	reply, err := svc.Reply(context.Background(), chat.Request{Message: "hello"})
	if err != nil {
		t.Fatalf("Reply err: %v", err)
	}
	want := "User, I'm here to listen. Tell me more about what's on your mind."
	if reply.Response != want || !reply.Fallback {
		t.Fatalf("unexpected reply %+v", reply)
	}
}

func TestReplyKeepsBracesInUserText(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	classifier := fixedClassifier{result: classification.Result{Emotion: analysis.Neutral, Confidence: 0.5}}
	svc := chat.NewService(completer, classifier, persona.Default())

	_, err := svc.Reply(context.Background(), chat.Request{
		Message: "what does {name} mean?",
		History: modelchat.History{{Role: modelchat.RoleUser, Content: "a {b} c"}},
	})
	if err != nil {
		t.Fatalf("Reply err: %v", err)
	}
	messages := completer.requests[0].Messages
	if messages[1].Content != "a {b} c" {
		t.Fatalf("history content altered: %q", messages[1].Content)
	}
	if messages[2].Content != "what does {name} mean?" {
		t.Fatalf("query content altered: %q", messages[2].Content)
	}
}

func TestFallbackResponse(t *testing.T) {
	cases := []struct {
		label analysis.Label
		want  string
	}{
		{label: analysis.Sadness, want: "Mia, I'm here for you. Tell me what's on your mind."},
		{label: analysis.Relief, want: "Mia, I'm glad you're feeling better! What changed?"},
		{label: analysis.Annoyance, want: "Mia, I'm here to listen. Tell me more about what's on your mind."},
		{label: analysis.Label("unknown"), want: "Mia, I'm here to listen. Tell me more about what's on your mind."},
	}

	for _, tc := range cases {
		if got := chat.FallbackResponse(tc.label, "Mia"); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.label, got, tc.want)
		}
	}
}

func TestRecover(t *testing.T) {
	reply := chat.Recover("I am so happy", "", errors.New("boom"))

	if reply.Emotion != analysis.Joy || reply.Confidence != 0.5 {
		t.Fatalf("unexpected emotion %+v", reply)
	}
	if !reply.Fallback || !reply.Success || reply.ErrorDetails != "boom" {
		t.Fatalf("unexpected flags %+v", reply)
	}
	if !strings.HasPrefix(reply.Response, "User, ") {
		t.Fatalf("expected default name, got %q", reply.Response)
	}
}
