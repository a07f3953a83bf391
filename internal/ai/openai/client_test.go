package openai

import (
	"context"
	"errors"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
)

type fakeChat struct {
	resp    goopenai.ChatCompletionResponse
	err     error
	request goopenai.ChatCompletionRequest
}

func (f *fakeChat) CreateChatCompletion(_ context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error) {
	f.request = req
	return f.resp, f.err
}

func TestClientComplete(t *testing.T) {
	chat := &fakeChat{resp: goopenai.ChatCompletionResponse{
		Choices: []goopenai.ChatCompletionChoice{{Message: goopenai.ChatCompletionMessage{Content: "  {\"match_score\": 8}  "}}},
	}}
	c := &Client{api: chat, modelName: "gpt-4o"}

	out, err := c.Complete(context.Background(), "evaluate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"match_score": 8}` {
		t.Fatalf("unexpected output: %q", out)
	}

	if chat.request.Model != "gpt-4o" || len(chat.request.Messages) != 1 || chat.request.Messages[0].Content != "evaluate" {
		t.Fatalf("unexpected request: %+v", chat.request)
	}
}

func TestClientCompleteNoChoices(t *testing.T) {
	c := &Client{api: &fakeChat{}, modelName: "gpt-4o"}

	out, err := c.Complete(context.Background(), "evaluate")
	if err != nil || out != "" {
		t.Fatalf("expected empty output, got %q, %v", out, err)
	}
}

func TestClientCompleteError(t *testing.T) {
	c := &Client{api: &fakeChat{err: errors.New("rate limited")}, modelName: "gpt-4o"}

	if _, err := c.Complete(context.Background(), "evaluate"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(" ", "", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
}
