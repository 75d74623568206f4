package speech

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"solstis/internal/convo"
)

// ChatClient wraps the OpenAI chat completions API.
type ChatClient struct {
	client openai.Client
	model  string
}

func NewChatClient(apiKey, model string, httpc *http.Client) *ChatClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpc != nil {
		opts = append(opts, option.WithHTTPClient(httpc))
	}
	return &ChatClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// Chat sends the system prompt and transcript and returns the reply text.
func (c *ChatClient) Chat(ctx context.Context, system string, turns []convo.Turn) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	msgs = append(msgs, openai.SystemMessage(system))
	for _, t := range turns {
		switch t.Role {
		case convo.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(t.Text))
		default:
			msgs = append(msgs, openai.UserMessage(t.Text))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
