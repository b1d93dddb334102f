package puter

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
)

// Chat sends prompt as a single user message and returns the first choice's
// text verbatim. No choices yields "" without an error.
func (s *SDK) Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error) {
	if s.config.AuthToken == "" {
		return "", ErrNoToken
	}
	if ctx == nil {
		ctx = context.Background()
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	s.debugf("chat: sending request model=%s prompt_bytes=%d", model, len(prompt))
	completion, err := s.chat.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		s.debugf("chat: empty completion choices")
		return "", nil
	}

	return completion.Choices[0].Message.Content, nil
}
