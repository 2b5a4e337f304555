package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ArkClient adapts an eino chat model (Volcengine Ark) to Completer.
type ArkClient struct {
	chatModel model.BaseChatModel
}

// NewArkClient wraps chatModel. A nil model means credentials are missing.
func NewArkClient(chatModel model.BaseChatModel) *ArkClient {
	return &ArkClient{chatModel: chatModel}
}

// Name returns the provider name used in logs.
func (c *ArkClient) Name() string {
	return "ark"
}

// Complete 每次调用按请求覆盖模型名称。
func (c *ArkClient) Complete(ctx context.Context, req Request) (Completion, error) {
	if c.chatModel == nil {
		return Completion{}, ErrMissingAPIKey
	}

	opts := []model.Option{model.WithModel(req.Model)}
	if req.Temperature != nil {
		opts = append(opts, model.WithTemperature(float32(*req.Temperature)))
	}
	if req.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*req.MaxTokens))
	}

	out, err := c.chatModel.Generate(ctx, toSchemaMessages(req.Messages), opts...)
	if err != nil {
		return Completion{}, fmt.Errorf("call ark: %w", err)
	}
	if out == nil {
		return Completion{Model: req.Model}, nil
	}
	return Completion{Text: out.Content, Model: req.Model}, nil
}

func toSchemaMessages(messages []Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, schema.SystemMessage(m.Text))
		case RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Text, nil))
		default:
			if len(m.Parts) == 0 {
				out = append(out, schema.UserMessage(m.Text))
				continue
			}
			parts := make([]schema.ChatMessagePart, 0, len(m.Parts))
			for _, p := range m.Parts {
				switch p.Type {
				case PartImageURL:
					if p.ImageURL == nil {
						continue
					}
					parts = append(parts, schema.ChatMessagePart{
						Type: schema.ChatMessagePartTypeImageURL,
						ImageURL: &schema.ChatMessageImageURL{
							URL:    p.ImageURL.URL,
							Detail: schema.ImageURLDetailAuto,
						},
					})
				default:
					parts = append(parts, schema.ChatMessagePart{
						Type: schema.ChatMessagePartTypeText,
						Text: p.Text,
					})
				}
			}
			out = append(out, &schema.Message{Role: schema.User, MultiContent: parts})
		}
	}
	return out
}
