package ai

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Role tags a chat message for the downstream provider.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// 多模态内容片段类型。
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// Part is one element of a multimodal message content list.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries either an http(s) URL or a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart 构造文本片段。
func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

// ImagePart 构造图片片段。
func ImagePart(url string) Part {
	return Part{Type: PartImageURL, ImageURL: &ImageURL{URL: url}}
}

// Message is a role-tagged chat message. When Parts is non-empty the content is
// sent as a list, otherwise Text is sent as a plain string.
type Message struct {
	Role  Role
	Text  string
	Parts []Part
}

// SystemMessage 构造系统消息。
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

// UserMessage 构造纯文本用户消息。
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// UserVisionMessage 构造 [文本, 图片] 两段式用户消息。
func UserVisionMessage(text, imageURL string) Message {
	return Message{Role: RoleUser, Parts: []Part{TextPart(text), ImagePart(imageURL)}}
}

// HasImage reports whether the message carries an image part.
func (m Message) HasImage() bool {
	for _, p := range m.Parts {
		if p.Type == PartImageURL {
			return true
		}
	}
	return false
}

type wireMessage struct {
	Role    Role `json:"role"`
	Content any  `json:"content"`
}

// MarshalJSON renders the OpenAI-compatible wire form.
func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(wireMessage{Role: m.Role, Content: m.Parts})
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: m.Text})
}

// Request is the provider-neutral chat completion payload.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

// HasImage reports whether any message in the request carries an image.
func (r Request) HasImage() bool {
	for _, m := range r.Messages {
		if m.HasImage() {
			return true
		}
	}
	return false
}

// Completion is the normalized provider answer.
type Completion struct {
	Text  string
	Model string
}

// ErrMissingAPIKey is returned before any I/O when no key is configured.
var ErrMissingAPIKey = errors.New("ai: api key not configured")

// UpstreamError 下游接口返回非 2xx 状态。Body 保留原始响应文本。
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s responded with status %d: %s", e.Provider, e.StatusCode, e.Body)
}
