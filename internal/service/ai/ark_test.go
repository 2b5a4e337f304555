package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	gotMessages []*schema.Message
	gotOptions  *model.Options
	reply       *schema.Message
	err         error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.gotMessages = input
	f.gotOptions = model.GetCommonOptions(nil, opts...)
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestArkClientMissingModel(t *testing.T) {
	_, err := NewArkClient(nil).Complete(context.Background(), Request{Model: "ep"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestArkClientOverridesModelAndConvertsParts(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage("Check.", nil)}
	temperature := 0.7
	maxTokens := 512

	completion, err := NewArkClient(fake).Complete(context.Background(), Request{
		Model:       "ep-vision",
		Messages:    []Message{SystemMessage("sys"), UserVisionMessage("mano", "https://img/x.png")},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, "Check.", completion.Text)

	require.NotNil(t, fake.gotOptions.Model)
	assert.Equal(t, "ep-vision", *fake.gotOptions.Model)
	require.NotNil(t, fake.gotOptions.MaxTokens)
	assert.Equal(t, 512, *fake.gotOptions.MaxTokens)

	require.Len(t, fake.gotMessages, 2)
	assert.Equal(t, schema.System, fake.gotMessages[0].Role)
	user := fake.gotMessages[1]
	assert.Equal(t, schema.User, user.Role)
	require.Len(t, user.MultiContent, 2)
	assert.Equal(t, schema.ChatMessagePartTypeText, user.MultiContent[0].Type)
	assert.Equal(t, "https://img/x.png", user.MultiContent[1].ImageURL.URL)
}

func TestArkClientWrapsErrors(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("quota exceeded")}
	_, err := NewArkClient(fake).Complete(context.Background(), Request{Model: "ep", Messages: []Message{UserMessage("u")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}
