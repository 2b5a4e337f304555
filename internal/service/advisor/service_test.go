package advisor

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zhouzirui/poker-advisor/backend/internal/model/profile"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/ai"
)

type fakeCompleter struct {
	requests   []ai.Request
	completion ai.Completion
	err        error
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, req ai.Request) (ai.Completion, error) {
	f.requests = append(f.requests, req)
	return f.completion, f.err
}

func newTestService(t *testing.T, fake *fakeCompleter) *Service {
	t.Helper()
	return NewService(fake, profile.NewMemoryStore(profile.Seed()), Options{
		Models:      Models{Text: "text-model", Vision: "vision-model"},
		Temperature: 0.7,
		MaxTokens:   2048,
	}, zaptest.NewLogger(t))
}

func TestSelectModel(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{})
	assert.Equal(t, "vision-model", svc.SelectModel(true))
	assert.Equal(t, "text-model", svc.SelectModel(false))
}

func TestAskTextOnlyUsesTextModel(t *testing.T) {
	fake := &fakeCompleter{completion: ai.Completion{Text: "Con AK in BTN apri sempre."}}
	svc := newTestService(t, fake)

	text, err := svc.Ask(context.Background(), Input{Message: "AK in bottone?"})
	require.NoError(t, err)
	assert.Equal(t, "Con AK in BTN apri sempre.", text)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "text-model", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, ai.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Text, "PokerBot")
	assert.Equal(t, ai.RoleUser, req.Messages[1].Role)
	assert.Equal(t, "AK in bottone?", req.Messages[1].Text)
	assert.Empty(t, req.Messages[1].Parts)
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.7, *req.Temperature)
	require.NotNil(t, req.MaxTokens)
	assert.Equal(t, 2048, *req.MaxTokens)
}

func TestAskWithImageUsesVisionModel(t *testing.T) {
	fake := &fakeCompleter{completion: ai.Completion{Text: "Vedo un flop a colore."}}
	svc := newTestService(t, fake)

	image := "data:image/png;base64,iVBORw0KGgo="
	_, err := svc.Ask(context.Background(), Input{Message: "che ne pensi?", Image: image})
	require.NoError(t, err)

	req := fake.requests[0]
	assert.Equal(t, "vision-model", req.Model)
	user := req.Messages[1]
	require.Len(t, user.Parts, 2)
	assert.Equal(t, ai.PartText, user.Parts[0].Type)
	assert.Equal(t, "che ne pensi?", user.Parts[0].Text)
	assert.Equal(t, ai.PartImageURL, user.Parts[1].Type)
	assert.Equal(t, image, user.Parts[1].ImageURL.URL)
}

func TestAskBlankMessageUsesGreeting(t *testing.T) {
	fake := &fakeCompleter{completion: ai.Completion{Text: "Ciao!"}}
	svc := newTestService(t, fake)

	_, err := svc.Ask(context.Background(), Input{Message: "   "})
	require.NoError(t, err)
	assert.Equal(t, "Ciao, sono qui per parlare di poker.", fake.requests[0].Messages[1].Text)
}

func TestAskEmptyCompletionUsesFallback(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{completion: ai.Completion{Text: ""}})

	text, err := svc.Ask(context.Background(), Input{Message: "ciao"})
	require.NoError(t, err)
	assert.Equal(t, "Nessuna risposta generata.", text)
}

func TestAskWhitespaceCompletionReturnedVerbatim(t *testing.T) {
	svc := newTestService(t, &fakeCompleter{completion: ai.Completion{Text: "   "}})

	text, err := svc.Ask(context.Background(), Input{Message: "ciao"})
	require.NoError(t, err)
	assert.Equal(t, "   ", text)
}

func TestAskAppendsPDFText(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "document", "testdata", "hand_note.pdf"))
	require.NoError(t, err)

	fake := &fakeCompleter{completion: ai.Completion{Text: "Buona giocata."}}
	svc := newTestService(t, fake)

	pdfURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(raw)
	_, err = svc.Ask(context.Background(), Input{Message: "Com'è la mano?", PDF: pdfURL})
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, "text-model", req.Model)
	assert.Equal(t, "Com'è la mano?\n\nDocumento allegato:\nBTN raise", req.Messages[1].Text)
	assert.Empty(t, req.Messages[1].Parts)
}

func TestAskRejectsInvalidImage(t *testing.T) {
	fake := &fakeCompleter{}
	svc := newTestService(t, fake)

	_, err := svc.Ask(context.Background(), Input{Message: "x", Image: "C:\\screens\\hand.png"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.requests)
}

func TestAskRejectsInvalidPDF(t *testing.T) {
	fake := &fakeCompleter{}
	svc := newTestService(t, fake)

	notPDF := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("plain text"))
	_, err := svc.Ask(context.Background(), Input{Message: "x", PDF: notPDF})
	require.ErrorIs(t, err, ErrInvalidPDF)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.requests)
}

func TestAskPropagatesProviderErrors(t *testing.T) {
	upstream := &ai.UpstreamError{Provider: "fake", StatusCode: 401, Body: "No auth credentials found"}
	svc := newTestService(t, &fakeCompleter{err: upstream})

	_, err := svc.Ask(context.Background(), Input{Message: "x"})
	var upErr *ai.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "No auth credentials found", upErr.Body)

	svc = newTestService(t, &fakeCompleter{err: ai.ErrMissingAPIKey})
	_, err = svc.Ask(context.Background(), Input{Message: "x"})
	assert.ErrorIs(t, err, ai.ErrMissingAPIKey)
}

func TestAskMissingProfile(t *testing.T) {
	fake := &fakeCompleter{}
	svc := NewService(fake, profile.NewMemoryStore(nil), Options{
		Models: Models{Text: "text-model", Vision: "vision-model"},
	}, zaptest.NewLogger(t))

	_, err := svc.Ask(context.Background(), Input{Message: "ciao"})
	require.ErrorIs(t, err, profile.ErrNotFound)
	assert.Empty(t, fake.requests)
}

func TestAdviseValidation(t *testing.T) {
	tests := []struct {
		name   string
		chat   string
		screen string
		want   error
	}{
		{"missing chat", "  ", "https://example.com/t.png", ErrChatRequired},
		{"missing screen", "BTN vs BB", "", ErrScreenRequired},
		{"screen not an image", "BTN vs BB", "data:text/plain;base64,aGk=", ErrInvalidScreen},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCompleter{}
			_, err := newTestService(t, fake).Advise(context.Background(), tc.chat, tc.screen)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, fake.requests)
		})
	}
}

func TestAdviseSendsScreenshotToVisionModel(t *testing.T) {
	fake := &fakeCompleter{}
	svc := newTestService(t, fake)

	advice, err := svc.Advise(context.Background(), "Sono in SB con 20bb", "https://example.com/table.png")
	require.NoError(t, err)
	assert.Equal(t, "Nessun consiglio disponibile", advice)

	req := fake.requests[0]
	assert.Equal(t, "vision-model", req.Model)
	assert.Contains(t, req.Messages[0].Text, "screenshot")
	user := req.Messages[1]
	require.Len(t, user.Parts, 2)
	assert.Contains(t, user.Parts[0].Text, "Chat: Sono in SB con 20bb")
	assert.Equal(t, "https://example.com/table.png", user.Parts[1].ImageURL.URL)
}
