package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/poker-advisor/backend/internal/model/profile"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/ai"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/document"
)

// ErrInvalidInput wraps every client-side validation failure.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidImage   = fmt.Errorf("%w: image must be a base64 image data URL or an http(s) URL", ErrInvalidInput)
	ErrInvalidPDF     = fmt.Errorf("%w: pdf must be a base64 application/pdf data URL", ErrInvalidInput)
	ErrChatRequired   = fmt.Errorf("%w: chat is required", ErrInvalidInput)
	ErrScreenRequired = fmt.Errorf("%w: screen is required", ErrInvalidInput)
	ErrInvalidScreen  = fmt.Errorf("%w: screen must be a base64 image data URL or an http(s) URL", ErrInvalidInput)
)

const bodyLogLimit = 512

// Models 文本模型与视觉模型。
type Models struct {
	Text   string
	Vision string
}

// Options tune the payload sent downstream.
type Options struct {
	Models      Models
	Temperature float64
	MaxTokens   int
}

// Input is one chat exchange as received from the client.
type Input struct {
	Message string
	Image   string
	PDF     string
}

// Service turns client input into a single downstream completion.
type Service struct {
	completer ai.Completer
	profiles  profile.Store
	opts      Options
	logger    *zap.Logger
}

// NewService creates the advisor service.
func NewService(completer ai.Completer, profiles profile.Store, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		completer: completer,
		profiles:  profiles,
		opts:      opts,
		logger:    logger.Named("advisor"),
	}
}

// Provider returns the downstream provider name.
func (s *Service) Provider() string {
	return s.completer.Name()
}

// SelectModel 有图片时使用视觉模型，否则使用文本模型。
func (s *Service) SelectModel(hasImage bool) string {
	if hasImage {
		return s.opts.Models.Vision
	}
	return s.opts.Models.Text
}

// BuildRequest assembles the role-tagged payload for the given profile.
func (s *Service) BuildRequest(p profile.Profile, in Input) (ai.Request, error) {
	text := strings.TrimSpace(in.Message)
	if text == "" {
		text = p.DefaultMessage
	}

	if pdfURL := strings.TrimSpace(in.PDF); pdfURL != "" {
		docText, err := document.ExtractPDFDataURL(pdfURL)
		if err != nil {
			return ai.Request{}, fmt.Errorf("%w (%v)", ErrInvalidPDF, err)
		}
		text = text + "\n\nDocumento allegato:\n" + docText
	}

	image := strings.TrimSpace(in.Image)
	if image != "" && !document.IsImageRef(image) {
		return ai.Request{}, ErrInvalidImage
	}

	user := ai.UserMessage(text)
	if image != "" {
		user = ai.UserVisionMessage(text, image)
	}

	temperature := s.opts.Temperature
	maxTokens := s.opts.MaxTokens
	req := ai.Request{
		Model:       s.SelectModel(image != ""),
		Messages:    []ai.Message{ai.SystemMessage(p.SystemPrompt), user},
		Temperature: &temperature,
	}
	if maxTokens > 0 {
		req.MaxTokens = &maxTokens
	}
	return req, nil
}

// Ask answers a PokerBot chat message, optionally with an image or a PDF.
func (s *Service) Ask(ctx context.Context, in Input) (string, error) {
	p, err := s.profile(profile.PokerBotID)
	if err != nil {
		return "", err
	}

	req, err := s.BuildRequest(p, in)
	if err != nil {
		return "", err
	}

	return s.complete(ctx, p, req)
}

// Advise 分析截图与局面描述，始终使用视觉模型。
func (s *Service) Advise(ctx context.Context, chat, screen string) (string, error) {
	chat = strings.TrimSpace(chat)
	if chat == "" {
		return "", ErrChatRequired
	}
	screen = strings.TrimSpace(screen)
	if screen == "" {
		return "", ErrScreenRequired
	}
	if !document.IsImageRef(screen) {
		return "", ErrInvalidScreen
	}

	p, err := s.profile(profile.AnalystID)
	if err != nil {
		return "", err
	}

	req, err := s.BuildRequest(p, Input{
		Message: "Analizza la seguente situazione di poker:\n\nChat: " + chat,
		Image:   screen,
	})
	if err != nil {
		return "", err
	}

	return s.complete(ctx, p, req)
}

func (s *Service) profile(id string) (profile.Profile, error) {
	p, err := s.profiles.FindByID(id)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("load advisor: %w", err)
	}
	return p, nil
}

func (s *Service) complete(ctx context.Context, p profile.Profile, req ai.Request) (string, error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("exchange_id", uuid.NewString()),
		zap.String("provider", s.completer.Name()),
		zap.String("profile", p.ID),
		zap.String("model", req.Model),
		zap.Bool("image", req.HasImage()),
	}

	completion, err := s.completer.Complete(ctx, req)
	fields = append(fields, zap.Duration("duration", time.Since(start)))
	if err != nil {
		var upErr *ai.UpstreamError
		switch {
		case errors.Is(err, ai.ErrMissingAPIKey):
			s.logger.Error("api key not configured", fields...)
		case errors.As(err, &upErr):
			s.logger.Warn("provider returned error", append(fields,
				zap.Int("status", upErr.StatusCode),
				zap.String("body", truncate(upErr.Body, bodyLogLimit)))...)
		default:
			s.logger.Error("completion failed", append(fields, zap.Error(err))...)
		}
		return "", fmt.Errorf("complete %s: %w", p.ID, err)
	}

	// 只替换空字符串，空白内容原样返回
	text := completion.Text
	if text == "" {
		text = p.Fallback
	}

	s.logger.Info("completion received", append(fields, zap.Int("length", len(text)))...)
	return text, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
