package chat

import (
	"errors"
	"net/http"

	chatModel "github.com/zhouzirui/poker-advisor/backend/internal/model/chat"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/advisor"
	"github.com/zhouzirui/poker-advisor/backend/internal/service/ai"
)

// 返回给前端的错误文案（意大利语界面）。
const (
	MsgMissingAPIKey   = "API key mancante"
	MsgProviderError   = "Errore dalla AI"
	MsgInvalidRequest  = "Richiesta non valida"
	MsgRequestTooLarge = "Richiesta troppo grande"
	MsgInternalError   = "Errore interno"
)

// MapError converts a chat exchange failure into a status and response body.
func MapError(err error) (int, chatModel.ErrorResponse) {
	var upErr *ai.UpstreamError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, ai.ErrMissingAPIKey):
		return http.StatusInternalServerError, chatModel.ErrorResponse{Error: MsgMissingAPIKey}
	case errors.As(err, &upErr):
		return http.StatusInternalServerError, chatModel.ErrorResponse{Error: MsgProviderError, Details: upErr.Body}
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, chatModel.ErrorResponse{Error: MsgRequestTooLarge}
	case errors.Is(err, advisor.ErrInvalidInput):
		return http.StatusBadRequest, chatModel.ErrorResponse{Error: MsgInvalidRequest, Details: err.Error()}
	default:
		return http.StatusInternalServerError, chatModel.ErrorResponse{Error: MsgInternalError, Details: err.Error()}
	}
}
