package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	chatModel "github.com/zhouzirui/poker-advisor/backend/internal/model/chat"
)

// Responder 写出 JSON 响应，编码失败记录到 zap。零值可用，此时不记录日志。
type Responder struct {
	logger *zap.Logger
}

// NewResponder 创建响应写入器
func NewResponder(logger *zap.Logger) Responder {
	if logger == nil {
		return Responder{}
	}
	return Responder{logger: logger.Named("response")}
}

// JSON 发送JSON响应
func (rs Responder) JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && rs.logger != nil {
		rs.logger.Error("failed to encode response", zap.Int("status", status), zap.Error(err))
	}
}

// Error 发送 {"error","details"} 错误响应，details 为空时省略。
func (rs Responder) Error(w http.ResponseWriter, status int, message, details string) {
	rs.JSON(w, status, chatModel.ErrorResponse{Error: message, Details: details})
}
