package chat

// Response 成功时返回模型文本。
type Response struct {
	Text string `json:"text"`
}

// AdviceResponse 截图分析结果。
type AdviceResponse struct {
	Advice string `json:"advice"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
