package chat

// Request is the body of POST /api/chat-ai. Image and PDF are data URLs;
// Image may also be an http(s) URL.
type Request struct {
	Message string `json:"message"`
	Image   string `json:"image,omitempty"`
	PDF     string `json:"pdf,omitempty"`
}

// AdviceRequest is the body of POST /api/poker-advice.
type AdviceRequest struct {
	Chat   string `json:"chat"`
	Screen string `json:"screen"`
}
