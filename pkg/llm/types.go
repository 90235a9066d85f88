package llm

// Message represents a chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat constrains the shape of the model's output. The only
// supported type is "json_object", which instructs OpenAI-compatible
// services to emit a single valid JSON object.
type ResponseFormat struct {
	Type string `json:"type"`
}

// JSONObject requests strict-JSON output from the model.
func JSONObject() *ResponseFormat {
	return &ResponseFormat{Type: "json_object"}
}

// Response represents a complete response from an LLM provider.
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Usage tracks token consumption for a request/response pair.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
