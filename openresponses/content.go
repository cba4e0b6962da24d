package openresponses

// InputTextContentParam represents a text input to the model
type InputTextContentParam struct {
	Type string `json:"type"` // "input_text"
	Text string `json:"text"`
}

// InputImageContentParam represents an image input to the model
type InputImageContentParam struct {
	Type     string          `json:"type"` // "input_image"
	ImageURL string          `json:"image_url"`
	Detail   ImageDetailEnum `json:"detail,omitempty"`
}

// InputFileContentParam represents a file input to the model
type InputFileContentParam struct {
	Type     string `json:"type"` // "input_file"
	Filename string `json:"filename,omitempty"`
	FileData string `json:"file_data,omitempty"` // base64 encoded
	FileURL  string `json:"file_url,omitempty"`
}

// ContentParam represents a union of input content types
type ContentParam interface{}

// ContentItem is one part of a message item's content. The type tag selects
// which fields are meaningful: output_text carries Text/Annotations/Logprobs,
// refusal carries Refusal.
type ContentItem struct {
	Type        string       `json:"type"` // "output_text" | "refusal"
	Text        string       `json:"text,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Logprobs    []LogProb    `json:"logprobs,omitempty"`
	Refusal     string       `json:"refusal,omitempty"`
}

// SummaryTextContent represents one part of a reasoning summary
type SummaryTextContent struct {
	Type string `json:"type"` // "summary_text"
	Text string `json:"text"`
}

// ReasoningTextContent represents one part of raw reasoning content
type ReasoningTextContent struct {
	Type string `json:"type"` // "reasoning_text"
	Text string `json:"text"`
}

// Annotation represents an annotation on output text. Only the fields for the
// tagged kind are populated (url_citation, file_citation, file_path).
type Annotation struct {
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	Title      string `json:"title,omitempty"`
	FileID     string `json:"file_id,omitempty"`
	Filename   string `json:"filename,omitempty"`
	StartIndex int    `json:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty"`
	Index      int    `json:"index,omitempty"`
}

// LogProb represents log probability information
type LogProb struct {
	Token       string       `json:"token"`
	Logprob     float64      `json:"logprob"`
	Bytes       []int        `json:"bytes,omitempty"`
	TopLogprobs []TopLogProb `json:"top_logprobs,omitempty"`
}

// TopLogProb represents top log probability
type TopLogProb struct {
	Token   string  `json:"token"`
	Logprob float64 `json:"logprob"`
	Bytes   []int   `json:"bytes,omitempty"`
}
