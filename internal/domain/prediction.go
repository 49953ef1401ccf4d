package domain

import "encoding/json"

// Labels returned to clients.
const (
	LabelPhishing   = "Phishing"
	LabelLegitimate = "Legitimate"
)

// PredictRequest is the body of POST /predict and POST /features. URL is
// kept raw so that a missing key, null and non-string values can be told
// apart.
type PredictRequest struct {
	URL json.RawMessage `json:"url"`
}

// BatchRequest is the body of POST /predict/batch.
type BatchRequest struct {
	URLs []string `json:"urls"`
}

// Prediction is the scoring result for one URL. Fields are declared in
// alphabetical order so the JSON keys come out sorted.
type Prediction struct {
	Confidence float64 `json:"confidence"`
	Prediction string  `json:"prediction"`
	URL        string  `json:"url"`
}

// BatchItem is one entry of a batch response: either a prediction or an
// error for that URL.
type BatchItem struct {
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
	Prediction string   `json:"prediction,omitempty"`
	URL        string   `json:"url"`
}

// BatchResponse holds batch results in request order.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
