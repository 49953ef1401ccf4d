package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	infralogger "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/domain"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/predictor"
)

// homeMessage is the liveness text served on GET /.
const homeMessage = "Phishing URL Detection API is running"

var (
	// errMissingURL is returned when the url field is absent, null or empty.
	errMissingURL = errors.New("Missing URL") //nolint:staticcheck // surfaced verbatim to clients
	// errMissingURLs is returned for a batch request without URLs.
	errMissingURLs = errors.New("Missing URLs") //nolint:staticcheck // surfaced verbatim to clients
	// errURLNotString is returned when url holds a number, object or array.
	errURLNotString = errors.New("url must be a string")
	// errBodyNotObject is returned for a literal null request body.
	errBodyNotObject = errors.New("request body must be a JSON object")
)

// PredictHandler serves the scoring endpoints.
type PredictHandler struct {
	service      *predictor.Service
	logger       infralogger.Logger
	maxBatchSize int
}

// NewPredictHandler creates a PredictHandler with the given dependencies.
func NewPredictHandler(service *predictor.Service, log infralogger.Logger, maxBatchSize int) *PredictHandler {
	return &PredictHandler{
		service:      service,
		logger:       log,
		maxBatchSize: maxBatchSize,
	}
}

// Home answers GET / with a plain-text liveness message.
func (h *PredictHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, homeMessage)
}

// Predict scores the URL in the request body.
func (h *PredictHandler) Predict(c *gin.Context) {
	rawURL, err := bindURL(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	prediction, err := h.service.Predict(c.Request.Context(), rawURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// Features returns the extracted feature vector for the URL in the request body.
func (h *PredictHandler) Features(c *gin.Context) {
	rawURL, err := bindURL(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.service.Features(c.Request.Context(), rawURL))
}

// PredictBatch scores every URL in the request body. Per-URL failures are
// reported inline; the response is 200 whenever the request itself is valid.
func (h *PredictHandler) PredictBatch(c *gin.Context) {
	var req domain.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, err)
		return
	}

	if len(req.URLs) == 0 {
		h.respondError(c, errMissingURLs)
		return
	}
	if len(req.URLs) > h.maxBatchSize {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{
			Error: fmt.Sprintf("Too many URLs: %d exceeds the limit of %d", len(req.URLs), h.maxBatchSize),
		})
		return
	}

	results := h.service.PredictBatch(c.Request.Context(), req.URLs)
	h.logger.Debug("Batch scored", infralogger.Int("urls", len(req.URLs)))
	c.JSON(http.StatusOK, domain.BatchResponse{Results: results})
}

// bindURL decodes the url field. A missing, null or falsy value is
// errMissingURL; any other non-string value is errURLNotString.
func bindURL(c *gin.Context) (string, error) {
	body, err := c.GetRawData()
	if err != nil {
		return "", err
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return "", errBodyNotObject
	}

	var req domain.PredictRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	if len(req.URL) == 0 {
		return "", errMissingURL
	}

	var value any
	if err := json.Unmarshal(req.URL, &value); err != nil {
		return "", err
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return "", errMissingURL
		}
		return v, nil
	case nil:
		return "", errMissingURL
	case bool:
		if !v {
			return "", errMissingURL
		}
	case float64:
		if v == 0 {
			return "", errMissingURL
		}
	case []any:
		if len(v) == 0 {
			return "", errMissingURL
		}
	case map[string]any:
		if len(v) == 0 {
			return "", errMissingURL
		}
	}
	return "", errURLNotString
}

// respondError maps err to a status code: missing input is a 400, all
// else is a 500 carrying the error text.
func (h *PredictHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, errMissingURL) || errors.Is(err, errMissingURLs) || errors.Is(err, predictor.ErrEmptyURL) {
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		infralogger.FromContext(c.Request.Context()).Error("Prediction request failed",
			infralogger.String("path", c.Request.URL.Path),
			infralogger.Error(err),
		)
	}

	c.JSON(status, domain.ErrorResponse{Error: err.Error()})
}
