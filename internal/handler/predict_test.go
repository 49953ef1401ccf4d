package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	infralogger "github.com/jonesrussell/north-cloud/phishing-detector/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/domain"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/handler"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/model"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/predictor"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/telemetry"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testMaxBatch = 5

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, classifier predictor.Classifier) *gin.Engine {
	t.Helper()

	log := infralogger.NewNop()
	svc := predictor.NewService(classifier, telemetry.NewProvider(), log, 2)
	h := handler.NewPredictHandler(svc, log, testMaxBatch)

	r := gin.New()
	r.GET("/", h.Home)
	r.POST("/predict", h.Predict)
	r.POST("/predict/batch", h.PredictBatch)
	r.POST("/features", h.Features)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHome(t *testing.T) {
	t.Parallel()

	r := setupRouter(t, testhelpers.StubClassifier{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Phishing URL Detection API is running", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestPredict_Success(t *testing.T) {
	t.Parallel()

	classifier := new(testhelpers.MockClassifier).ScoreAs(0, 0.912345, 0.087655)
	r := setupRouter(t, classifier)

	w := postJSON(r, "/predict", `{"url": "http://example.com"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"http://example.com","prediction":"Legitimate","confidence":0.9123}`, w.Body.String())
	assert.Equal(t, `{"confidence":0.9123,"prediction":"Legitimate","url":"http://example.com"}`, w.Body.String())
}

func TestPredict_WithModel(t *testing.T) {
	t.Parallel()

	m, err := model.Load("../model/testdata/logistic.json")
	require.NoError(t, err)
	r := setupRouter(t, m)

	w := postJSON(r, "/predict", `{"url": "http://example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Prediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, []string{domain.LabelPhishing, domain.LabelLegitimate}, got.Prediction)
	assert.GreaterOrEqual(t, got.Confidence, 0.0)
	assert.LessOrEqual(t, got.Confidence, 1.0)
	assert.InDelta(t, got.Confidence, float64(int(got.Confidence*1e4+0.5))/1e4, 1e-12)
}

func TestPredict_MissingURL(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"no url key":   `{}`,
		"empty string": `{"url": ""}`,
		"null":         `{"url": null}`,
		"false":        `{"url": false}`,
		"zero":         `{"url": 0}`,
		"empty list":   `{"url": []}`,
		"other keys":   `{"link": "http://example.com"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			classifier := new(testhelpers.MockClassifier)
			r := setupRouter(t, classifier)

			w := postJSON(r, "/predict", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Missing URL"}`, w.Body.String())
			classifier.AssertNotCalled(t, "Predict", mock.Anything)
		})
	}
}

func TestPredict_InternalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed json", body: `{"url": `},
		{name: "not an object", body: `["http://example.com"]`},
		{name: "null body", body: `null`, wantErr: "request body must be a JSON object"},
		{name: "empty body", body: ``},
		{name: "non-string url", body: `{"url": 42}`, wantErr: "url must be a string"},
		{name: "object url", body: `{"url": {"href": "x"}}`, wantErr: "url must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := setupRouter(t, testhelpers.StubClassifier{})
			w := postJSON(r, "/predict", tt.body)

			require.Equal(t, http.StatusInternalServerError, w.Code)

			var body domain.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body.Error)
			}
		})
	}
}

func TestPredict_ClassifierFailure(t *testing.T) {
	t.Parallel()

	classifier := new(testhelpers.MockClassifier)
	classifier.On("Predict", mock.Anything).Return(0, errors.New("model exploded"))
	r := setupRouter(t, classifier)

	w := postJSON(r, "/predict", `{"url": "http://example.com"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"predict: model exploded"}`, w.Body.String())
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	r := setupRouter(t, testhelpers.StubClassifier{})

	w := postJSON(r, "/features", `{"url": "https://www.example.co.uk/login"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"url": "https://www.example.co.uk/login",
		"url_length": 31,
		"num_special_chars": 7,
		"subdomain": "www",
		"domain": "example",
		"suffix": "co.uk",
		"is_ip": 0,
		"subdomain_length": 3,
		"has_https": 1
	}`, w.Body.String())
}

func TestFeatures_AbsentPartsAreNull(t *testing.T) {
	t.Parallel()

	r := setupRouter(t, testhelpers.StubClassifier{})

	w := postJSON(r, "/features", `{"url": "http://"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"subdomain":null`)
	assert.Contains(t, w.Body.String(), `"domain":null`)
	assert.Contains(t, w.Body.String(), `"suffix":null`)

	missing := postJSON(r, "/features", `{}`)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}

func TestPredictBatch(t *testing.T) {
	t.Parallel()

	r := setupRouter(t, testhelpers.StubClassifier{})

	w := postJSON(r, "/predict/batch", `{"urls": ["http://10.1.1.1/x", "", "https://example.com"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.JSONEq(t, `{"results": [
		{"url": "http://10.1.1.1/x", "prediction": "Phishing", "confidence": 0.9},
		{"url": "", "error": "Missing URL"},
		{"url": "https://example.com", "prediction": "Legitimate", "confidence": 0.8}
	]}`, w.Body.String())
}

func TestPredictBatch_Rejects(t *testing.T) {
	t.Parallel()

	urls, err := json.Marshal(map[string][]string{
		"urls": {"a.com", "b.com", "c.com", "d.com", "e.com", "f.com"},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "empty list", body: `{"urls": []}`, wantCode: http.StatusBadRequest, wantErr: "Missing URLs"},
		{name: "missing key", body: `{}`, wantCode: http.StatusBadRequest, wantErr: "Missing URLs"},
		{
			name:     "too many",
			body:     string(urls),
			wantCode: http.StatusBadRequest,
			wantErr:  "Too many URLs: 6 exceeds the limit of 5",
		},
		{name: "malformed", body: `{"urls": [1, 2]}`, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := setupRouter(t, testhelpers.StubClassifier{})
			w := postJSON(r, "/predict/batch", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)

			var body domain.ErrorResponse
			require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body))
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body.Error)
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}
