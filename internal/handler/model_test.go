package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/handler"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelInfo(t *testing.T) {
	t.Parallel()

	m, err := model.Load("../model/testdata/forest.json")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/model", handler.NewModelHandler(m).Info)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/model", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"name": "phishing-url-forest-test",
		"version": "test-1",
		"kind": "random_forest",
		"classes": [0, 1],
		"features": 3
	}`, w.Body.String())
}
