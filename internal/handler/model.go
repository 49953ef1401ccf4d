package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/phishing-detector/internal/model"
)

// ModelSource exposes the loaded model's metadata.
type ModelSource interface {
	Metadata() model.Metadata
}

// ModelHandler reports which model is serving.
type ModelHandler struct {
	source ModelSource
}

// NewModelHandler creates a ModelHandler.
func NewModelHandler(source ModelSource) *ModelHandler {
	return &ModelHandler{source: source}
}

// Info returns the model metadata.
func (h *ModelHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.source.Metadata())
}
