package server

import (
	"context"
	"errors"
	"net/http"

	"imagerelay/internal/core"

	"github.com/gin-gonic/gin"
)

// generateRequest is the POST /api/generate body.
type generateRequest struct {
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspectRatio"`
}

func (s *Server) generate(c *gin.Context) {
	var request generateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondWithError(c, http.StatusBadRequest, "invalid request body: expected JSON with a string prompt")
		return
	}

	// A client disconnect must not abort an in-flight upstream call.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := s.dispatcher.Dispatch(ctx, core.GenerationRequest{
		Prompt:      request.Prompt,
		ModelID:     request.Model,
		AspectRatio: request.AspectRatio,
	})
	if err != nil {
		respondWithError(c, core.StatusOf(err), core.MessageOf(err))
		return
	}

	respondWithResult(c, result)
}

func respondWithResult(c *gin.Context, result *core.GenerationResult) {
	switch result.Kind {
	case core.ResultImage:
		c.JSON(http.StatusOK, gin.H{
			"image":    result.Image.Data,
			"mimeType": result.Image.MimeType,
			"model":    result.Image.ModelName,
		})
	case core.ResultText:
		c.JSON(http.StatusOK, gin.H{
			"text":    result.Text.Content,
			"message": result.Text.Note,
		})
	case core.ResultError:
		respondWithError(c, http.StatusUnprocessableEntity, result.Error.Message)
	default:
		respondWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}
