package handlers

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/Laisky/errors/v2"
	"go.uber.org/zap"

	"github.com/BorisDmv/my-blog/internal/assistant"
)

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Content string `json:"content"`
}

// GenerateContent drafts post content for the submitted topic. The topic is
// read from a JSON body or, for plain form posts, from the prompt field.
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid body")
			return
		}
	} else {
		req.Prompt = r.PostFormValue("prompt")
	}

	ctx := r.Context()
	if h.generateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.generateTimeout)
		defer cancel()
	}

	content, err := h.drafter.Generate(ctx, req.Prompt)
	if err != nil {
		if errors.Is(err, assistant.ErrNoContent) {
			h.logger.Warn("draft assistant returned no content", zap.String("prompt", req.Prompt))
			respondError(w, http.StatusInternalServerError, "No content generated")
			return
		}
		h.logger.Error("draft assistant failed", zap.String("prompt", req.Prompt), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	respondJSON(w, http.StatusOK, GenerateResponse{Content: content})
}
