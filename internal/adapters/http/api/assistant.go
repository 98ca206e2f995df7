package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/staffboard/internal/domain/model"
)

const reportFilename = "staffing-report.pdf"

// AssistantDependencies defines the uncached remote functions.
type AssistantDependencies interface {
	Chat(ctx context.Context, message string) (model.ChatReply, error)
	Report(ctx context.Context) ([]byte, error)
}

// AssistantHandler handles the chat and report pass-through endpoints.
type AssistantHandler struct {
	deps AssistantDependencies
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(deps AssistantDependencies) *AssistantHandler {
	return &AssistantHandler{deps: deps}
}

// HandleChat handles POST /chat.
func (h *AssistantHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	reply, err := h.deps.Chat(r.Context(), req.Message)
	respond(w, reply, err)
}

// HandleReport handles GET /report and streams the PDF as received.
func (h *AssistantHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.deps.Report(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
