// Package api exposes the resolver over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	stderrors "loan-clarity-resolver/internal/common/errors"
	"loan-clarity-resolver/internal/common/logger"
	"loan-clarity-resolver/internal/dialog"
	"loan-clarity-resolver/internal/models"
)

// Resolver is the dialog service surface the handlers need.
type Resolver interface {
	Resolve(ctx context.Context, userID, conversationID, utterance string) (*dialog.Resolution, error)
	Profile(ctx context.Context, userID string) (models.LoanProfile, error)
}

// Pinger reports backing-store health for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	resolver Resolver
	logger   logger.Logger
	pingers  []Pinger
}

func NewHandler(resolver Resolver, log logger.Logger, pingers ...Pinger) *Handler {
	return &Handler{resolver: resolver, logger: log, pingers: pingers}
}

// Router wires all routes onto a fresh mux router.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/chat/resolve", h.handleResolve).Methods(http.MethodPost)
	r.HandleFunc("/api/profile/{user_id}", h.handleProfile).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

type resolveRequest struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type resolveResponse struct {
	ConversationID string             `json:"conversation_id"`
	Resolution     *dialog.Resolution `json:"resolution"`
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, stderrors.NewInvalidRequestError("request body must be valid JSON"))
		return
	}
	if req.UserID == "" {
		h.writeError(w, stderrors.NewInvalidRequestError("user_id is required"))
		return
	}
	if req.Message == "" {
		h.writeError(w, stderrors.NewInvalidRequestError("message is required"))
		return
	}
	// A fresh conversation gets its id minted server-side; the client
	// echoes it back on subsequent turns to stay in the same dialog.
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	resolution, err := h.resolver.Resolve(r.Context(), req.UserID, req.ConversationID, req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resolveResponse{
		ConversationID: req.ConversationID,
		Resolution:     resolution,
	})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	if userID == "" {
		h.writeError(w, stderrors.NewInvalidRequestError("user_id is required"))
		return
	}

	p, err := h.resolver.Profile(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, p := range h.pingers {
		if err := p.Ping(r.Context()); err != nil {
			h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("failed to encode response", nil)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	se, ok := err.(*stderrors.StandardError)
	if !ok {
		h.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": map[string]string{"code": "INTERNAL", "message": err.Error()},
		})
		return
	}
	h.writeJSON(w, statusFor(se.Code), map[string]interface{}{"error": se})
}

func statusFor(code stderrors.ErrorCode) int {
	switch code {
	case stderrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case stderrors.ErrCodeGatewayRejected:
		return http.StatusBadGateway
	case stderrors.ErrCodeGatewayUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
