package payers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.directory)
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

func (h *Handler) directory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.svc.Directory()); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type suggestResponse struct {
	Identifier string     `json:"identifier"`
	Payer      *x12.Payer `json:"payer"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")
	if identifier == "" {
		http.Error(w, "identifier query parameter is required", http.StatusBadRequest)
		return
	}

	payer, err := h.svc.Suggest(r.Context(), identifier)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		Identifier: identifier,
		Payer:      payer,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	Identifier string `json:"identifier"`
	PayerID    string `json:"payerId"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.Identifier, req.PayerID); err != nil {
		if errors.Is(err, matching.ErrEmptyIdentifier) || errors.Is(err, matching.ErrUnknownPayer) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}
