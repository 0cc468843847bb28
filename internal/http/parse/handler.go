package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/compare"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/encoding"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
)

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/parse", h.parse)
	r.Post("/compare", h.compare)
}

type parseResponse struct {
	Charset string `json:"charset"`
	*importer.Analysis
}

type compareResponse struct {
	Base  string       `json:"base"`
	Other string       `json:"other"`
	Diff  compare.Diff `json:"diff"`
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	a, charset, err := h.svc.AnalyzeReader(r.Body)
	if err != nil {
		writeReadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(parseResponse{Charset: charset, Analysis: a}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	base, baseName, err := h.analyzePart(r, "base")
	if err != nil {
		writeReadError(w, err)
		return
	}

	other, otherName, err := h.analyzePart(r, "other")
	if err != nil {
		writeReadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(compareResponse{
		Base:  baseName,
		Other: otherName,
		Diff:  compare.Compare(base.Extraction, other.Extraction),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var errMissingPart = errors.New("missing form file")

func (h *Handler) analyzePart(r *http.Request, field string) (*importer.Analysis, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", errMissingPart, field)
	}
	defer file.Close()

	a, _, err := h.svc.AnalyzeReader(file)
	if err != nil {
		return nil, "", err
	}

	return a, header.Filename, nil
}

func writeReadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, encoding.ErrTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	case errors.Is(err, errMissingPart):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "failed to read content", http.StatusBadRequest)
	}
}
