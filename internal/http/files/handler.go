package files

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/encoding"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/auth"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
)

type Handler struct {
	fileSvc   *edifile.Service
	importSvc *importer.Service
	exportSvc *export.Service
	maxUpload int64
}

func NewHandler(fileSvc *edifile.Service, importSvc *importer.Service, exportSvc *export.Service, maxUpload int64) *Handler {
	return &Handler{
		fileSvc:   fileSvc,
		importSvc: importSvc,
		exportSvc: exportSvc,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.Get("/{id}/errors", h.listErrors)
	r.Get("/{id}/x12", h.x12)
}

func (h *Handler) ErrorRoutes(r chi.Router) {
	r.Patch("/{id}/resolve", h.resolveError)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	out, err := h.importSvc.Process(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, encoding.ErrTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		slog.Error("failed to process file", "name", header.Filename, "error", err)
		http.Error(w, "failed to process file", http.StatusInternalServerError)

		return
	}

	slog.Info("file processed",
		"id", out.FileID,
		"name", header.Filename,
		"type", out.Analysis.Transaction.Type,
		"valid", out.Analysis.Validation.IsValid,
		"by", auth.Subject(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toUploadResponse(header.Filename, out)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := edifile.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(edifile.Status(s))
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.FileType = new(s)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	files, err := h.fileSvc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if files == nil {
		files = []*edifile.File{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(files); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	d, err := h.fileSvc.Get(r.Context(), id)
	if err != nil {
		writeLookupError(w, err, "file not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(d); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateStatusRequest struct {
	Status edifile.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.fileSvc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, edifile.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeLookupError(w, err, "file not found")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listErrors(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	errs, err := h.fileSvc.ListErrors(r.Context(), edifile.ErrorFilter{
		FileID:     &id,
		Unresolved: r.URL.Query().Get("unresolved") == "true",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if errs == nil {
		errs = []*edifile.Error{}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(errs); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) resolveError(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.fileSvc.ResolveError(r.Context(), id); err != nil {
		writeLookupError(w, err, "unresolved error not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) x12(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	text, err := h.exportSvc.X12(r.Context(), id)
	if err != nil {
		if errors.Is(err, export.ErrNoTransaction) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		writeLookupError(w, err, "file not found")

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func writeLookupError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, edifile.ErrNotFound) {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}

	slog.Error("request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
