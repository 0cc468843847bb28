package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Format    export.Format   `json:"format"`
	Status    *edifile.Status `json:"status,omitempty"`
	FileType  *string         `json:"type,omitempty"`
	StartDate *time.Time      `json:"startDate,omitempty"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
}

func (req exportRequest) filter() edifile.ListFilter {
	return edifile.ListFilter{
		Status:    req.Status,
		FileType:  req.FileType,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
}

type itemResponse struct {
	ID       uuid.UUID      `json:"id"`
	FileName string         `json:"fileName"`
	Status   edifile.Status `json:"status"`
	Output   string         `json:"output,omitempty"`
	Members  int            `json:"members"`
	Payments int            `json:"payments"`
}

type exportMetadataResponse struct {
	Items   []itemResponse `json:"items"`
	Summary string         `json:"summary"`
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (exportRequest, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return req, false
	}

	if req.Format == "" {
		req.Format = export.FormatX12
	}

	if !req.Format.Valid() {
		http.Error(w, fmt.Sprintf("unknown format %q", req.Format), http.StatusBadRequest)
		return req, false
	}

	return req, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "edi-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), req.filter(), tmpDir, req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := exportMetadataResponse{
		Items:   make([]itemResponse, 0, len(items)),
		Summary: export.Summary(items),
	}

	for _, item := range items {
		out := ""
		if item.Path != "" {
			out = filepath.Base(item.Path)
		}

		resp.Items = append(resp.Items, itemResponse{
			ID:       item.File.ID,
			FileName: item.File.FileName,
			Status:   item.File.Status,
			Output:   out,
			Members:  item.Members,
			Payments: item.Payments,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	tmpDir, err := os.MkdirTemp("", "edi-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	items, err := h.svc.Export(r.Context(), req.filter(), tmpDir, req.Format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "summary.txt"), []byte(export.Summary(items)), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s_%s.zip\"", req.Format, time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
