package httpapi

import (
	"net/http"
	"os"

	"github.com/MarceloCarneiro100/agenda/internal/service"
	"github.com/MarceloCarneiro100/agenda/internal/store"

	"go.uber.org/zap"
)

// ExportHandler serves the CSV, PDF and XLSX downloads.
type ExportHandler struct {
	exporter service.ExportService
	flashes  *store.FlashStore
	logger   *zap.Logger
}

func NewExportHandler(exporter service.ExportService, flashes *store.FlashStore, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exporter: exporter, flashes: flashes, logger: logger}
}

func (h *ExportHandler) flash(r *http.Request, flash store.Flash) {
	auth, ok := authFrom(r)
	if !ok {
		return
	}
	if err := h.flashes.Put(r.Context(), auth.SessionID, flash); err != nil {
		h.logger.Warn("flash store failed", zap.Error(err))
	}
}

// CSV streams every contact as a quoted CSV attachment.
// An empty contact set is a 204, never an empty file.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	out, err := h.exporter.CSV(r.Context(), auth.Session.AccountID)
	if err != nil {
		if err == service.ErrNoContacts {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logger.Error("CSV export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.csv"`)
	_, _ = w.Write(out)
}

// PDF renders the filtered table document and streams it.
// Query parameters: tipo (todos|pagina), q, ordem, pagina, limite.
func (h *ExportHandler) PDF(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)
	query := r.URL.Query()

	path, err := h.exporter.PDF(r.Context(), auth.Session.AccountID, service.PDFQuery{
		Mode: query.Get("tipo"),
		Search: service.SearchQuery{
			Term:  query.Get("q"),
			Order: query.Get("ordem"),
			Page:  parseInt(query.Get("pagina"), service.DefaultPage),
			Limit: parseInt(query.Get("limite"), service.DefaultLimit),
		},
	})
	if err != nil {
		switch err {
		case service.ErrInvalidExportMode, service.ErrNoContacts:
			h.flash(r, store.Flash{Errors: []string{err.Error()}})
			http.Redirect(w, r, "/", http.StatusFound)
		default:
			h.logger.Error("PDF export failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		}
		return
	}
	// the rendered file is transient; drop it once streamed
	defer func() {
		if err := os.Remove(path); err != nil {
			h.logger.Warn("failed to remove export file", zap.String("path", path), zap.Error(err))
		}
	}()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.pdf"`)
	http.ServeFile(w, r, path)
}

// XLSX streams every contact as a spreadsheet attachment.
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	out, err := h.exporter.XLSX(r.Context(), auth.Session.AccountID)
	if err != nil {
		if err == service.ErrNoContacts {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.logger.Error("XLSX export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.xlsx"`)
	_, _ = w.Write(out)
}
