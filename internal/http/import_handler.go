package httpapi

import (
	"fmt"
	"net/http"

	"github.com/MarceloCarneiro100/agenda/internal/service"
	"github.com/MarceloCarneiro100/agenda/internal/store"

	"go.uber.org/zap"
)

// maxImportBytes bounds the accepted CSV upload size.
const maxImportBytes = 10 << 20 // 10 MiB

// ImportHandler serves the CSV import endpoint.
type ImportHandler struct {
	importer service.ImportService
	flashes  *store.FlashStore
	logger   *zap.Logger
}

func NewImportHandler(importer service.ImportService, flashes *store.FlashStore, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{importer: importer, flashes: flashes, logger: logger}
}

func (h *ImportHandler) flash(r *http.Request, flash store.Flash) {
	auth, ok := authFrom(r)
	if !ok {
		return
	}
	if err := h.flashes.Put(r.Context(), auth.SessionID, flash); err != nil {
		h.logger.Warn("flash store failed", zap.Error(err))
	}
}

// Index answers the import page route (rendering lives in the frontend).
func (h *ImportHandler) Index(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	flash, err := h.flashes.Take(r.Context(), auth.SessionID)
	if err != nil {
		h.logger.Warn("flash take failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"page": "importar-csv", "flash": flash}))
}

// ImportCSV replaces the caller's contact set from an uploaded CSV file
// (multipart field "csvFile") and redirects back to the import page with the
// outcome as a flash message.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	auth, _ := authFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("csvFile")
	if err != nil {
		h.flash(r, store.Flash{Errors: []string{"Nenhum arquivo CSV enviado."}})
		http.Redirect(w, r, "/contato/importar-csv", http.StatusFound)
		return
	}
	defer file.Close()

	report, err := h.importer.ImportCSV(r.Context(), auth.Session.AccountID, file)
	if err != nil {
		switch err {
		case service.ErrInvalidFormat, service.ErrNoUsableRows:
			h.flash(r, store.Flash{Errors: []string{err.Error()}})
			http.Redirect(w, r, "/contato/importar-csv", http.StatusFound)
		default:
			h.logger.Error("CSV import failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("erro interno"))
		}
		return
	}

	flash := store.Flash{}
	if report.Imported == 0 {
		// every surviving row failed validation; the previous contact set
		// is already gone at this point (see ImportService)
		flash.Errors = append(flash.Errors, "Nenhum contato importado.")
	} else {
		flash.Success = append(flash.Success,
			fmt.Sprintf("%d contato(s) importado(s) com sucesso.", report.Imported))
	}
	if n := len(report.Errors); n > 0 {
		flash.Errors = append(flash.Errors, fmt.Sprintf("%d linha(s) com erro de validação.", n))
	}

	h.flash(r, flash)
	http.Redirect(w, r, "/contato/importar-csv", http.StatusFound)
}
