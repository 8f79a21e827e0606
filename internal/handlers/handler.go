package handlers

import (
	"errors"
	"net/http"
	"time"

	"medlink-backend/internal/models"
	"medlink-backend/internal/store"
	"medlink-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers memegang semua handler dengan store yang di-inject dari main.
// Tidak ada state global: satu store, dibagikan lewat sini.
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Patient *PatientHandler
	History *HistoryHandler
}

func New(s store.Store) *Handlers {
	return &Handlers{
		Auth:    &AuthHandler{store: s},
		User:    &UserHandler{store: s},
		Patient: &PatientHandler{store: s},
		History: &HistoryHandler{store: s},
	}
}

// storeError menerjemahkan sentinel error store ke response HTTP.
// Error yang tidak dikenal dianggap kegagalan storage (500).
func storeError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		utils.APIResponse(c, http.StatusConflict, false, "Email sudah terdaftar", nil)
	case errors.Is(err, store.ErrInvalidRole):
		utils.APIResponse(c, http.StatusBadRequest, false, "Role tidak dikenal", nil)
	case errors.Is(err, store.ErrMissingField):
		utils.APIResponse(c, http.StatusBadRequest, false, "Field wajib belum diisi", err.Error())
	case errors.Is(err, store.ErrPatientNotFound):
		utils.APIResponse(c, http.StatusNotFound, false, "Pasien tidak ditemukan", nil)
	case errors.Is(err, store.ErrAuthorNotFound):
		utils.APIResponse(c, http.StatusNotFound, false, "User pembuat catatan tidak ditemukan", nil)
	case errors.Is(err, store.ErrNotFound):
		utils.APIResponse(c, http.StatusNotFound, false, notFoundMsg, nil)
	default:
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal menyimpan data", nil)
	}
}

// historyItem adalah bentuk response catatan kunjungan, lengkap dengan
// identitas pembuatnya (null kalau catatan sudah tidak beratribusi).
type historyItem struct {
	ID              uint64       `json:"id"`
	Note            string       `json:"note"`
	CreatedAt       time.Time    `json:"created_at"`
	CreatedByUserID *uint64      `json:"created_by_user_id"`
	CreatedByName   *string      `json:"created_by_name"`
	CreatedByRole   *models.Role `json:"created_by_role"`
}

// buildHistoryItems me-resolve nama+role pembuat tiap catatan untuk dashboard
func buildHistoryItems(s store.Store, entries []models.PatientHistory) ([]historyItem, error) {
	items := make([]historyItem, 0, len(entries))
	for _, entry := range entries {
		item := historyItem{
			ID:              entry.ID,
			Note:            entry.Note,
			CreatedAt:       entry.CreatedAt,
			CreatedByUserID: entry.CreatedByUserID,
		}
		if entry.CreatedByUserID != nil {
			author, err := s.Users().FindByID(*entry.CreatedByUserID)
			if err != nil {
				return nil, err
			}
			if author != nil {
				item.CreatedByName = &author.Name
				item.CreatedByRole = &author.Role
			}
		}
		items = append(items, item)
	}
	return items, nil
}
