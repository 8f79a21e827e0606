package handlers

import (
	"net/http"

	"medlink-backend/internal/models"
	"medlink-backend/internal/store"
	"medlink-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	store store.Store
}

// List mengambil riwayat kunjungan satu pasien, terbaru dulu
func (h *HistoryHandler) List(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "ID pasien tidak valid", nil)
		return
	}

	entries, err := h.store.History().ListByPatient(id)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca riwayat", nil)
		return
	}
	history, err := buildHistoryItems(h.store, entries)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca riwayat", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Riwayat Pasien", history)
}

// Create menambah catatan kunjungan. Pembuat catatan diambil dari token,
// jadi atribusi tidak bisa dipalsukan lewat body.
func (h *HistoryHandler) Create(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "ID pasien tidak valid", nil)
		return
	}

	var input models.CreateHistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	// Kalau body tidak menyebut pembuat, pakai user yang sedang login
	if input.CreatedByUserID == nil {
		if userID, exists := c.Get("userID"); exists {
			uid := userID.(uint64)
			input.CreatedByUserID = &uid
		}
	}

	entry, err := h.store.History().Create(id, input)
	if err != nil {
		storeError(c, err, "Pasien tidak ditemukan")
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Catatan Kunjungan Tersimpan", entry)
}
