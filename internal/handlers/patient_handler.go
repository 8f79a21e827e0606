package handlers

import (
	"net/http"

	"medlink-backend/internal/models"
	"medlink-backend/internal/store"
	"medlink-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	store store.Store
}

// List mengambil semua pasien, terbaru dulu
func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.store.Patients().List()
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca data pasien", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "Daftar Pasien", patients)
}

// Create mendaftarkan pasien baru (id & created_at diisi store)
func (h *PatientHandler) Create(c *gin.Context) {
	var input models.CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input Data Pasien Salah", err.Error())
		return
	}

	patient, err := h.store.Patients().Create(input)
	if err != nil {
		storeError(c, err, "Pasien tidak ditemukan")
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Data Pasien Berhasil Ditambahkan", patient)
}

// Detail mengambil satu pasien lengkap dengan riwayat kunjungannya
func (h *PatientHandler) Detail(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "ID pasien tidak valid", nil)
		return
	}

	patient, err := h.store.Patients().FindByID(id)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca data pasien", nil)
		return
	}
	if patient == nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Pasien tidak ditemukan", nil)
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

	utils.APIResponse(c, http.StatusOK, true, "Detail Pasien", gin.H{
		"patient": patient,
		"history": history,
	})
}

// Update menerapkan PATCH parsial: field absen dibiarkan,
// null eksplisit mengosongkan field opsional
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "ID pasien tidak valid", nil)
		return
	}

	var input models.UpdatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	patient, err := h.store.Patients().Update(id, input)
	if err != nil {
		storeError(c, err, "Pasien tidak ditemukan")
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Data Pasien Berhasil Diupdate", patient)
}

// Delete menghapus pasien beserta seluruh riwayatnya (cascade di store)
func (h *PatientHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "ID pasien tidak valid", nil)
		return
	}

	if err := h.store.Patients().Delete(id); err != nil {
		storeError(c, err, "Pasien tidak ditemukan")
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Data Pasien Berhasil Dihapus", nil)
}
