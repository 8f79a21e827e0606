package handlers

import (
	"net/http"

	"medlink-backend/internal/models"
	"medlink-backend/internal/store"
	"medlink-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	store store.Store
}

// List mengambil daftar akun, bisa difilter ?role=doctor dst.
func (h *UserHandler) List(c *gin.Context) {
	role := models.Role(c.Query("role"))

	// Role di luar himpunan tertutup langsung ditolak
	if role != "" && !role.Valid() {
		utils.APIResponse(c, http.StatusBadRequest, false, "Role tidak dikenal", nil)
		return
	}

	users, err := h.store.Users().List(role)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca data user", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Daftar User", users)
}

// Create menambah akun staf. Dipakai owner; jalurnya sama dengan register.
func (h *UserHandler) Create(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal memproses password", nil)
		return
	}

	user, err := h.store.Users().Create(models.CreateUserInput{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
	})
	if err != nil {
		storeError(c, err, "User tidak ditemukan")
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "User Berhasil Ditambahkan", user)
}

// Profile mengambil data user yang sedang login
func (h *UserHandler) Profile(c *gin.Context) {
	// 1. Ambil User ID dari Context (hasil kerja AuthMiddleware)
	userID, exists := c.Get("userID")
	if !exists {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Unauthorized", nil)
		return
	}

	// 2. Cari di Store
	user, err := h.store.Users().FindByID(userID.(uint64))
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca data user", nil)
		return
	}
	if user == nil {
		utils.APIResponse(c, http.StatusNotFound, false, "User tidak ditemukan", nil)
		return
	}

	// 3. Return Data (hash tidak ikut karena json:"-")
	utils.APIResponse(c, http.StatusOK, true, "Data Profile Berhasil Diambil", user)
}
