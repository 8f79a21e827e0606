package handlers

import (
	"net/http"

	"medlink-backend/internal/models"
	"medlink-backend/internal/store"
	"medlink-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	store store.Store
}

// REGISTER
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput

	// 1. Validasi Input JSON
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", err.Error())
		return
	}

	// 2. Hash Password (store cuma pegang hash opaque, tidak pernah plaintext)
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal memproses password", nil)
		return
	}

	// 3. Simpan ke Store (duplikat email ditolak di sini, sebelum ada yang tertulis)
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

	// 4. Sukses
	utils.APIResponse(c, http.StatusCreated, true, "Registrasi Berhasil! Silakan Login.", user)
}

// LOGIN
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput

	// 1. Validasi Input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Input tidak valid", nil)
		return
	}

	// 2. Cari User berdasarkan Email (absen = kredensial salah, bukan error)
	user, err := h.store.Users().FindByEmail(input.Email)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal membaca data user", nil)
		return
	}
	if user == nil || !utils.CheckPassword(input.Password, user.PasswordHash) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Email atau Password salah", nil)
		return
	}

	// 3. Generate JWT Token
	token, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Gagal generate token", nil)
		return
	}

	// 4. Sukses & Kirim Token
	utils.APIResponse(c, http.StatusOK, true, "Login Berhasil", gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
