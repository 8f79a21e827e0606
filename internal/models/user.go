package models

import "time"

// Role adalah peran akun di klinik. Closed set, jangan tambah nilai lain
// tanpa update constraint di store.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleDoctor    Role = "doctor"
	RoleAssistant Role = "assistant"
)

// Valid mengecek apakah role termasuk himpunan yang diizinkan
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleDoctor, RoleAssistant:
		return true
	}
	return false
}

// User merepresentasikan tabel 'users' di database
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // json:"-" artinya hash TIDAK PERNAH dikirim balik ke frontend
	Role         Role      `gorm:"size:20;not null;check:role IN ('owner','doctor','assistant')" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserInput adalah input untuk store (hash sudah jadi, bukan password mentah).
// Hashing password urusan layer luar (handler), store cuma simpan hash opaque.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// Struct untuk menangkap Input Register dari user
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required,oneof=owner doctor assistant"`
}

// Struct untuk menangkap Input Login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
