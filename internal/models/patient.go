package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Patient merepresentasikan tabel 'patients'.
// Field opsional pakai pointer supaya null di database kebaca sebagai nil.
type Patient struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	DateOfBirth *string   `gorm:"size:20" json:"date_of_birth"` // Format YYYY-MM-DD
	Phone       *string   `gorm:"size:20" json:"phone"`
	Address     *string   `gorm:"type:text" json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreatePatientInput struct {
	Name        string  `json:"name" binding:"required"`
	DateOfBirth *string `json:"date_of_birth"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// NullableString membedakan tiga kondisi field di body PATCH:
// tidak dikirim (Set=false), dikirim null (Set=true Valid=false),
// dan dikirim berisi nilai (Set=true Valid=true).
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, []byte("null")) {
		n.Valid = false
		return nil
	}
	n.Valid = true
	return json.Unmarshal(b, &n.Value)
}

// UpdatePatientInput dipakai PATCH pasien. Name tidak bisa di-null-kan
// karena wajib; field lain boleh dihapus dengan kirim null eksplisit.
type UpdatePatientInput struct {
	Name        *string        `json:"name"`
	DateOfBirth NullableString `json:"date_of_birth"`
	Phone       NullableString `json:"phone"`
	Address     NullableString `json:"address"`
}
