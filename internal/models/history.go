package models

import "time"

// PatientHistory merepresentasikan tabel 'patient_history' (catatan kunjungan).
// FK patient_id ikut terhapus kalau pasiennya dihapus (CASCADE),
// FK created_by_user_id cuma di-null-kan kalau usernya dihapus (SET NULL).
type PatientHistory struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID       uint64    `gorm:"not null;index" json:"patient_id"`
	Note            string    `gorm:"type:text;not null" json:"note"`
	CreatedByUserID *uint64   `gorm:"index" json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`

	// Relasi (tidak ikut diserialisasi ke file store maupun response)
	Patient   *Patient `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedBy *User    `gorm:"foreignKey:CreatedByUserID;constraint:OnDelete:SET NULL" json:"-"`
}

type CreateHistoryInput struct {
	Note            string  `json:"note" binding:"required"`
	CreatedByUserID *uint64 `json:"created_by_user_id"`
}
