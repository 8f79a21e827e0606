package store

import (
	"errors"
	"fmt"

	"medlink-backend/internal/models"

	"go.uber.org/zap"
)

// Sentinel error supaya handler bisa bedain jenis kegagalan
// (validasi vs konflik vs tidak ditemukan) tanpa parsing string.
var (
	ErrNotFound        = errors.New("record not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidRole     = errors.New("invalid role")
	ErrMissingField    = errors.New("missing required field")
	ErrPatientNotFound = errors.New("patient not found")
	ErrAuthorNotFound  = errors.New("author user not found")
)

// Driver yang didukung store.Open
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// UserRepository mengelola akun (owner/doctor/assistant).
// Find* mengembalikan (nil, nil) kalau tidak ketemu: absen itu hasil normal,
// bukan error. Create/Delete yang gagal pakai sentinel di atas.
type UserRepository interface {
	// List mengembalikan semua akun, atau yang role-nya cocok kalau role != "".
	List(role models.Role) ([]models.User, error)
	FindByID(id uint64) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(input models.CreateUserInput) (*models.User, error)
	// Delete menghapus akun dan men-null-kan created_by_user_id di history
	// yang dia tulis (SET NULL, bukan cascade). Tidak diekspos lewat HTTP,
	// tapi bagian dari kontrak store.
	Delete(id uint64) error
}

// PatientRepository mengelola data pasien.
type PatientRepository interface {
	// List urut terbaru dulu (created_at desc)
	List() ([]models.Patient, error)
	FindByID(id uint64) (*models.Patient, error)
	Create(input models.CreatePatientInput) (*models.Patient, error)
	Update(id uint64, input models.UpdatePatientInput) (*models.Patient, error)
	// Delete menghapus pasien SEKALIGUS semua history miliknya (cascade)
	// dalam satu kali persist.
	Delete(id uint64) error
}

// HistoryRepository mengelola catatan kunjungan pasien.
type HistoryRepository interface {
	// ListByPatient urut terbaru dulu
	ListByPatient(patientID uint64) ([]models.PatientHistory, error)
	Create(patientID uint64, input models.CreateHistoryInput) (*models.PatientHistory, error)
}

// Store adalah kontrak tunggal yang dipenuhi dua backend: file JSON dan SQLite.
// Dua-duanya HARUS kelihatan identik dari sisi pemanggil (urutan id, error
// duplikat, perilaku cascade). Instance dibuat sekali di main (composition
// root) dan dishare ke semua handler.
type Store interface {
	Users() UserRepository
	Patients() PatientRepository
	History() HistoryRepository
	Close() error
}

// Open membuka store sesuai driver. dir dibuat kalau belum ada.
func Open(driver, dir string, logger *zap.Logger) (Store, error) {
	switch driver {
	case DriverFile:
		return OpenFile(dir, logger)
	case DriverSQLite:
		return OpenSQL(dir, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// applyPatientUpdate menerapkan semantik PATCH yang sama untuk dua backend:
// field absen dibiarkan, null eksplisit mengosongkan, nilai menimpa.
func applyPatientUpdate(p *models.Patient, in models.UpdatePatientInput) {
	if in.Name != nil && *in.Name != "" {
		p.Name = *in.Name
	}
	if in.DateOfBirth.Set {
		p.DateOfBirth = nullableValue(in.DateOfBirth)
	}
	if in.Phone.Set {
		p.Phone = nullableValue(in.Phone)
	}
	if in.Address.Set {
		p.Address = nullableValue(in.Address)
	}
}

func nullableValue(n models.NullableString) *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
