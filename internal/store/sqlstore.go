package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"medlink-backend/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const dbFileName = "medlink.db"

// SQLStore adalah backend relasional di atas SQLite embedded (driver pure Go).
// Kontraknya harus identik dengan FileStore; constraint UNIQUE/FK di schema
// cuma lapisan pengaman kedua, pengecekan utama tetap di repository supaya
// error yang keluar sama persis di dua backend.
type SQLStore struct {
	mu  sync.Mutex
	db  *gorm.DB
	log *zap.Logger
}

// OpenSQL membuka (atau membuat) dir/medlink.db dan menjalankan migrasi schema.
// File database yang korup diperlakukan sama dengan file JSON korup:
// warning untuk operator, lalu mulai dari database kosong yang valid.
func OpenSQL(dir string, logger *zap.Logger) (*SQLStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, dbFileName)

	db, err := openAndMigrate(path)
	if err != nil {
		logger.Warn("database korup, direset ke kosong", zap.String("path", path), zap.Error(err))
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return nil, fmt.Errorf("reset corrupt database: %w", rmErr)
		}
		db, err = openAndMigrate(path)
		if err != nil {
			return nil, err
		}
	}
	return &SQLStore{db: db, log: logger}, nil
}

func openAndMigrate(path string) (*gorm.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Urutan penting: tabel yang direferensikan FK duluan
	if err := db.AutoMigrate(&models.User{}, &models.Patient{}, &models.PatientHistory{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func (s *SQLStore) Users() UserRepository       { return sqlUsers{s} }
func (s *SQLStore) Patients() PatientRepository { return sqlPatients{s} }
func (s *SQLStore) History() HistoryRepository  { return sqlHistory{s} }

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ---------- users ----------

type sqlUsers struct{ s *SQLStore }

func (r sqlUsers) List(role models.Role) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q := r.s.db.Order("id ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r sqlUsers) FindByID(id uint64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findUser(r.s.db.Where("id = ?", id))
}

func (r sqlUsers) FindByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// Kolom TEXT SQLite default-nya collation BINARY, jadi perbandingan
	// email di sini case-sensitive, sama dengan backend file
	return r.s.findUser(r.s.db.Where("email = ?", email))
}

func (s *SQLStore) findUser(q *gorm.DB) (*models.User, error) {
	var user models.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r sqlUsers) Create(in models.CreateUserInput) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validateUserInput(in); err != nil {
		return nil, err
	}
	var count int64
	if err := r.s.db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

func (r sqlUsers) Delete(id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.db.Transaction(func(tx *gorm.DB) error {
		// SET NULL dikerjakan eksplisit; FK ON DELETE SET NULL jadi backup
		if err := tx.Model(&models.PatientHistory{}).
			Where("created_by_user_id = ?", id).
			Update("created_by_user_id", nil).Error; err != nil {
			return fmt.Errorf("detach history author: %w", err)
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---------- patients ----------

type sqlPatients struct{ s *SQLStore }

func (r sqlPatients) List() ([]models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var patients []models.Patient
	if err := r.s.db.Order("created_at DESC, id DESC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

func (r sqlPatients) FindByID(id uint64) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var patient models.Patient
	if err := r.s.db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return &patient, nil
}

func (r sqlPatients) Create(in models.CreatePatientInput) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if in.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	patient := models.Patient{
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		Phone:       in.Phone,
		Address:     in.Address,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.s.db.Create(&patient).Error; err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return &patient, nil
}

func (r sqlPatients) Update(id uint64, in models.UpdatePatientInput) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var patient models.Patient
	if err := r.s.db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	applyPatientUpdate(&patient, in)
	// Save menulis semua kolom, termasuk pointer nil -> NULL
	if err := r.s.db.Save(&patient).Error; err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return &patient, nil
}

func (r sqlPatients) Delete(id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Patient{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete patient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		// Cascade eksplisit dalam transaksi yang sama; FK CASCADE jadi backup
		if err := tx.Where("patient_id = ?", id).Delete(&models.PatientHistory{}).Error; err != nil {
			return fmt.Errorf("delete patient history: %w", err)
		}
		return nil
	})
}

// ---------- history ----------

type sqlHistory struct{ s *SQLStore }

func (r sqlHistory) ListByPatient(patientID uint64) ([]models.PatientHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entries := make([]models.PatientHistory, 0)
	err := r.s.db.Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

func (r sqlHistory) Create(patientID uint64, in models.CreateHistoryInput) (*models.PatientHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if in.Note == "" {
		return nil, fmt.Errorf("%w: note", ErrMissingField)
	}
	var count int64
	if err := r.s.db.Model(&models.Patient{}).Where("id = ?", patientID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if count == 0 {
		return nil, ErrPatientNotFound
	}
	if in.CreatedByUserID != nil {
		if err := r.s.db.Model(&models.User{}).Where("id = ?", *in.CreatedByUserID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check author: %w", err)
		}
		if count == 0 {
			return nil, ErrAuthorNotFound
		}
	}

	entry := models.PatientHistory{
		PatientID:       patientID,
		Note:            in.Note,
		CreatedByUserID: in.CreatedByUserID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := r.s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	return &entry, nil
}
