package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"medlink-backend/internal/models"

	"go.uber.org/zap"
)

const storeFileName = "medlink.json"

// userRecord adalah bentuk serialisasi User di file. Dipisah dari
// models.User karena di model hash-nya json:"-" (tidak boleh bocor ke
// response), padahal di file justru wajib ikut tersimpan.
type userRecord struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Role         models.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

func toUserRecord(u models.User) userRecord {
	return userRecord{ID: u.ID, Name: u.Name, Email: u.Email, PasswordHash: u.PasswordHash, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (r userRecord) toModel() models.User {
	return models.User{ID: r.ID, Name: r.Name, Email: r.Email, PasswordHash: r.PasswordHash, Role: r.Role, CreatedAt: r.CreatedAt}
}

type counters struct {
	Users    uint64 `json:"users"`
	Patients uint64 `json:"patients"`
	History  uint64 `json:"history"`
}

// fileAggregate adalah seluruh isi store dalam satu dokumen JSON:
// tiga koleksi record plus tiga counter id.
type fileAggregate struct {
	Users    []userRecord            `json:"users"`
	Patients []models.Patient        `json:"patients"`
	History  []models.PatientHistory `json:"history"`
	Counters counters                `json:"counters"`
}

func emptyAggregate() fileAggregate {
	return fileAggregate{
		Users:    []userRecord{},
		Patients: []models.Patient{},
		History:  []models.PatientHistory{},
	}
}

// FileStore adalah backend flat-file: satu file JSON yang ditulis ulang
// utuh setiap ada mutasi. Mutex wajib karena gin melayani request paralel
// dan urutan baca-ubah-simpan harus atomik per operasi.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
	data fileAggregate
}

// OpenFile memuat state dari dir/medlink.json (atau mulai kosong).
func OpenFile(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{path: filepath.Join(dir, storeFileName), log: logger}
	s.load()
	return s, nil
}

// load membaca file store. File belum ada = mulai kosong. File ada tapi
// tidak kebaca/tidak valid = WARNING lalu reset ke kosong — kebijakan sadar:
// klinik lebih butuh aplikasi nyala daripada startup gagal gara-gara file rusak.
func (s *FileStore) load() {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.data = emptyAggregate()
		return
	}
	if err != nil {
		s.log.Warn("file store tidak kebaca, direset ke kosong", zap.String("path", s.path), zap.Error(err))
		s.data = emptyAggregate()
		return
	}
	var agg fileAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		s.log.Warn("file store korup, direset ke kosong", zap.String("path", s.path), zap.Error(err))
		s.data = emptyAggregate()
		return
	}
	s.data = hydrate(agg)
}

// hydrate menyelaraskan counter dengan id tertinggi yang benar-benar ada,
// supaya file hasil edit manual / tulis setengah jalan tidak pernah bikin
// id tabrakan — paling banter cuma bolong.
func hydrate(agg fileAggregate) fileAggregate {
	if agg.Users == nil {
		agg.Users = []userRecord{}
	}
	if agg.Patients == nil {
		agg.Patients = []models.Patient{}
	}
	if agg.History == nil {
		agg.History = []models.PatientHistory{}
	}
	for _, u := range agg.Users {
		if u.ID > agg.Counters.Users {
			agg.Counters.Users = u.ID
		}
	}
	for _, p := range agg.Patients {
		if p.ID > agg.Counters.Patients {
			agg.Counters.Patients = p.ID
		}
	}
	for _, h := range agg.History {
		if h.ID > agg.Counters.History {
			agg.Counters.History = h.ID
		}
	}
	return agg
}

// save menulis seluruh aggregate secara sinkron. Lewat file temp + rename
// supaya gagal tulis tidak merusak state sebelumnya.
func (s *FileStore) save() error {
	blob, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

// nextID menaikkan counter lalu LANGSUNG persist sebelum id dipakai.
// Kalau proses mati setelah ini, id-nya cuma hangus (bolong), tidak
// mungkin dobel. Caller harus sudah pegang mutex.
func (s *FileStore) nextID(c *uint64) (uint64, error) {
	*c++
	if err := s.save(); err != nil {
		return 0, err
	}
	return *c, nil
}

func (s *FileStore) Users() UserRepository       { return fileUsers{s} }
func (s *FileStore) Patients() PatientRepository { return filePatients{s} }
func (s *FileStore) History() HistoryRepository  { return fileHistory{s} }

func (s *FileStore) Close() error { return nil }

// ---------- users ----------

type fileUsers struct{ s *FileStore }

func (r fileUsers) List(role models.Role) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.User, 0, len(r.s.data.Users))
	for _, rec := range r.s.data.Users {
		if role != "" && rec.Role != role {
			continue
		}
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r fileUsers) FindByID(id uint64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.data.Users {
		if rec.ID == id {
			u := rec.toModel()
			return &u, nil
		}
	}
	return nil, nil
}

func (r fileUsers) FindByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Case-sensitive, persis perilaku store lama
	for _, rec := range r.s.data.Users {
		if rec.Email == email {
			u := rec.toModel()
			return &u, nil
		}
	}
	return nil, nil
}

func (r fileUsers) Create(in models.CreateUserInput) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := validateUserInput(in); err != nil {
		return nil, err
	}
	// Cek duplikat SEBELUM ada yang berubah, biar gagal tanpa efek samping
	for _, rec := range r.s.data.Users {
		if rec.Email == in.Email {
			return nil, ErrEmailTaken
		}
	}

	id, err := r.s.nextID(&r.s.data.Counters.Users)
	if err != nil {
		return nil, err
	}
	user := models.User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		CreatedAt:    time.Now().UTC(),
	}
	r.s.data.Users = append(r.s.data.Users, toUserRecord(user))
	if err := r.s.save(); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r fileUsers) Delete(id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := -1
	for i, rec := range r.s.data.Users {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	r.s.data.Users = append(r.s.data.Users[:idx], r.s.data.Users[idx+1:]...)
	// History karangan user ini TIDAK dihapus, cuma kehilangan atribusi
	for i := range r.s.data.History {
		h := &r.s.data.History[i]
		if h.CreatedByUserID != nil && *h.CreatedByUserID == id {
			h.CreatedByUserID = nil
		}
	}
	return r.s.save()
}

func validateUserInput(in models.CreateUserInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email", ErrMissingField)
	}
	if in.PasswordHash == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	if !in.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// ---------- patients ----------

type filePatients struct{ s *FileStore }

func (r filePatients) List() ([]models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.Patient, len(r.s.data.Patients))
	copy(out, r.s.data.Patients)
	sortPatientsNewestFirst(out)
	return out, nil
}

func (r filePatients) FindByID(id uint64) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.data.Patients {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r filePatients) Create(in models.CreatePatientInput) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if in.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	id, err := r.s.nextID(&r.s.data.Counters.Patients)
	if err != nil {
		return nil, err
	}
	patient := models.Patient{
		ID:          id,
		Name:        in.Name,
		DateOfBirth: in.DateOfBirth,
		Phone:       in.Phone,
		Address:     in.Address,
		CreatedAt:   time.Now().UTC(),
	}
	r.s.data.Patients = append(r.s.data.Patients, patient)
	if err := r.s.save(); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r filePatients) Update(id uint64, in models.UpdatePatientInput) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.data.Patients {
		if r.s.data.Patients[i].ID != id {
			continue
		}
		applyPatientUpdate(&r.s.data.Patients[i], in)
		if err := r.s.save(); err != nil {
			return nil, err
		}
		updated := r.s.data.Patients[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (r filePatients) Delete(id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := -1
	for i, p := range r.s.data.Patients {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	r.s.data.Patients = append(r.s.data.Patients[:idx], r.s.data.Patients[idx+1:]...)
	// Cascade: history pasien ini ikut hilang, dalam satu kali persist
	kept := r.s.data.History[:0]
	for _, h := range r.s.data.History {
		if h.PatientID != id {
			kept = append(kept, h)
		}
	}
	r.s.data.History = kept
	return r.s.save()
}

// ---------- history ----------

type fileHistory struct{ s *FileStore }

func (r fileHistory) ListByPatient(patientID uint64) ([]models.PatientHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]models.PatientHistory, 0)
	for _, h := range r.s.data.History {
		if h.PatientID == patientID {
			out = append(out, h)
		}
	}
	sortHistoryNewestFirst(out)
	return out, nil
}

func (r fileHistory) Create(patientID uint64, in models.CreateHistoryInput) (*models.PatientHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if in.Note == "" {
		return nil, fmt.Errorf("%w: note", ErrMissingField)
	}
	// Cek referensi saat tulis: pasien wajib ada, author (kalau diisi) wajib ada
	if !r.s.patientExists(patientID) {
		return nil, ErrPatientNotFound
	}
	if in.CreatedByUserID != nil && !r.s.userExists(*in.CreatedByUserID) {
		return nil, ErrAuthorNotFound
	}

	id, err := r.s.nextID(&r.s.data.Counters.History)
	if err != nil {
		return nil, err
	}
	entry := models.PatientHistory{
		ID:              id,
		PatientID:       patientID,
		Note:            in.Note,
		CreatedByUserID: in.CreatedByUserID,
		CreatedAt:       time.Now().UTC(),
	}
	r.s.data.History = append(r.s.data.History, entry)
	if err := r.s.save(); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *FileStore) patientExists(id uint64) bool {
	for _, p := range s.data.Patients {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *FileStore) userExists(id uint64) bool {
	for _, u := range s.data.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Urutan terbaru dulu; seri timestamp dipecah pakai id biar deterministik
// dan sama persis dengan ORDER BY di backend SQL.
func sortPatientsNewestFirst(list []models.Patient) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func sortHistoryNewestFirst(list []models.PatientHistory) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
