package store_test

// Suite kontrak: setiap test di file ini dijalankan terhadap DUA backend.
// Kalau salah satu backend berperilaku beda, berarti kontraknya bocor.

import (
	"testing"

	"medlink-backend/internal/models"
	"medlink-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type backend struct {
	name string
	open func(t *testing.T, dir string) store.Store
}

var backends = []backend{
	{name: "file", open: func(t *testing.T, dir string) store.Store {
		s, err := store.OpenFile(dir, zap.NewNop())
		require.NoError(t, err)
		return s
	}},
	{name: "sqlite", open: func(t *testing.T, dir string) store.Store {
		s, err := store.OpenSQL(dir, zap.NewNop())
		require.NoError(t, err)
		return s
	}},
}

// eachBackend menjalankan fn sebagai subtest per backend. reopen menutup
// store lalu membukanya lagi dari direktori yang sama (simulasi restart).
func eachBackend(t *testing.T, fn func(t *testing.T, s store.Store, reopen func() store.Store)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			dir := t.TempDir()
			s := b.open(t, dir)
			t.Cleanup(func() { _ = s.Close() })
			reopen := func() store.Store {
				require.NoError(t, s.Close())
				s = b.open(t, dir)
				return s
			}
			fn(t, s, reopen)
		})
	}
}

func strPtr(v string) *string { return &v }

func mustCreateUser(t *testing.T, s store.Store, email string, role models.Role) *models.User {
	t.Helper()
	u, err := s.Users().Create(models.CreateUserInput{
		Name:         "Staf Klinik",
		Email:        email,
		PasswordHash: "salt:hash",
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

func mustCreatePatient(t *testing.T, s store.Store, name string) *models.Patient {
	t.Helper()
	p, err := s.Patients().Create(models.CreatePatientInput{Name: name})
	require.NoError(t, err)
	return p
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		var lastID uint64
		for i, email := range []string{"a@klinik.id", "b@klinik.id", "c@klinik.id"} {
			u := mustCreateUser(t, s, email, models.RoleDoctor)
			require.Greater(t, u.ID, lastID, "user ke-%d", i)
			lastID = u.ID
		}

		p1 := mustCreatePatient(t, s, "Pasien Satu")
		p2 := mustCreatePatient(t, s, "Pasien Dua")
		assert.Equal(t, uint64(1), p1.ID)
		assert.Equal(t, uint64(2), p2.ID)

		// Counter per jenis record berdiri sendiri
		h, err := s.History().Create(p1.ID, models.CreateHistoryInput{Note: "kontrol rutin"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), h.ID)
	})
}

func TestIDsSurviveRestart(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, reopen func() store.Store) {
		p1 := mustCreatePatient(t, s, "Sebelum Restart")
		require.Equal(t, uint64(1), p1.ID)

		s = reopen()

		p2 := mustCreatePatient(t, s, "Sesudah Restart")
		assert.Equal(t, uint64(2), p2.ID)

		// Record lama masih kebaca setelah restart
		found, err := s.Patients().FindByID(p1.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Sebelum Restart", found.Name)
	})
}

func TestDeletedIDNeverReused(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		mustCreatePatient(t, s, "Satu")
		p2 := mustCreatePatient(t, s, "Dua")

		require.NoError(t, s.Patients().Delete(p2.ID))

		p3 := mustCreatePatient(t, s, "Tiga")
		assert.Equal(t, uint64(3), p3.ID, "id bekas record terhapus tidak boleh dipakai ulang")
	})
}

func TestDuplicateEmailRejected(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		mustCreateUser(t, s, "admin@klinik.id", models.RoleOwner)

		before, err := s.Users().List("")
		require.NoError(t, err)

		_, err = s.Users().Create(models.CreateUserInput{
			Name:         "Penyusup",
			Email:        "admin@klinik.id",
			PasswordHash: "salt:hash",
			Role:         models.RoleAssistant,
		})
		require.ErrorIs(t, err, store.ErrEmailTaken)

		// Gagal harus tanpa efek samping
		after, err := s.Users().List("")
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestEmailComparisonIsCaseSensitive(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		mustCreateUser(t, s, "Dokter@klinik.id", models.RoleDoctor)

		// Beda kapitalisasi = email beda
		u, err := s.Users().Create(models.CreateUserInput{
			Name:         "Dokter Lain",
			Email:        "dokter@klinik.id",
			PasswordHash: "salt:hash",
			Role:         models.RoleDoctor,
		})
		require.NoError(t, err)

		found, err := s.Users().FindByEmail("dokter@klinik.id")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, u.ID, found.ID)
	})
}

func TestInvalidRoleRejected(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		_, err := s.Users().Create(models.CreateUserInput{
			Name:         "Hacker",
			Email:        "x@klinik.id",
			PasswordHash: "salt:hash",
			Role:         "superadmin",
		})
		require.ErrorIs(t, err, store.ErrInvalidRole)
	})
}

func TestListUsersFilterByRole(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		mustCreateUser(t, s, "owner@klinik.id", models.RoleOwner)
		mustCreateUser(t, s, "dok1@klinik.id", models.RoleDoctor)
		mustCreateUser(t, s, "dok2@klinik.id", models.RoleDoctor)

		doctors, err := s.Users().List(models.RoleDoctor)
		require.NoError(t, err)
		assert.Len(t, doctors, 2)

		all, err := s.Users().List("")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestFindAbsentIsNotAnError(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		u, err := s.Users().FindByID(42)
		require.NoError(t, err)
		assert.Nil(t, u)

		u, err = s.Users().FindByEmail("ghost@klinik.id")
		require.NoError(t, err)
		assert.Nil(t, u)

		p, err := s.Patients().FindByID(42)
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestPatientDeleteCascadesOwnHistoryOnly(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		p1 := mustCreatePatient(t, s, "Target")
		p2 := mustCreatePatient(t, s, "Tetangga")

		for _, note := range []string{"n1", "n2", "n3"} {
			_, err := s.History().Create(p1.ID, models.CreateHistoryInput{Note: note})
			require.NoError(t, err)
		}
		_, err := s.History().Create(p2.ID, models.CreateHistoryInput{Note: "punya tetangga"})
		require.NoError(t, err)

		require.NoError(t, s.Patients().Delete(p1.ID))

		gone, err := s.History().ListByPatient(p1.ID)
		require.NoError(t, err)
		assert.Empty(t, gone)

		kept, err := s.History().ListByPatient(p2.ID)
		require.NoError(t, err)
		assert.Len(t, kept, 1)

		found, err := s.Patients().FindByID(p1.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestUserDeleteSetsHistoryAuthorNull(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		author := mustCreateUser(t, s, "dokter@klinik.id", models.RoleDoctor)
		p := mustCreatePatient(t, s, "Pasien")

		entry, err := s.History().Create(p.ID, models.CreateHistoryInput{
			Note:            "ditulis dokter",
			CreatedByUserID: &author.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, entry.CreatedByUserID)

		require.NoError(t, s.Users().Delete(author.ID))

		// Catatan TIDAK ikut terhapus, cuma kehilangan atribusi
		entries, err := s.History().ListByPatient(p.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Nil(t, entries[0].CreatedByUserID)
		assert.Equal(t, "ditulis dokter", entries[0].Note)
	})
}

func TestPatientUpdateTriState(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		p, err := s.Patients().Create(models.CreatePatientInput{
			Name:  "Budi",
			Phone: strPtr("0812-0000"),
		})
		require.NoError(t, err)

		// Field absen -> tidak disentuh
		updated, err := s.Patients().Update(p.ID, models.UpdatePatientInput{
			Address: models.NullableString{Set: true, Valid: true, Value: "Jl. Melati 1"},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, "0812-0000", *updated.Phone)
		require.NotNil(t, updated.Address)
		assert.Equal(t, "Jl. Melati 1", *updated.Address)

		// Null eksplisit -> dikosongkan
		updated, err = s.Patients().Update(p.ID, models.UpdatePatientInput{
			Phone: models.NullableString{Set: true, Valid: false},
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Phone)

		// Name tidak pernah ikut ke-null-kan
		assert.Equal(t, "Budi", updated.Name)

		// Perubahan bertahan di durable state
		found, err := s.Patients().FindByID(p.ID)
		require.NoError(t, err)
		assert.Nil(t, found.Phone)
		require.NotNil(t, found.Address)
		assert.Equal(t, "Jl. Melati 1", *found.Address)
	})
}

func TestUpdateAndDeleteMissingPatient(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		_, err := s.Patients().Update(999, models.UpdatePatientInput{Name: strPtr("X")})
		require.ErrorIs(t, err, store.ErrNotFound)

		require.ErrorIs(t, s.Patients().Delete(999), store.ErrNotFound)
	})
}

func TestHistoryReferentialChecks(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		p := mustCreatePatient(t, s, "Pasien")

		// Pasien tidak ada -> ditolak
		_, err := s.History().Create(999, models.CreateHistoryInput{Note: "x"})
		require.ErrorIs(t, err, store.ErrPatientNotFound)

		// Author tidak ada -> ditolak
		ghost := uint64(777)
		_, err = s.History().Create(p.ID, models.CreateHistoryInput{Note: "x", CreatedByUserID: &ghost})
		require.ErrorIs(t, err, store.ErrAuthorNotFound)

		// Tanpa author sah-sah saja
		entry, err := s.History().Create(p.ID, models.CreateHistoryInput{Note: "tanpa atribusi"})
		require.NoError(t, err)
		assert.Nil(t, entry.CreatedByUserID)
	})
}

func TestListNewestFirst(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		p1 := mustCreatePatient(t, s, "Pertama")
		p2 := mustCreatePatient(t, s, "Kedua")
		p3 := mustCreatePatient(t, s, "Ketiga")

		patients, err := s.Patients().List()
		require.NoError(t, err)
		require.Len(t, patients, 3)
		assert.Equal(t, []uint64{p3.ID, p2.ID, p1.ID},
			[]uint64{patients[0].ID, patients[1].ID, patients[2].ID})

		for _, note := range []string{"awal", "tengah", "akhir"} {
			_, err := s.History().Create(p1.ID, models.CreateHistoryInput{Note: note})
			require.NoError(t, err)
		}
		entries, err := s.History().ListByPatient(p1.ID)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "akhir", entries[0].Note)
		assert.Equal(t, "awal", entries[2].Note)
	})
}

// Skenario contoh dari kebutuhan dashboard, ujung ke ujung.
func TestFrontDeskScenario(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		p, err := s.Patients().Create(models.CreatePatientInput{Name: "A"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), p.ID)

		h, err := s.History().Create(p.ID, models.CreateHistoryInput{Note: "n1"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), h.ID)
		assert.Equal(t, p.ID, h.PatientID)

		_, err = s.History().Create(999, models.CreateHistoryInput{Note: "x"})
		require.ErrorIs(t, err, store.ErrPatientNotFound)

		require.NoError(t, s.Patients().Delete(p.ID))

		entries, err := s.History().ListByPatient(p.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestMissingRequiredFields(t *testing.T) {
	eachBackend(t, func(t *testing.T, s store.Store, _ func() store.Store) {
		_, err := s.Patients().Create(models.CreatePatientInput{})
		require.ErrorIs(t, err, store.ErrMissingField)

		p := mustCreatePatient(t, s, "Pasien")
		_, err = s.History().Create(p.ID, models.CreateHistoryInput{})
		require.ErrorIs(t, err, store.ErrMissingField)

		_, err = s.Users().Create(models.CreateUserInput{Email: "x@y.z", PasswordHash: "h", Role: models.RoleOwner})
		require.ErrorIs(t, err, store.ErrMissingField)
	})
}
