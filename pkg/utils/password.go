package utils

import "golang.org/x/crypto/bcrypt"

// Store tidak pernah lihat password mentah; yang disimpan cuma hash
// opaque dari sini, yang dibandingkan juga lewat sini.

// HashPassword mengubah password biasa menjadi hash bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword membandingkan password inputan dengan hash tersimpan.
// bcrypt sudah constant-time, aman dari timing attack.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
