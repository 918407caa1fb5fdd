package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored hashes.
const PasswordCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Any failure,
// including a malformed hash, is reported as a plain mismatch.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var decoyHash = sync.OnceValue(func() string {
	h, _ := HashPassword("decoy-password-for-unknown-accounts")
	return h
})

// BurnPasswordCheck spends the same bcrypt work as CheckPassword for an account
// that does not exist, so both login failures take comparable time.
func BurnPasswordCheck(password string) {
	_ = CheckPassword(decoyHash(), password)
}
