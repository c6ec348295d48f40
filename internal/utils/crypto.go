package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// GenerateChallengeCode returns a 6-digit code drawn uniformly from
// [100000, 999999].
func GenerateChallengeCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(fmt.Sprintf("failed to generate challenge code: %v", err))
	}
	return strconv.FormatInt(n.Int64()+100000, 10)
}

// HashPassword produces a salted bcrypt hash. Two calls with the same
// plaintext yield different hashes; both verify.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
