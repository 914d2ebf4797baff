package auth

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt cost used for admin secrets
var Cost = bcrypt.DefaultCost

// HashSecret returns the storable form of a poll's admin secret.
// An empty secret hashes to the empty string, meaning "no admin access".
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifySecret reports whether presented matches the stored hash.
// A poll without a stored secret never grants admin access.
func VerifySecret(hash, presented string) bool {
	if hash == "" || presented == "" {
		return false
	}
	// bcrypt compares in constant time; a malformed stored hash also denies.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil
}

// GenerateToken creates a random hex token of n bytes
func GenerateToken(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
