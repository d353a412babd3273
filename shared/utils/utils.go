package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PlateLetters are the Cyrillic letters allowed on a plate; each has a
// Latin look-alike.
const PlateLetters = "АВЕКМНОРСТУХ"

const digits = "0123456789"

var plateRe = regexp.MustCompile(`^[` + PlateLetters + `][0-9]{3}[` + PlateLetters + `]{2}[0-9]{2}$`)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePlateNumber checks the letter, 3 digits, 2 letters, 2 digits format.
func ValidatePlateNumber(plate string) bool {
	return plateRe.MatchString(plate)
}

// GeneratePlateNumber returns a random plate in the format ValidatePlateNumber accepts.
func GeneratePlateNumber() string {
	var b strings.Builder
	b.WriteString(randomFrom(PlateLetters, 1))
	b.WriteString(randomFrom(digits, 3))
	b.WriteString(randomFrom(PlateLetters, 2))
	b.WriteString(randomFrom(digits, 2))
	return b.String()
}

// RandomInt returns a uniform integer in [0, n).
func RandomInt(n int) int {
	num, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(num.Int64())
}

// RandomFloat returns a uniform float in [min, max).
func RandomFloat(min, max float64) float64 {
	const precision = 1 << 53
	num, _ := rand.Int(rand.Reader, big.NewInt(precision))
	return min + (max-min)*float64(num.Int64())/precision
}

func randomFrom(charset string, length int) string {
	runes := []rune(charset)
	result := make([]rune, length)
	for i := range result {
		result[i] = runes[RandomInt(len(runes))]
	}
	return string(result)
}
