// Package cryptox implements password hashing for stored user credentials.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"golang.org/x/crypto/argon2"
)

// ErrInvalidHash is returned when a stored hash is not a well-formed
// argon2id PHC string.
var ErrInvalidHash = errors.New("invalid password hash format")

// Params tunes argon2id.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams follows the argon2id recommendation for interactive logins.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword derives an argon2id key from password using a fresh random
// salt and returns it encoded in PHC string format.
//
// Parameters:
//   - password: the plaintext password.
//   - p: argon2id cost parameters.
//
// Returns:
//   - encoded: "$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt>$<hash>" with
//     raw standard base64 for salt and hash.
//   - err: non-nil only if the random source fails.
//
// Example:
//
//	encoded, err := cryptox.HashPassword("s3cret", cryptox.DefaultParams)
//	if err != nil {
//	    return err
//	}
//	ok, err := cryptox.VerifyPassword("s3cret", encoded) // ok == true
func HashPassword(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	defer common.WipeByteArray(key)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword recomputes the argon2id key for password with the salt and
// parameters stored in encoded and compares both in constant time.
//
// A false result with a nil error means the password does not match;
// ErrInvalidHash means encoded could not be parsed.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidHash
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return false, ErrInvalidHash
	}

	computed := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(hash)))
	defer common.WipeByteArray(computed)
	return subtle.ConstantTimeCompare(hash, computed) == 1, nil
}
