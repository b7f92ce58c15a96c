package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Algorithm names a password hashing scheme.
type Algorithm string

const (
	AlgBcrypt   Algorithm = "bcrypt"
	AlgArgon2id Algorithm = "argon2id"
)

// BcryptCost is the work factor for new bcrypt hashes. Existing hashes verify
// at whatever cost they were written with.
const BcryptCost = 12

// Argon2id parameters.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrMismatch          = errors.New("password does not match")
	ErrUnknownAlgorithm  = errors.New("cryptox: unknown password algorithm")
	ErrInvalidHashFormat = errors.New("cryptox: invalid hash format")
)

// ParseAlgorithm accepts "bcrypt" or "argon2id" (case-insensitive).
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case AlgBcrypt, "":
		return AlgBcrypt, nil
	case AlgArgon2id:
		return AlgArgon2id, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// HashPassword hashes with bcrypt.
func HashPassword(password string) (string, error) {
	return HashPasswordWith(AlgBcrypt, password)
}

// HashPasswordWith hashes password using the given algorithm.
func HashPasswordWith(alg Algorithm, password string) (string, error) {
	switch alg {
	case AlgBcrypt:
		h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
		if err != nil {
			return "", fmt.Errorf("cryptox: bcrypt: %w", err)
		}
		return string(h), nil
	case AlgArgon2id:
		return hashArgon2id(password)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
}

// VerifyPassword checks password against an encoded hash. The scheme is
// picked from the hash prefix: modular-crypt bcrypt ($2a$, $2b$, $2y$) or
// PHC argon2id. Any failure, including a malformed hash, is an error.
func VerifyPassword(password, encodedHash string) error {
	switch {
	case strings.HasPrefix(encodedHash, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return verifyArgon2id(password, encodedHash)
	default:
		return ErrInvalidHashFormat
	}
}

func hashArgon2id(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// verifyArgon2id parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func verifyArgon2id(password, encodedHash string) error {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrInvalidHashFormat
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return fmt.Errorf("%w: wrong version", ErrInvalidHashFormat)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrInvalidHashFormat, err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: salt: %v", ErrInvalidHashFormat, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return fmt.Errorf("%w: hash", ErrInvalidHashFormat)
	}

	computed := argon2.IDKey([]byte(password), salt, iters, mem, par, uint32(len(expected))) // #nosec G115
	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrMismatch
}
