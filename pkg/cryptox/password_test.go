package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Bcrypt(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2a$12$"), "bcrypt modular crypt format at cost 12")

	require.NoError(t, VerifyPassword("secret123", hash))
	require.ErrorIs(t, VerifyPassword("secret124", hash), ErrMismatch)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	for _, alg := range []Algorithm{AlgBcrypt, AlgArgon2id} {
		t.Run(string(alg), func(t *testing.T) {
			h1, err := HashPasswordWith(alg, "samepassword")
			require.NoError(t, err)
			h2, err := HashPasswordWith(alg, "samepassword")
			require.NoError(t, err)

			require.NotEqual(t, h1, h2, "hashes should differ due to unique salts")
			require.NoError(t, VerifyPassword("samepassword", h1))
			require.NoError(t, VerifyPassword("samepassword", h2))
		})
	}
}

func TestHashPassword_Argon2idFormat(t *testing.T) {
	hash, err := HashPasswordWith(AlgArgon2id, "P@ssw0rd!#$%^&*()")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])

	require.NoError(t, VerifyPassword("P@ssw0rd!#$%^&*()", hash))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPasswordWith(AlgArgon2id, "correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", strings.Repeat("x", 10000)} {
		require.ErrorIs(t, VerifyPassword(wrong, hash), ErrMismatch)
	}
}

// Hashes produced by other bcrypt implementations (passlib writes $2b$) at
// any cost must verify.
func TestVerifyPassword_ForeignBcrypt(t *testing.T) {
	raw, err := bcrypt.GenerateFromPassword([]byte("pass0000"), bcrypt.MinCost)
	require.NoError(t, err)
	foreign := "$2b$" + strings.TrimPrefix(string(raw), "$2a$")

	require.NoError(t, VerifyPassword("pass0000", foreign))
	require.ErrorIs(t, VerifyPassword("pass0001", foreign), ErrMismatch)
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"plaintext", "secret123"},
		{"unknown scheme", "$scrypt$ln=16,r=8,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2b$12$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, VerifyPassword("test-password", tt.hash))
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	require.Equal(t, AlgBcrypt, alg)

	alg, err = ParseAlgorithm("Argon2ID")
	require.NoError(t, err)
	require.Equal(t, AlgArgon2id, alg)

	_, err = ParseAlgorithm("md5")
	require.ErrorIs(t, err, ErrUnknownAlgorithm)

	_, err = HashPasswordWith("md5", "x")
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}
