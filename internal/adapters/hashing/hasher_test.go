package hashing_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/hashing"
)

func TestHasher_BcryptRoundTrip(t *testing.T) {
	h := hashing.New(bcrypt.MinCost)

	stored, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored)
	assert.True(t, h.Verify(stored, "correct horse"))
	assert.False(t, h.Verify(stored, "wrong horse"))
}

// Hashes written by the legacy deployment use the method$salt$hex format.
func TestHasher_VerifiesLegacyHashes(t *testing.T) {
	salt := "s4ltS4lt"
	pbkdf := hex.EncodeToString(pbkdf2.Key([]byte("letmein"), []byte(salt), 1000, 32, sha256.New))
	sc, err := scrypt.Key([]byte("letmein"), []byte(salt), 16384, 8, 1, 64)
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored string
		pw     string
		want   bool
	}{
		{"pbkdf2_match", "pbkdf2:sha256:1000$" + salt + "$" + pbkdf, "letmein", true},
		{"pbkdf2_wrong_password", "pbkdf2:sha256:1000$" + salt + "$" + pbkdf, "letmeout", false},
		{"pbkdf2_wrong_iterations", "pbkdf2:sha256:999$" + salt + "$" + pbkdf, "letmein", false},
		{"scrypt_match", "scrypt:16384:8:1$" + salt + "$" + hex.EncodeToString(sc), "letmein", true},
		{"malformed", "pbkdf2:sha256$nohex", "letmein", false},
		{"unknown_scheme", "md5$abc$def", "letmein", false},
		{"pbkdf2_empty_digest", "pbkdf2:sha256:1$" + salt + "$", "anything-at-all", false},
		{"scrypt_empty_digest", "scrypt:16384:8:1$" + salt + "$", "anything-at-all", false},
		{"plaintext_never_matches", "letmein", "letmein", false},
	}
	h := hashing.New(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Verify(tt.stored, tt.pw))
		})
	}
}
