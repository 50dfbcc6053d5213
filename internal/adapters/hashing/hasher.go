// Package hashing verifies stored password hashes. Accounts imported from the
// previous system carry werkzeug-style "pbkdf2:" and "scrypt:" hashes; every
// hash written here is bcrypt.
package hashing

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type Hasher struct {
	cost int
}

var _ ports.PasswordHasher = (*Hasher)(nil)

// New returns a hasher using cost for new bcrypt hashes. Zero means bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *Hasher) Verify(stored, password string) bool {
	switch {
	case strings.HasPrefix(stored, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	case strings.HasPrefix(stored, "pbkdf2:"):
		return verifyPBKDF2(stored, password)
	case strings.HasPrefix(stored, "scrypt:"):
		return verifyScrypt(stored, password)
	}
	return false
}

// splitWerkzeug splits "method$salt$hexdigest". An empty digest is rejected.
func splitWerkzeug(stored string) (method, salt string, digest []byte, ok bool) {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return "", "", nil, false
	}
	digest, err := hex.DecodeString(parts[2])
	if err != nil || len(digest) == 0 {
		return "", "", nil, false
	}
	return parts[0], parts[1], digest, true
}

// pbkdf2:<hash>[:<iterations>]
func verifyPBKDF2(stored, password string) bool {
	method, salt, digest, ok := splitWerkzeug(stored)
	if !ok {
		return false
	}
	args := strings.Split(method, ":")
	if len(args) < 2 {
		return false
	}
	var newHash func() hash.Hash
	switch args[1] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	case "sha1":
		newHash = sha1.New
	default:
		return false
	}
	iterations := 600000
	if len(args) > 2 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(digest), newHash)
	return subtle.ConstantTimeCompare(key, digest) == 1
}

// scrypt:<n>:<r>:<p>
func verifyScrypt(stored, password string) bool {
	method, salt, digest, ok := splitWerkzeug(stored)
	if !ok {
		return false
	}
	args := strings.Split(method, ":")
	n, r, p := 32768, 8, 1
	if len(args) == 4 {
		var err1, err2, err3 error
		n, err1 = strconv.Atoi(args[1])
		r, err2 = strconv.Atoi(args[2])
		p, err3 = strconv.Atoi(args[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return false
		}
	}
	key, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, len(digest))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(key, digest) == 1
}
