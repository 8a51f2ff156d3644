// Package auth checks basic auth credentials against argon2id hashes kept
// in a "user:hash" file, or a single user and password from the
// environment.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultMemory     = 64 * 1024
	defaultIterations = 3
	defaultThreads    = 1
	defaultSaltLength = 16
	defaultKeyLength  = 32
)

var ErrInvalidHash = errors.New("invalid argon2id hash")

type Hash struct {
	memory     uint32
	iterations uint32
	threads    uint8
	salt       []byte
	sum        []byte
}

// HashPassword returns password as a PHC string:
// $argon2id$v=19$m=65536,t=3,p=1$<salt>$<sum>
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	salt := make([]byte, defaultSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := argon2.IDKey([]byte(password), salt, defaultIterations, defaultMemory, defaultThreads, defaultKeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		defaultMemory,
		defaultIterations,
		defaultThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

func ParseHash(phc string) (*Hash, error) {
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return nil, fmt.Errorf("%w: unsupported version %s", ErrInvalidHash, parts[2])
	}

	params := map[string]uint64{}
	for _, param := range strings.Split(parts[3], ",") {
		key, raw, ok := strings.Cut(param, "=")
		if !ok {
			return nil, fmt.Errorf("%w: bad param %q", ErrInvalidHash, param)
		}
		bits := 32
		if key == "p" {
			bits = 8
		}
		val, err := strconv.ParseUint(raw, 10, bits)
		if err != nil || val == 0 {
			return nil, fmt.Errorf("%w: bad param %q", ErrInvalidHash, param)
		}
		params[key] = val
	}
	if len(params) != 3 || params["m"] == 0 || params["t"] == 0 || params["p"] == 0 {
		return nil, fmt.Errorf("%w: want m, t and p params", ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(sum) == 0 {
		return nil, fmt.Errorf("%w: sum", ErrInvalidHash)
	}
	return &Hash{
		memory:     uint32(params["m"]),
		iterations: uint32(params["t"]),
		threads:    uint8(params["p"]),
		salt:       salt,
		sum:        sum,
	}, nil
}

func (h *Hash) Verify(password string) bool {
	sum := argon2.IDKey([]byte(password), h.salt, h.iterations, h.memory, h.threads, uint32(len(h.sum)))
	return subtle.ConstantTimeCompare(sum, h.sum) == 1
}

// Checker decides whether a basic auth pair is allowed in.
type Checker interface {
	Check(user, password string) bool
}

// Users maps user names to their password hashes.
type Users map[string]*Hash

func (u Users) Check(user, password string) bool {
	h, ok := u[user]
	if !ok {
		return false
	}
	return h.Verify(password)
}

// Static allows exactly one user with a plain password.
type Static struct {
	User     string
	Password string
}

func (s Static) Check(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.User)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	return userOK && passOK
}
