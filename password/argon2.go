package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	maxPassBytes          = 1024
	defaultMinPass        = 6
	algorithmID           = "argon2id"
)

var (
	// ErrPolicy is returned for passwords outside the configured length bounds.
	ErrPolicy = errors.New("password policy violation")
	// ErrMalformedHash is returned when a stored hash is not a valid argon2id PHC string.
	ErrMalformedHash = errors.New("malformed password hash")
)

// Config tunes the Argon2id cost parameters.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int // bytes, 0 selects 6
}

// DefaultConfig returns interactive-login cost parameters.
func DefaultConfig() Config {
	return Config{Memory: 64 * 1024, Time: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

// FastConfig returns the cheapest accepted parameters, for tests and the
// in-process development API.
func FastConfig() Config {
	return Config{Memory: minMemoryKB, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16}
}

// Hasher hashes and verifies passwords.
type Hasher struct {
	config Config
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

// NewHasher validates cfg.
func NewHasher(cfg Config) (*Hasher, error) {
	if cfg.MinLength <= 0 {
		cfg.MinLength = defaultMinPass
	}
	switch {
	case cfg.Memory < minMemoryKB:
		return nil, errors.New("password memory must be >= 8192 KiB")
	case cfg.Time < 1:
		return nil, errors.New("password time must be >= 1")
	case cfg.Parallelism < 1:
		return nil, errors.New("password parallelism must be >= 1")
	case cfg.SaltLength < minSaltLength:
		return nil, errors.New("password salt length must be >= 16")
	case cfg.KeyLength < minKeyLength:
		return nil, errors.New("password key length must be >= 16")
	case cfg.MinLength > maxPassBytes:
		return nil, errors.New("password minimum length exceeds maximum")
	}
	return &Hasher{config: cfg}, nil
}

// Hash returns the PHC encoding of password.
func (h *Hasher) Hash(password string) (string, error) {
	if err := h.checkLength(password); err != nil {
		return "", err
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, h.config.Time, h.config.Memory, h.config.Parallelism, h.config.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version,
		h.config.Memory, h.config.Time, h.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. Passwords longer than
// the maximum never match.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	p, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	if len(password) > maxPassBytes {
		return false, nil
	}
	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.hash)))
	return subtle.ConstantTimeCompare(key, p.hash) == 1, nil
}

// NeedsRehash reports whether encoded was produced with weaker parameters
// than the Hasher's.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	p, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	return h.config.Memory > p.memory ||
		h.config.Time > p.time ||
		h.config.Parallelism > p.parallelism ||
		h.config.KeyLength != uint32(len(p.hash)), nil
}

func (h *Hasher) checkLength(password string) error {
	if len(password) < h.config.MinLength {
		return fmt.Errorf("%w: must be at least %d bytes", ErrPolicy, h.config.MinLength)
	}
	if len(password) > maxPassBytes {
		return fmt.Errorf("%w: must be at most %d bytes", ErrPolicy, maxPassBytes)
	}
	return nil
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: format", ErrMalformedHash)
	}
	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, fmt.Errorf("%w: version", ErrMalformedHash)
	}

	p := &phc{}
	seen := 0
	for _, pair := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q", ErrMalformedHash, pair)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q", ErrMalformedHash, pair)
		}
		switch k {
		case "m":
			if n < uint64(minMemoryKB) {
				return nil, fmt.Errorf("%w: memory", ErrMalformedHash)
			}
			p.memory = uint32(n)
		case "t":
			if n < 1 {
				return nil, fmt.Errorf("%w: time", ErrMalformedHash)
			}
			p.time = uint32(n)
		case "p":
			if n < 1 || n > 255 {
				return nil, fmt.Errorf("%w: parallelism", ErrMalformedHash)
			}
			p.parallelism = uint8(n)
		default:
			return nil, fmt.Errorf("%w: parameter %q", ErrMalformedHash, k)
		}
		seen++
	}
	if seen != 3 || p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return nil, fmt.Errorf("%w: missing parameters", ErrMalformedHash)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) < int(minSaltLength) {
		return nil, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) < int(minKeyLength) {
		return nil, fmt.Errorf("%w: hash", ErrMalformedHash)
	}
	return p, nil
}
