// Package pipeline selects and runs one of the five transform pipelines.
// It owns mode-name resolution, secret validation and the outer blob framing
// (salt prefixing for the password-derived mode); the algorithmic work lives
// in the leaf cipher packages, which stay pure and logger-free.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/veilbox/veilbox/pkg/blockCipher"
	"github.com/veilbox/veilbox/pkg/chaosCipher"
	"github.com/veilbox/veilbox/pkg/hybridCipher"
	"github.com/veilbox/veilbox/pkg/lsbStego"
	"github.com/veilbox/veilbox/pkg/secrets"
)

var (
	// ErrUnsupportedAlgorithm is returned for an unknown mode name.
	ErrUnsupportedAlgorithm = errors.New("pipeline: unsupported algorithm")

	// ErrMissingSecret is returned when the password-derived mode is
	// invoked without a passphrase. Checked before any decode or derive
	// work happens.
	ErrMissingSecret = errors.New("pipeline: passphrase is required")
)

// Algorithm identifies one transform pipeline. The zero value is invalid;
// values are resolved once at the boundary via ParseAlgorithm.
type Algorithm int

const (
	algorithmInvalid Algorithm = iota

	// AES is the password-derived AES-256-CBC mode. Blob layout:
	// salt(16) ‖ IV(16) ‖ ciphertext.
	AES

	// Blowfish is the legacy fixed-key Blowfish-CBC mode. Blob layout:
	// IV(8) ‖ ciphertext.
	Blowfish

	// LSB is the pixel-LSB steganographic mode; the secret is the message
	// to hide, and decryption recovers it as a string.
	LSB

	// Chaos is the logistic-map XOR stream cipher; the secret is the map
	// parameter in (0, 4].
	Chaos

	// Hybrid layers the chaotic stream cipher over legacy-keyed AES-128-CBC.
	Hybrid
)

// ParseAlgorithm resolves a wire-level mode name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aes":
		return AES, nil
	case "blowfish":
		return Blowfish, nil
	case "lsb":
		return LSB, nil
	case "chaos":
		return Chaos, nil
	case "hybrid":
		return Hybrid, nil
	default:
		return algorithmInvalid, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

func (a Algorithm) String() string {
	switch a {
	case AES:
		return "aes"
	case Blowfish:
		return "blowfish"
	case LSB:
		return "lsb"
	case Chaos:
		return "chaos"
	case Hybrid:
		return "hybrid"
	default:
		return "invalid"
	}
}

// Result is the outcome of one pipeline invocation. Blob carries transformed
// bytes; for LSB extraction Message carries the recovered string instead and
// IsMessage is set.
type Result struct {
	Blob      []byte
	Message   string
	IsMessage bool
}

// Suite runs the pipelines with an injected observer. All methods are
// stateless and safe for concurrent use.
type Suite struct {
	log *slog.Logger
}

// Option configures a Suite.
type Option func(*Suite)

// WithLogger injects a tracing logger. Without it the Suite uses
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Suite) {
		if logger != nil {
			s.log = logger
		}
	}
}

// NewSuite creates a pipeline Suite.
func NewSuite(opts ...Option) *Suite {
	s := &Suite{log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Encrypt runs the forward transform for alg over payload. The meaning of
// secret depends on the mode: passphrase (aes), raw key string (blowfish,
// hybrid), message to hide (lsb) or chaos parameter (chaos).
func (s *Suite) Encrypt(alg Algorithm, secret string, payload []byte) (Result, error) {
	s.log.Debug("encrypt", "algorithm", alg.String(), "payloadBytes", len(payload))

	switch alg {
	case AES:
		if secret == "" {
			return Result{}, ErrMissingSecret
		}
		salt, key, err := secrets.DeriveKey(secret, nil, secrets.DerivedKeyLength)
		if err != nil {
			return Result{}, err
		}
		blob, err := blockCipher.EncryptAES(payload, key)
		if err != nil {
			return Result{}, err
		}
		out := make([]byte, 0, len(salt)+len(blob))
		out = append(out, salt...)
		out = append(out, blob...)
		return Result{Blob: out}, nil

	case Blowfish:
		key := secrets.ParseLegacyKey(secret, secrets.LegacyKeyLength)
		blob, err := blockCipher.EncryptBlowfish(payload, key)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: blob}, nil

	case LSB:
		message := secret
		if message == "" {
			message = "Secret"
		}
		blob, err := lsbStego.Embed(payload, message)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: blob}, nil

	case Chaos:
		key, err := parseChaosKey(secret)
		if err != nil {
			return Result{}, err
		}
		blob, err := chaosCipher.Transform(payload, key)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: blob}, nil

	case Hybrid:
		key := secrets.ParseLegacyKey(secret, secrets.LegacyKeyLength)
		blob, err := hybridCipher.Encrypt(payload, key, chaosCipher.DefaultKey)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: blob}, nil

	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, alg)
	}
}

// Decrypt runs the inverse transform for alg over blob. For LSB the result is
// the recovered message; for the cipher modes it is the original bytes.
func (s *Suite) Decrypt(alg Algorithm, secret string, blob []byte) (Result, error) {
	s.log.Debug("decrypt", "algorithm", alg.String(), "blobBytes", len(blob))

	switch alg {
	case AES:
		if secret == "" {
			return Result{}, ErrMissingSecret
		}
		if len(blob) < secrets.SaltLength {
			return Result{}, blockCipher.ErrMalformedBlob
		}
		salt := blob[:secrets.SaltLength]
		_, key, err := secrets.DeriveKey(secret, salt, secrets.DerivedKeyLength)
		if err != nil {
			return Result{}, err
		}
		plain, err := blockCipher.DecryptAES(blob[secrets.SaltLength:], key)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: plain}, nil

	case Blowfish:
		key := secrets.ParseLegacyKey(secret, secrets.LegacyKeyLength)
		plain, err := blockCipher.DecryptBlowfish(blob, key)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: plain}, nil

	case LSB:
		message, err := lsbStego.Extract(blob)
		if err != nil {
			return Result{}, err
		}
		return Result{Message: message, IsMessage: true}, nil

	case Chaos:
		key, err := parseChaosKey(secret)
		if err != nil {
			return Result{}, err
		}
		plain, err := chaosCipher.Transform(blob, key)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: plain}, nil

	case Hybrid:
		key := secrets.ParseLegacyKey(secret, secrets.LegacyKeyLength)
		plain, err := hybridCipher.Decrypt(blob, key, chaosCipher.DefaultKey)
		if err != nil {
			return Result{}, err
		}
		return Result{Blob: plain}, nil

	default:
		return Result{}, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, alg)
	}
}

// parseChaosKey interprets the secret as the logistic-map parameter. Empty
// falls back to the default; anything that is not a number is rejected the
// same way as an out-of-range value.
func parseChaosKey(secret string) (float64, error) {
	if strings.TrimSpace(secret) == "" {
		return chaosCipher.DefaultKey, nil
	}
	key, err := strconv.ParseFloat(strings.TrimSpace(secret), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", chaosCipher.ErrInvalidKeyRange, secret)
	}
	return key, nil
}
