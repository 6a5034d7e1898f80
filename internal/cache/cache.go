package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Anshuu-Sharma/LegalSetu-sub000/config"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/internal/models"
	"github.com/Anshuu-Sharma/LegalSetu-sub000/pkg/logger"
)

// fingerprintSeparator joins text and language before hashing. The digest is
// the public analysis id, so this must never change between releases.
const fingerprintSeparator = "::"

// Fingerprint computes the content-addressed key for one (extracted text,
// target language) pair. Identical pairs always yield the identical digest;
// a different language for the same text yields a different one.
func Fingerprint(text, lang string) string {
	sum := sha256.Sum256([]byte(text + fingerprintSeparator + lang))
	return hex.EncodeToString(sum[:])
}

// Cache stores one canonical Analysis per fingerprint. Entries are inserted
// once and never mutated; Put is an idempotent overwrite. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*models.Analysis, bool, error)
	Put(ctx context.Context, fingerprint string, analysis *models.Analysis) error
	Delete(ctx context.Context, fingerprint string) error
}

// New builds the configured cache backend.
func New(cfg config.CacheConfig, log logger.Logger) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}
