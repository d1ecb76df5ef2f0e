package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"budget_forecast/internal/config"
)

// AnonymousOwner owns every request when authentication is disabled.
const AnonymousOwner = "anonymous"

// APIKeyService checks presented keys against configured bcrypt hashes.
type APIKeyService struct {
	enabled bool
	keys    []config.APIKey
}

func NewAPIKeyService(cfg config.AuthConfig) *APIKeyService {
	return &APIKeyService{enabled: cfg.Enabled, keys: cfg.Keys}
}

func (s *APIKeyService) Enabled() bool { return s.enabled }

// Verify returns the owner name bound to key.
func (s *APIKeyService) Verify(key string) (string, error) {
	if !s.enabled {
		return AnonymousOwner, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrUnauthorized
	}
	for _, k := range s.keys {
		if verifyKey(k.Hash, key) == nil {
			return k.Name, nil
		}
	}
	return "", ErrUnauthorized
}

func verifyKey(hash, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}
