package redis

import (
	"context"
	"time"
)

const revokedKeyPrefix = "revoked:"

// RevocationStore records revoked session token ids (jti) in Redis. A revoked
// entry only needs to outlive the token's natural expiry, so every entry is
// written with a TTL and Redis garbage-collects the rest.
type RevocationStore struct{}

var (
	setRevokedValue    = Set
	existsRevokedValue = Exists
)

// NewRevocationStore creates a new revocation store
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{}
}

// Revoke marks a token id as revoked until its natural expiry.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired on its own; nothing to record.
		return nil
	}
	return setRevokedValue(ctx, revokedKeyPrefix+tokenID, "1", ttl)
}

// IsRevoked reports whether a token id has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return existsRevokedValue(ctx, revokedKeyPrefix+tokenID)
}
