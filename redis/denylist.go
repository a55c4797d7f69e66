package redis

import (
	"time"
)

const revokedPrefix = "revoked:"

// Revoke marks a token as invalid until its natural expiry.
func Revoke(token string, ttl time.Duration) error {
	if Client == nil || ttl <= 0 {
		return nil
	}
	return Client.Set(Ctx, revokedPrefix+token, "1", ttl).Err()
}

// IsRevoked reports whether a token has been revoked via logout.
func IsRevoked(token string) bool {
	if Client == nil {
		return false
	}
	n, err := Client.Exists(Ctx, revokedPrefix+token).Result()
	return err == nil && n > 0
}
