package profile

import "context"

// Store provides read access to user profiles. Implementations live in
// infrastructure/persistence.
type Store interface {
	// GetProfile returns the full profile for a user id.
	GetProfile(ctx context.Context, userID int64) (UserProfile, error)
}
