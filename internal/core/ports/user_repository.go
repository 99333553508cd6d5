package ports

import (
	"context"

	"github.com/civicstats/identity-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByOpenID(ctx context.Context, openID string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// CreateWithOpenID inserts a user holding only the WeChat identity.
	// Concurrent inserts for the same openID must resolve to a single row:
	// implementations back the column with a unique index and re-read the
	// existing row on a duplicate-key insert.
	CreateWithOpenID(ctx context.Context, openID string) (*domain.User, error)
	// PhoneBoundToOther reports whether mob is already bound to a user other
	// than userID.
	PhoneBoundToOther(ctx context.Context, mob string, userID int64) (bool, error)
	SetPhone(ctx context.Context, userID int64, mob string) error
	// UpdateProfile sets the registration fields and returns the updated row.
	UpdateProfile(ctx context.Context, userID int64, name, idCardNumber, birthday string) (*domain.User, error)
}
