// Package service implements the application core: access control,
// purchases, and video upload/deletion.
package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/yescourses/yescourses-go/internal/catalog"
	"github.com/yescourses/yescourses-go/internal/store"
)

// Sentinel errors returned by the services. Handlers map these onto flash
// messages and redirects.
var (
	ErrPackageNotFound  = errors.New("package does not exist")
	ErrNotAuthenticated = errors.New("authentication required")
	ErrNotPurchased     = errors.New("package not purchased")
)

// AccessService decides whether a session may view a package's videos and
// whether it counts as an administrator.
type AccessService struct {
	queries    *store.Queries
	adminEmail string
}

// NewAccessService creates an AccessService. adminEmail is the single
// allowlisted address that grants admin rights to a regular account.
func NewAccessService(db *sql.DB, adminEmail string) *AccessService {
	return &AccessService{
		queries:    store.New(db),
		adminEmail: strings.ToLower(adminEmail),
	}
}

// IsAdmin reports whether the caller is an administrator. Two independent
// paths are honored: the session flag set at login, and a live comparison of
// the resolved user's email against the allowlisted admin email. The second
// check keeps the allowlisted account privileged even if the session flag is
// cleared without the email allowlist changing; do not collapse the two.
func (s *AccessService) IsAdmin(sessionAdmin bool, user *store.User) bool {
	if sessionAdmin {
		return true
	}
	return user != nil && strings.EqualFold(user.Email, s.adminEmail)
}

// CanView reports whether the session may view the package's videos: admins
// always, otherwise the user must own a purchase for it. Unknown package ids
// fail with ErrPackageNotFound before ownership is considered;
// unauthenticated sessions never pass.
func (s *AccessService) CanView(ctx context.Context, sessionAdmin bool, user *store.User, packageID string) error {
	if !catalog.Exists(packageID) {
		return ErrPackageNotFound
	}

	if s.IsAdmin(sessionAdmin, user) {
		return nil
	}

	if user == nil {
		return ErrNotAuthenticated
	}

	owns, err := s.queries.UserHasPackage(ctx, store.UserHasPackageParams{
		UserID:    user.ID,
		PackageID: packageID,
	})
	if err != nil {
		return err
	}
	if !owns {
		return ErrNotPurchased
	}

	return nil
}
