package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yescourses/yescourses-go/internal/catalog"
	"github.com/yescourses/yescourses-go/internal/store"
)

// ErrAlreadyOwned is returned by Buy when the user already holds the package.
var ErrAlreadyOwned = errors.New("package already owned")

// PurchaseService records package purchases and aggregates purchase counts.
type PurchaseService struct {
	queries *store.Queries
}

// NewPurchaseService creates a PurchaseService.
func NewPurchaseService(db *sql.DB) *PurchaseService {
	return &PurchaseService{queries: store.New(db)}
}

// Buy grants the user access to a package. There is no payment verification:
// the row is inserted unconditionally as a placeholder for a future payment
// integration. The ownership check is an application-level existence check,
// so two concurrent buys for the same (user, package) can both insert — an
// accepted race whose worst case is a duplicate row.
func (s *PurchaseService) Buy(ctx context.Context, userID int64, packageID string) (store.Purchase, error) {
	if !catalog.Exists(packageID) {
		return store.Purchase{}, ErrPackageNotFound
	}

	owns, err := s.queries.UserHasPackage(ctx, store.UserHasPackageParams{
		UserID:    userID,
		PackageID: packageID,
	})
	if err != nil {
		return store.Purchase{}, fmt.Errorf("checking ownership: %w", err)
	}
	if owns {
		return store.Purchase{}, ErrAlreadyOwned
	}

	purchase, err := s.queries.CreatePurchase(ctx, store.CreatePurchaseParams{
		UserID:      userID,
		PackageID:   packageID,
		PurchasedAt: time.Now().UTC(),
	})
	if err != nil {
		return store.Purchase{}, fmt.Errorf("recording purchase: %w", err)
	}

	return purchase, nil
}

// OwnedPackageIDs returns the set of package ids the user has purchased.
// A zero user id yields an empty set.
func (s *PurchaseService) OwnedPackageIDs(ctx context.Context, userID int64) (map[string]bool, error) {
	owned := make(map[string]bool)
	if userID == 0 {
		return owned, nil
	}

	ids, err := s.queries.ListUserPackageIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

// Stats returns the purchase count per catalog package, including zero
// counts for packages nobody has bought.
func (s *PurchaseService) Stats(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64, len(catalog.All()))
	for _, pack := range catalog.All() {
		n, err := s.queries.CountPurchasesByPackage(ctx, pack.ID)
		if err != nil {
			return nil, fmt.Errorf("counting purchases for %s: %w", pack.ID, err)
		}
		stats[pack.ID] = n
	}
	return stats, nil
}
