package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yescourses/yescourses-go/internal/service"
	"github.com/yescourses/yescourses-go/internal/store"
	"github.com/yescourses/yescourses-go/internal/testutil"
)

const testAdminEmail = "admin@yescourses.example"

func createTestUser(t *testing.T, db *sql.DB, email string) store.User {
	t.Helper()

	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return user
}

func TestIsAdmin(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	access := service.NewAccessService(db, testAdminEmail)
	admin := createTestUser(t, db, testAdminEmail)
	regular := createTestUser(t, db, "user@example.com")

	require.True(t, access.IsAdmin(true, nil), "session flag alone should grant admin")
	require.True(t, access.IsAdmin(false, &admin), "allowlisted email should grant admin")
	require.True(t, access.IsAdmin(true, &regular))
	require.False(t, access.IsAdmin(false, &regular))
	require.False(t, access.IsAdmin(false, nil))
}

func TestCanView(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	access := service.NewAccessService(db, testAdminEmail)
	purchases := service.NewPurchaseService(db)

	buyer := createTestUser(t, db, "buyer@example.com")
	browser := createTestUser(t, db, "browser@example.com")

	_, err := purchases.Buy(ctx, buyer.ID, "plus")
	require.NoError(t, err)

	t.Run("unknown package", func(t *testing.T) {
		err := access.CanView(ctx, false, &buyer, "gold")
		require.ErrorIs(t, err, service.ErrPackageNotFound)

		// Package existence wins over every other failure.
		err = access.CanView(ctx, false, nil, "gold")
		require.ErrorIs(t, err, service.ErrPackageNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		err := access.CanView(ctx, false, nil, "plus")
		require.ErrorIs(t, err, service.ErrNotAuthenticated)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, access.CanView(ctx, false, &buyer, "plus"))
	})

	t.Run("non-owner", func(t *testing.T) {
		err := access.CanView(ctx, false, &browser, "plus")
		require.ErrorIs(t, err, service.ErrNotPurchased)
	})

	t.Run("admin session without purchase", func(t *testing.T) {
		require.NoError(t, access.CanView(ctx, true, nil, "plus"))
		require.NoError(t, access.CanView(ctx, true, &browser, "premium"))
	})
}
