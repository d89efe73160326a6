package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/yescourses/yescourses-go/internal/store"
	"github.com/yescourses/yescourses-go/internal/testutil"
)

func createUser(t *testing.T, q *store.Queries, email string) store.User {
	t.Helper()

	user, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	user := createUser(t, q, "alice@example.com")
	if user.ID == 0 {
		t.Fatal("expected non-zero user id")
	}

	byID, err := q.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Errorf("email = %q, want alice@example.com", byID.Email)
	}

	byEmail, err := q.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("id = %d, want %d", byEmail.ID, user.ID)
	}

	if _, err := q.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("unknown email: err = %v, want sql.ErrNoRows", err)
	}
}

func TestDuplicateEmailIsUniqueViolation(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)

	createUser(t, q, "dup@example.com")

	_, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        "dup@example.com",
		Name:         "Other",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("expected error on duplicate email")
	}
	if !store.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}

	n, err := q.CountUsersWithEmail(context.Background(), "dup@example.com")
	if err != nil {
		t.Fatalf("CountUsersWithEmail: %v", err)
	}
	if n != 1 {
		t.Errorf("user count = %d, want 1", n)
	}
}

func TestIsUniqueViolationOtherError(t *testing.T) {
	if store.IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error reported as unique violation")
	}
	if store.IsUniqueViolation(nil) {
		t.Error("nil reported as unique violation")
	}
}

func TestPurchases(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	user := createUser(t, q, "buyer@example.com")

	owns, err := q.UserHasPackage(ctx, store.UserHasPackageParams{UserID: user.ID, PackageID: "basic"})
	if err != nil {
		t.Fatalf("UserHasPackage: %v", err)
	}
	if owns {
		t.Error("new user reported as owning basic")
	}

	if _, err := q.CreatePurchase(ctx, store.CreatePurchaseParams{
		UserID:      user.ID,
		PackageID:   "basic",
		PurchasedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	owns, err = q.UserHasPackage(ctx, store.UserHasPackageParams{UserID: user.ID, PackageID: "basic"})
	if err != nil {
		t.Fatalf("UserHasPackage: %v", err)
	}
	if !owns {
		t.Error("purchase not visible via UserHasPackage")
	}

	ids, err := q.ListUserPackageIDs(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListUserPackageIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "basic" {
		t.Errorf("package ids = %v, want [basic]", ids)
	}

	n, err := q.CountPurchasesByPackage(ctx, "basic")
	if err != nil {
		t.Fatalf("CountPurchasesByPackage: %v", err)
	}
	if n != 1 {
		t.Errorf("basic count = %d, want 1", n)
	}

	n, err = q.CountPurchasesByPackage(ctx, "premium")
	if err != nil {
		t.Fatalf("CountPurchasesByPackage: %v", err)
	}
	if n != 0 {
		t.Errorf("premium count = %d, want 0", n)
	}
}

func TestVideoOrdering(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of order on purpose.
	for _, v := range []struct {
		title string
		order int64
		at    time.Time
	}{
		{"third", 2, base},
		{"first", 1, base},
		{"second", 1, base.Add(time.Minute)},
	} {
		if _, err := q.CreateVideo(ctx, store.CreateVideoParams{
			PackageID:  "plus",
			Title:      v.title,
			Filename:   v.title + ".mp4",
			OrderIndex: v.order,
			UploadedAt: v.at,
		}); err != nil {
			t.Fatalf("CreateVideo(%s): %v", v.title, err)
		}
	}

	videos, err := q.ListVideosByPackage(ctx, "plus")
	if err != nil {
		t.Fatalf("ListVideosByPackage: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("len(videos) = %d, want 3", len(videos))
	}
	for i, want := range []string{"first", "second", "third"} {
		if videos[i].Title != want {
			t.Errorf("videos[%d].Title = %q, want %q", i, videos[i].Title, want)
		}
	}

	other, err := q.ListVideosByPackage(ctx, "basic")
	if err != nil {
		t.Fatalf("ListVideosByPackage(basic): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("basic videos = %d, want 0", len(other))
	}
}

func TestDeleteVideo(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	q := store.New(db)
	ctx := context.Background()

	video, err := q.CreateVideo(ctx, store.CreateVideoParams{
		PackageID:  "basic",
		Title:      "intro",
		Filename:   "intro.mp4",
		OrderIndex: 1,
		UploadedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}

	if err := q.DeleteVideo(ctx, video.ID); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	if _, err := q.GetVideoByID(ctx, video.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("after delete: err = %v, want sql.ErrNoRows", err)
	}

	// Absent id is not an error.
	if err := q.DeleteVideo(ctx, 9999); err != nil {
		t.Errorf("DeleteVideo(absent) = %v, want nil", err)
	}
}
