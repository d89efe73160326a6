package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is the minimal database interface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries provides parameterized access to the application tables.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// IsUniqueViolation reports whether err is a SQLite unique constraint
// violation, e.g. from inserting a duplicate user email.
func IsUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// CreateUserParams holds the fields for CreateUser.
type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

const createUser = `
INSERT INTO users (email, name, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, email, name, password_hash, created_at
`

// CreateUser inserts a new user row. A duplicate email surfaces as a unique
// constraint violation, detectable with IsUniqueViolation.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Email, arg.Name, arg.PasswordHash, arg.CreatedAt)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, name, password_hash, created_at FROM users WHERE id = ?
`

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?
`

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
// Callers are expected to pass an already case-folded email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const countUsersWithEmail = `
SELECT COUNT(*) FROM users WHERE email = ?
`

// CountUsersWithEmail returns the number of user rows holding the given email.
func (q *Queries) CountUsersWithEmail(ctx context.Context, email string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countUsersWithEmail, email)
	var n int64
	err := row.Scan(&n)
	return n, err
}

// CreatePurchaseParams holds the fields for CreatePurchase.
type CreatePurchaseParams struct {
	UserID      int64
	PackageID   string
	PurchasedAt time.Time
}

const createPurchase = `
INSERT INTO purchases (user_id, package_id, purchased_at)
VALUES (?, ?, ?)
RETURNING id, user_id, package_id, purchased_at
`

// CreatePurchase inserts a purchase row.
func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) (Purchase, error) {
	row := q.db.QueryRowContext(ctx, createPurchase, arg.UserID, arg.PackageID, arg.PurchasedAt)
	var p Purchase
	err := row.Scan(&p.ID, &p.UserID, &p.PackageID, &p.PurchasedAt)
	return p, err
}

// UserHasPackageParams holds the fields for UserHasPackage.
type UserHasPackageParams struct {
	UserID    int64
	PackageID string
}

const userHasPackage = `
SELECT EXISTS(SELECT 1 FROM purchases WHERE user_id = ? AND package_id = ?)
`

// UserHasPackage reports whether a purchase row exists for (user, package).
func (q *Queries) UserHasPackage(ctx context.Context, arg UserHasPackageParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, userHasPackage, arg.UserID, arg.PackageID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const listUserPackageIDs = `
SELECT package_id FROM purchases WHERE user_id = ?
`

// ListUserPackageIDs returns the package ids the user has purchased.
func (q *Queries) ListUserPackageIDs(ctx context.Context, userID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUserPackageIDs, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const countPurchasesByPackage = `
SELECT COUNT(*) FROM purchases WHERE package_id = ?
`

// CountPurchasesByPackage returns the number of purchase rows for a package.
func (q *Queries) CountPurchasesByPackage(ctx context.Context, packageID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPurchasesByPackage, packageID)
	var n int64
	err := row.Scan(&n)
	return n, err
}

// CreateVideoParams holds the fields for CreateVideo.
type CreateVideoParams struct {
	PackageID   string
	Title       string
	Description string
	Filename    string
	OrderIndex  int64
	UploadedAt  time.Time
}

const createVideo = `
INSERT INTO videos (package_id, title, description, filename, order_index, uploaded_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, package_id, title, description, filename, order_index, uploaded_at
`

// CreateVideo inserts a video metadata row.
func (q *Queries) CreateVideo(ctx context.Context, arg CreateVideoParams) (Video, error) {
	row := q.db.QueryRowContext(ctx, createVideo,
		arg.PackageID, arg.Title, arg.Description, arg.Filename, arg.OrderIndex, arg.UploadedAt)
	var v Video
	err := row.Scan(&v.ID, &v.PackageID, &v.Title, &v.Description, &v.Filename, &v.OrderIndex, &v.UploadedAt)
	return v, err
}

const getVideoByID = `
SELECT id, package_id, title, description, filename, order_index, uploaded_at
FROM videos WHERE id = ?
`

// GetVideoByID returns the video with the given id, or sql.ErrNoRows.
func (q *Queries) GetVideoByID(ctx context.Context, id int64) (Video, error) {
	row := q.db.QueryRowContext(ctx, getVideoByID, id)
	var v Video
	err := row.Scan(&v.ID, &v.PackageID, &v.Title, &v.Description, &v.Filename, &v.OrderIndex, &v.UploadedAt)
	return v, err
}

const listVideosByPackage = `
SELECT id, package_id, title, description, filename, order_index, uploaded_at
FROM videos WHERE package_id = ?
ORDER BY order_index ASC, uploaded_at ASC
`

// ListVideosByPackage returns a package's videos in display order.
func (q *Queries) ListVideosByPackage(ctx context.Context, packageID string) ([]Video, error) {
	rows, err := q.db.QueryContext(ctx, listVideosByPackage, packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

const listVideos = `
SELECT id, package_id, title, description, filename, order_index, uploaded_at
FROM videos
ORDER BY package_id ASC, order_index ASC, uploaded_at ASC
`

// ListVideos returns all videos grouped by package in display order.
func (q *Queries) ListVideos(ctx context.Context) ([]Video, error) {
	rows, err := q.db.QueryContext(ctx, listVideos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVideos(rows)
}

const deleteVideo = `
DELETE FROM videos WHERE id = ?
`

// DeleteVideo removes a video row. Deleting an absent id is not an error.
func (q *Queries) DeleteVideo(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteVideo, id)
	return err
}

func scanVideos(rows *sql.Rows) ([]Video, error) {
	var videos []Video
	for rows.Next() {
		var v Video
		if err := rows.Scan(&v.ID, &v.PackageID, &v.Title, &v.Description, &v.Filename, &v.OrderIndex, &v.UploadedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
