package store

import "time"

// User is a registered account. Rows are created on registration and never
// updated or deleted in-app.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Purchase records access to a package. PackageID is a string key into the
// static catalog, not a foreign key. Rows are immutable; there is no refund
// path.
type Purchase struct {
	ID          int64
	UserID      int64
	PackageID   string
	PurchasedAt time.Time
}

// Video is an uploaded course video. Filename is the disk-unique stored name,
// distinct from the original upload name.
type Video struct {
	ID          int64
	PackageID   string
	Title       string
	Description string
	Filename    string
	OrderIndex  int64
	UploadedAt  time.Time
}
