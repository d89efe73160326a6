package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yescourses/yescourses-go/internal/catalog"
	"github.com/yescourses/yescourses-go/internal/store"
	"github.com/yescourses/yescourses-go/internal/util"
)

// MaxUploadSize is the upload limit for video files.
const MaxUploadSize = 500 << 20 // 500 MB

// Validation errors for video uploads.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrFileRequired  = errors.New("a video file is required")
)

// VideoService stores uploaded videos on disk and their metadata in the
// database.
type VideoService struct {
	queries   *store.Queries
	uploadDir string
}

// NewVideoService creates a VideoService writing into uploadDir.
func NewVideoService(db *sql.DB, uploadDir string) *VideoService {
	return &VideoService{
		queries:   store.New(db),
		uploadDir: uploadDir,
	}
}

// UploadParams describes one video upload. OrderIndex arrives as the raw form
// value and is coerced with ParseOrderIndex.
type UploadParams struct {
	PackageID   string
	Title       string
	Description string
	OrderIndex  string
	Filename    string
	File        io.Reader
}

// ParseOrderIndex coerces a form value to a display order index, falling back
// to 1 on any parse failure rather than rejecting the upload.
func ParseOrderIndex(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 1
	}
	return n
}

// Upload validates the request, streams the file to the uploads directory
// under a sanitized timestamped name, and inserts the metadata row. If the
// insert fails the freshly written file is removed so disk and database do
// not diverge; a crash between the write and that cleanup can still leave an
// orphaned file, which is an accepted gap.
func (s *VideoService) Upload(ctx context.Context, p UploadParams) (store.Video, error) {
	if !catalog.Exists(p.PackageID) {
		return store.Video{}, ErrPackageNotFound
	}
	if strings.TrimSpace(p.Title) == "" {
		return store.Video{}, ErrTitleRequired
	}
	if strings.TrimSpace(p.Filename) == "" || p.File == nil {
		return store.Video{}, ErrFileRequired
	}

	now := time.Now().UTC()
	stored := util.StoredVideoName(p.Filename, now)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return store.Video{}, fmt.Errorf("creating upload directory: %w", err)
	}

	savePath := filepath.Join(s.uploadDir, stored)
	if err := writeFile(savePath, p.File); err != nil {
		return store.Video{}, fmt.Errorf("saving video file: %w", err)
	}

	video, err := s.queries.CreateVideo(ctx, store.CreateVideoParams{
		PackageID:   p.PackageID,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Filename:    stored,
		OrderIndex:  ParseOrderIndex(p.OrderIndex),
		UploadedAt:  now,
	})
	if err != nil {
		_ = os.Remove(savePath)
		return store.Video{}, fmt.Errorf("recording video metadata: %w", err)
	}

	return video, nil
}

// Delete removes a video's file and row. A missing row is a silent no-op,
// and a file that is already gone from disk is tolerated.
func (s *VideoService) Delete(ctx context.Context, id int64) error {
	video, err := s.queries.GetVideoByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up video: %w", err)
	}

	path := filepath.Join(s.uploadDir, video.Filename)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing video file: %w", err)
	}

	if err := s.queries.DeleteVideo(ctx, id); err != nil {
		return fmt.Errorf("deleting video row: %w", err)
	}

	return nil
}

// FilePath returns the on-disk path for a stored filename.
func (s *VideoService) FilePath(storedName string) string {
	return filepath.Join(s.uploadDir, storedName)
}

// writeFile streams src into a newly created file, removing the partial file
// on a failed copy.
func writeFile(path string, src io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return err
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}

	return nil
}
