package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yescourses/yescourses-go/internal/render"
	"github.com/yescourses/yescourses-go/internal/service"
)

// multipartMemory caps the in-memory portion of multipart parsing; anything
// larger spills to temp files instead of the heap.
const multipartMemory = 32 << 20 // 32 MB

// handleVideoUpload parses a multipart video upload and hands it to the video
// service. The request body is capped at service.MaxUploadSize; exceeding it
// yields a flash rather than a bare 413. packageID may come from the URL or
// from a form field depending on the calling form.
func handleVideoUpload(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, videos *service.VideoService, packageID, redirectTo string) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			flashError(w, r, renderer, redirectTo, "Video is too large. Maximum size is 500 MB.")
			return
		}
		flashError(w, r, renderer, redirectTo, "Invalid upload form.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	if packageID == "" {
		packageID = r.FormValue("package_id")
	}

	params := service.UploadParams{
		PackageID:   packageID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		OrderIndex:  r.FormValue("order_index"),
	}

	file, header, err := r.FormFile("video")
	if err == nil {
		defer file.Close()
		params.Filename = header.Filename
		params.File = file
	} else if !errors.Is(err, http.ErrMissingFile) {
		flashError(w, r, renderer, redirectTo, "Invalid upload form.")
		return
	}

	video, err := videos.Upload(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			flashError(w, r, renderer, RouteAdmin, "Unknown package.")
		case errors.Is(err, service.ErrTitleRequired):
			flashError(w, r, renderer, redirectTo, "Please provide a title for the video.")
		case errors.Is(err, service.ErrFileRequired):
			flashError(w, r, renderer, redirectTo, "Please choose a video file.")
		default:
			flashInternalError(w, r, renderer, redirectTo,
				"Could not save the video. Please try again.",
				"video upload failed", "package_id", packageID, "error", err)
		}
		return
	}

	slog.Info("video uploaded", "video_id", video.ID, "package_id", video.PackageID, "filename", video.Filename)
	flashSuccess(w, r, renderer, coursePath(video.PackageID), "Video uploaded successfully!")
}
