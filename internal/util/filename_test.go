package util

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 5, 17, 9, 30, 45, 0, time.UTC)

func TestStoredVideoName(t *testing.T) {
	tests := []struct {
		name     string
		original string
		want     string
	}{
		{"plain", "lesson.mp4", "lesson_20260517_093045.mp4"},
		{"spaces", "My First Lesson.mp4", "My-First-Lesson_20260517_093045.mp4"},
		{"upper ext", "intro.MP4", "intro_20260517_093045.mp4"},
		{"webm kept", "clip.webm", "clip_20260517_093045.webm"},
		{"unknown ext forced", "talk.wmv", "talk_20260517_093045.mp4"},
		{"no ext forced", "talk", "talk_20260517_093045.mp4"},
		{"traversal stripped", "../../etc/passwd.mp4", "passwd_20260517_093045.mp4"},
		{"windows path stripped", `..\..\evil.mp4`, "evil_20260517_093045.mp4"},
		{"accents transliterated", "café-lección.mp4", "cafe-leccion_20260517_093045.mp4"},
		{"all unsafe falls back", "###.mp4", "video_20260517_093045.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StoredVideoName(tt.original, testNow); got != tt.want {
				t.Errorf("StoredVideoName(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}

func TestStoredVideoNameUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*60*60)
	local := time.Date(2026, 5, 17, 13, 30, 45, 0, loc) // 09:30:45 UTC

	if got := StoredVideoName("a.mp4", local); got != "a_20260517_093045.mp4" {
		t.Errorf("StoredVideoName = %q, want UTC timestamp", got)
	}
}

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"with space", "with-space"},
		{"tab\tand*stars", "tabandstars"},
		{"..leading-dots..", "leading-dots"},
		{"", "video"},
		{"***", "video"},
	}

	for _, tt := range tests {
		if got := SanitizeBaseName(tt.in); got != tt.want {
			t.Errorf("SanitizeBaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
