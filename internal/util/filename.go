// Package util provides general-purpose helpers, including safe on-disk
// filename derivation for uploaded videos.
package util

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultVideoExt is forced when the uploaded extension is missing or not in
// the allowlist. The file content is not inspected or converted.
const DefaultVideoExt = ".mp4"

// allowedVideoExts is the allowlist of common video container extensions.
var allowedVideoExts = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".m4v":  true,
}

// unsafeChars matches everything outside the safe filename alphabet.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// StoredVideoName derives the disk-unique stored filename for an upload:
// the sanitized base name plus a UTC timestamp suffix and an allowlisted
// extension. Two uploads sharing an original name get distinct stored names
// as long as they arrive in different seconds.
func StoredVideoName(original string, now time.Time) string {
	base := stripPath(original)
	ext := strings.ToLower(filepath.Ext(base))
	name := SanitizeBaseName(strings.TrimSuffix(base, filepath.Ext(base)))

	if !allowedVideoExts[ext] {
		ext = DefaultVideoExt
	}

	return fmt.Sprintf("%s_%s%s", name, now.UTC().Format("20060102_150405"), ext)
}

// SanitizeBaseName reduces a filename (without extension) to the safe
// alphabet [a-zA-Z0-9._-]: accents are decomposed and dropped, spaces become
// hyphens, everything else unsafe is removed. Returns "video" when nothing
// usable remains.
func SanitizeBaseName(name string) string {
	// Decompose accented characters and drop the combining marks.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, name)

	result = strings.ReplaceAll(result, " ", "-")
	result = unsafeChars.ReplaceAllString(result, "")
	result = strings.Trim(result, "._-")

	if result == "" {
		return "video"
	}
	return result
}

// stripPath drops any directory components, handling both slash styles so a
// name like `..\..\evil.mp4` cannot smuggle separators past filepath.Base.
func stripPath(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return filepath.Base(name)
}
