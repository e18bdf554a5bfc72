package ioutils

import (
	"context"
	"os"
	"regexp"
	"strings"
)

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to path with mode 0644, truncating an existing file.
//
// Example:
//
//	err := WriteFile(ctx, "/tmp/catalog.m3u", []byte("#EXTM3U\n..."))
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes or replaces characters that are invalid in file
// names on common platforms.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed
//   - Whitespace runs → single space
//   - Surrounding whitespace → removed
//
// Example:
//
//	SanitizeFileName("AC/DC - Back in Black")  // Returns "AC_DC - Back in Black"
//	SanitizeFileName("Vol. 2...")              // Returns "Vol. 2"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// CoverFileName names a saved cover after its record.
func CoverFileName(artist, album string) string {
	name := strings.TrimSpace(artist)
	if a := strings.TrimSpace(album); a != "" {
		if name != "" {
			name += " - "
		}
		name += a
	}
	name = SanitizeFileName(name)
	if name == "" {
		name = "cover"
	}
	return name + ".jpg"
}

// EnsureDir creates a directory and its parents with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
