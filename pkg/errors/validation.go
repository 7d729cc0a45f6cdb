package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches a 6-digit hex color such as "#1a2B3c".
var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// maxLabelLength bounds tag text so a single tag cannot dominate measurement.
const maxLabelLength = 256

// ValidateHexColor validates a tag or hover color.
func ValidateHexColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidTag, "color is required")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidTag, "color must be #rrggbb: %q", color)
	}
	return nil
}

// IsHexColor reports whether color is a valid #rrggbb string.
func IsHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ValidateLabel validates the text of a tag.
//
// The validation rules are:
//   - No empty or whitespace-only text
//   - No control characters (newlines break single-line glyph layout)
//   - Maximum length of 256 characters
func ValidateLabel(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidTag, "text cannot be empty")
	}

	if len([]rune(text)) > maxLabelLength {
		return New(ErrCodeInvalidTag, "text too long (max %d characters)", maxLabelLength)
	}

	for _, r := range text {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "text contains invalid control characters")
		}
	}

	return nil
}

// ValidateResourceRef validates an image reference. References are either
// http(s) URLs or local file paths.
//
// Validation rules:
//   - Maximum length of 2048 characters
//   - No null bytes or control characters
//   - URLs must use the http or https scheme
func ValidateResourceRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidTag, "image reference cannot be empty")
	}

	const maxRefLength = 2048
	if len(ref) > maxRefLength {
		return New(ErrCodeInvalidTag, "image reference too long (max %d characters)", maxRefLength)
	}

	for _, r := range ref {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "image reference contains invalid characters")
		}
	}

	if i := strings.Index(ref, "://"); i >= 0 {
		scheme := ref[:i]
		if scheme != "http" && scheme != "https" {
			return New(ErrCodeInvalidTag, "image URL must use http or https scheme")
		}
	}

	return nil
}

// ValidateVectorMarkup performs a shallow check that markup looks like an SVG
// document fragment. Full parsing happens in the painter.
func ValidateVectorMarkup(markup string) error {
	trimmed := strings.TrimSpace(markup)
	if trimmed == "" {
		return New(ErrCodeInvalidTag, "vector markup cannot be empty")
	}
	if !strings.HasPrefix(trimmed, "<") || !strings.Contains(trimmed, "svg") {
		return New(ErrCodeInvalidTag, "vector markup must be an <svg> element")
	}
	return nil
}
