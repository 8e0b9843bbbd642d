package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	MaxVideoIDLen   = 16 // YouTube video IDs are 11 chars; leave headroom
	MaxChannelIDLen = 32 // channel IDs are 24 chars ("UC...")
	MaxQueryLen     = 200
	MaxResultsCap   = 200
)

// idRe matches YouTube video/channel IDs: alphanumeric, dash, underscore.
var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed. Returns the cleaned
// ID, or an empty ID and a message describing the problem.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "id is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "id must be at most 16 characters"
	}
	if !idRe.MatchString(id) {
		return "", "id contains invalid characters"
	}
	return id, ""
}

// ValidateChannelID checks that a channel ID is well-formed.
func ValidateChannelID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "id is required"
	}
	if len(id) > MaxChannelIDLen {
		return "", "id must be at most 32 characters"
	}
	if !idRe.MatchString(id) {
		return "", "id contains invalid characters"
	}
	return id, ""
}

// ClampMaxResults bounds a caller-supplied page size to something the
// upstream sources accept. Zero or negative falls back to the default.
func ClampMaxResults(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > MaxResultsCap {
		return MaxResultsCap
	}
	return n
}
