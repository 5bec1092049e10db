package service

import "errors"

// Error kinds returned by services. Controllers map them to status codes;
// wrapped detail text is for logs only.
var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCursor       = errors.New("invalid cursor")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrParentNotFound      = errors.New("parent comment not found")
	ErrAnimeNotFound       = errors.New("anime not found")
	ErrShareNotFound       = errors.New("shared roast not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrEditWindowExpired   = errors.New("edit window expired")
	ErrCommentDeleted      = errors.New("comment is deleted")
	ErrSpamDetected        = errors.New("spam detected")
	ErrUpstreamTimeout     = errors.New("upstream timed out")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamFailed      = errors.New("upstream failed")
)
