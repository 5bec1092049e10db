package anilist

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid anilist config")

	// ErrNotFound is returned when the requested media does not exist
	ErrNotFound = errors.New("anime not found")

	// ErrTimeout is returned when a call exceeds the configured timeout
	ErrTimeout = errors.New("anilist request timed out")

	// ErrRateLimited is returned when AniList answers 429
	ErrRateLimited = errors.New("anilist rate limit exceeded")

	// ErrUpstream covers transport failures, non-2xx answers and GraphQL errors
	ErrUpstream = errors.New("anilist request failed")
)
