package errors

// Error codes returned in the "error" field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to their own messages.

const (
	// ==================== Author (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationTooShort      = "VALIDATION_TOO_SHORT"
	ValidationTooLong       = "VALIDATION_TOO_LONG"
	ValidationRequired      = "VALIDATION_REQUIRED"
	ValidationInvalidCursor = "VALIDATION_INVALID_CURSOR"
	ValidationBodyTooLarge  = "VALIDATION_BODY_TOO_LARGE"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Anime (ANIME_) ====================
	AnimeNotFound = "ANIME_NOT_FOUND"

	// ==================== Comment (COMMENT_) ====================
	CommentNotFound       = "COMMENT_NOT_FOUND"
	CommentParentNotFound = "COMMENT_PARENT_NOT_FOUND"
	CommentEditExpired    = "COMMENT_EDIT_EXPIRED"
	CommentDeleted        = "COMMENT_DELETED"
	CommentSpam           = "COMMENT_SPAM"

	// ==================== Share (SHARE_) ====================
	ShareNotFound = "SHARE_NOT_FOUND"

	// ==================== Rate limit (RATE_) ====================
	RateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// ==================== Upstream (UPSTREAM_) ====================
	UpstreamTimeout     = "UPSTREAM_TIMEOUT"
	UpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	UpstreamError       = "UPSTREAM_ERROR"

	// ==================== Server (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
)
