package model

import (
	"time"
)

// DeletedSentinel replaces content and author name of a soft-deleted comment.
const DeletedSentinel = "[deleted]"

// Comment is one node of an anime's discussion thread. Rows are never
// physically removed.
type Comment struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	AnimeID    uint       `gorm:"not null;index:idx_comments_anime_created,priority:1" json:"anime_id"`
	ParentID   *uint      `gorm:"index" json:"parent_id"`
	AuthorName string     `gorm:"size:50;not null" json:"author_name"`
	AuthorID   string     `gorm:"size:64;index" json:"-"`
	IPHash     string     `gorm:"size:64;index:idx_comments_ip_created,priority:1" json:"-"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Depth      int        `gorm:"not null;default:0" json:"depth"`
	CreatedAt  time.Time  `gorm:"index:idx_comments_anime_created,priority:2;index:idx_comments_ip_created,priority:2" json:"created_at"`
	EditedAt   *time.Time `json:"edited_at"`
	IsDeleted  bool       `gorm:"not null;default:false" json:"is_deleted"`
	Upvotes    int        `gorm:"not null;default:0" json:"upvotes"`
	Downvotes  int        `gorm:"not null;default:0" json:"downvotes"`
	ReplyCount int        `gorm:"not null;default:0" json:"reply_count"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsOwnedBy reports whether authorID wrote the comment.
func (c *Comment) IsOwnedBy(authorID string) bool {
	return authorID != "" && c.AuthorID == authorID
}

// CommentVote records one voter's vote on a comment. A zero vote has no row.
type CommentVote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CommentID uint   `gorm:"not null;uniqueIndex:idx_comment_voter,priority:1" json:"comment_id"`
	VoterKey  string `gorm:"size:80;not null;uniqueIndex:idx_comment_voter,priority:2" json:"-"`
	Value     int    `gorm:"not null" json:"value"`
}

func (CommentVote) TableName() string {
	return "comment_votes"
}

// Sort orders for top-level comments
type CommentSort string

const (
	SortBest CommentSort = "best"
	SortNew  CommentSort = "new"
	SortTop  CommentSort = "top"
)

// ParseCommentSort returns the sort for s, defaulting to best when empty.
func ParseCommentSort(s string) (CommentSort, bool) {
	switch CommentSort(s) {
	case "":
		return SortBest, true
	case SortBest, SortNew, SortTop:
		return CommentSort(s), true
	default:
		return "", false
	}
}

// CreateCommentRequest is the body of a new comment or reply.
type CreateCommentRequest struct {
	Content    string `json:"content" binding:"required"`
	AuthorName string `json:"author_name"`
}

// UpdateCommentRequest is the body of an edit.
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// VoteRequest carries -1, 0 or 1.
type VoteRequest struct {
	VoteType *int `json:"vote_type" binding:"required"`
}

// CommentListQuery binds the list query string.
type CommentListQuery struct {
	Sort   string `form:"sort"`
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit"`
}

// CommentNode is a comment as rendered to clients, with its replies nested.
type CommentNode struct {
	Comment
	Score    int            `json:"score"`
	UserVote int            `json:"user_vote"`
	Replies  []*CommentNode `json:"replies"`
}

// CommentListResult is one page of top-level threads.
type CommentListResult struct {
	Comments   []*CommentNode `json:"comments"`
	Total      int64          `json:"total"`
	HasMore    bool           `json:"has_more"`
	NextCursor *string        `json:"next_cursor"`
}

// VoteResult echoes the counters after a vote.
type VoteResult struct {
	CommentID uint `json:"comment_id"`
	Upvotes   int  `json:"upvotes"`
	Downvotes int  `json:"downvotes"`
	Score     int  `json:"score"`
	UserVote  int  `json:"user_vote"`
}

// CommentCount is the response of the count endpoint.
type CommentCount struct {
	AnimeID uint  `json:"anime_id"`
	Total   int64 `json:"total"`
}
