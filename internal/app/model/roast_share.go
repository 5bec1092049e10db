package model

import "time"

// MaxShareRoastLength bounds the roast text accepted for sharing.
const MaxShareRoastLength = 4000

// RoastShare is a roast a user chose to publish under a short slug.
type RoastShare struct {
	ID          uint       `gorm:"primarykey" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	Slug        string     `gorm:"size:32;not null;uniqueIndex" json:"slug"`
	AnimeID     int        `gorm:"index" json:"anime_id"`
	AnimeName   string     `gorm:"size:100;not null" json:"anime_name"`
	Roast       string     `gorm:"type:text;not null" json:"roast"`
	Stats       RoastStats `gorm:"serializer:json" json:"stats"`
	CoverImage  string     `gorm:"size:500" json:"cover_image,omitempty"`
	SnapshotURL string     `gorm:"size:500" json:"snapshot_url,omitempty"`
	ViewCount   int64      `gorm:"not null;default:0" json:"view_count"`
}

func (RoastShare) TableName() string {
	return "roast_shares"
}

// CreateShareRequest is the body of POST /api/roasts/share.
type CreateShareRequest struct {
	AnimeID    int        `json:"anime_id"`
	AnimeName  string     `json:"anime_name" binding:"required"`
	Roast      string     `json:"roast" binding:"required"`
	Stats      RoastStats `json:"stats"`
	CoverImage string     `json:"cover_image"`
}

// ShareResponse is returned after publishing.
type ShareResponse struct {
	Slug        string `json:"slug"`
	ShareURL    string `json:"share_url"`
	SnapshotURL string `json:"snapshot_url,omitempty"`
}

// AuthorTokenRequest is the body of POST /api/author-token.
type AuthorTokenRequest struct {
	AuthorName string `json:"author_name"`
}
