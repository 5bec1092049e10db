package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/animeroast-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteResolver decides the voter's new vote given the comment and the
// voter's current vote (0 when none). It runs inside the vote transaction.
type VoteResolver func(comment *model.Comment, current int) (int, error)

// CommentRepository comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	ListByAnime(ctx context.Context, animeID uint) ([]model.Comment, error)
	CountByAnime(ctx context.Context, animeID uint) (int64, error)
	UpdateContent(ctx context.Context, id uint, content string, editedAt time.Time) error
	SoftDelete(ctx context.Context, id uint) error

	ApplyVote(ctx context.Context, commentID uint, voterKey string, resolve VoteResolver) (*model.Comment, int, error)
	FindVote(ctx context.Context, commentID uint, voterKey string) (int, error)
	VotesByAnime(ctx context.Context, animeID uint, voterKey string) (map[uint]int, error)

	RecentByIP(ctx context.Context, ipHash string, since time.Time) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a gorm-backed comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the parent's reply_count in one transaction.
func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if comment.ParentID != nil {
			result := tx.Model(&model.Comment{}).
				Where("id = ? AND anime_id = ?", *comment.ParentID, comment.AnimeID).
				UpdateColumn("reply_count", gorm.Expr("reply_count + ?", 1))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Create(comment).Error
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByAnime returns every comment of the anime, oldest first.
func (r *commentRepository) ListByAnime(ctx context.Context, animeID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("anime_id = ?", animeID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByAnime(ctx context.Context, animeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("anime_id = ?", animeID).Count(&count).Error
	return count, err
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string, editedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumns(map[string]interface{}{
			"content":   content,
			"edited_at": editedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDelete masks content and author. Already-deleted rows are left alone.
func (r *commentRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		UpdateColumns(map[string]interface{}{
			"is_deleted":  true,
			"content":     model.DeletedSentinel,
			"author_name": model.DeletedSentinel,
		}).Error
}

// ApplyVote replaces the voter's vote with whatever resolve returns and
// adjusts the counters with relative updates. The comment row is locked for
// the whole transaction, so votes on one comment are applied one at a time
// even when the voter has no vote row yet.
func (r *commentRepository) ApplyVote(ctx context.Context, commentID uint, voterKey string, resolve VoteResolver) (*model.Comment, int, error) {
	var updated model.Comment
	var final int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&comment, commentID).Error; err != nil {
			return err
		}

		var existing model.CommentVote
		current := 0
		err := tx.Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
			Take(&existing).Error
		switch {
		case err == nil:
			current = existing.Value
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		next, err := resolve(&comment, current)
		if err != nil {
			return err
		}
		final = next
		if next == current {
			updated = comment
			return nil
		}

		switch {
		case next == 0:
			if err := tx.Delete(&model.CommentVote{}, existing.ID).Error; err != nil {
				return err
			}
		case current == 0:
			vote := model.CommentVote{CommentID: commentID, VoterKey: voterKey, Value: next}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&model.CommentVote{}).
				Where("id = ?", existing.ID).
				Update("value", next).Error; err != nil {
				return err
			}
		}

		up, down := voteDelta(current, next)
		if err := tx.Model(&model.Comment{}).
			Where("id = ?", commentID).
			UpdateColumns(map[string]interface{}{
				"upvotes":   gorm.Expr("upvotes + ?", up),
				"downvotes": gorm.Expr("downvotes + ?", down),
			}).Error; err != nil {
			return err
		}

		return tx.First(&updated, commentID).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return &updated, final, nil
}

// voteDelta is the counter change for moving a vote from old to next.
func voteDelta(old, next int) (up, down int) {
	switch old {
	case 1:
		up--
	case -1:
		down--
	}
	switch next {
	case 1:
		up++
	case -1:
		down++
	}
	return up, down
}

func (r *commentRepository) FindVote(ctx context.Context, commentID uint, voterKey string) (int, error) {
	if voterKey == "" {
		return 0, nil
	}
	var vote model.CommentVote
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_key = ?", commentID, voterKey).
		Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return vote.Value, nil
}

// VotesByAnime returns the voter's votes on the anime's comments by comment id.
func (r *commentRepository) VotesByAnime(ctx context.Context, animeID uint, voterKey string) (map[uint]int, error) {
	votes := make(map[uint]int)
	if voterKey == "" {
		return votes, nil
	}

	var rows []model.CommentVote
	err := r.db.WithContext(ctx).
		Model(&model.CommentVote{}).
		Joins("JOIN comments ON comments.id = comment_votes.comment_id").
		Where("comments.anime_id = ? AND comment_votes.voter_key = ?", animeID, voterKey).
		Select("comment_votes.comment_id", "comment_votes.value").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, v := range rows {
		votes[v.CommentID] = v.Value
	}
	return votes, nil
}

// RecentByIP returns comments posted from ipHash since the given time, newest first.
func (r *commentRepository) RecentByIP(ctx context.Context, ipHash string, since time.Time) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("ip_hash = ? AND created_at >= ?", ipHash, since).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	return comments, err
}
