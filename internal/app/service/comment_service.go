package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ikkim/animeroast-backend/config"
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/internal/app/repository"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"github.com/ikkim/animeroast-backend/pkg/util"
	"gorm.io/gorm"
)

// CommentService manages threaded comments and their votes
type CommentService interface {
	Create(ctx context.Context, animeID uint, parentID *uint, req *model.CreateCommentRequest, who Identity) (*model.CommentNode, error)
	Reply(ctx context.Context, parentID uint, req *model.CreateCommentRequest, who Identity) (*model.CommentNode, error)
	Edit(ctx context.Context, id uint, content string, who Identity) (*model.CommentNode, error)
	Delete(ctx context.Context, id uint, who Identity) error
	Vote(ctx context.Context, id uint, value int, who Identity) (*model.VoteResult, error)
	List(ctx context.Context, animeID uint, query model.CommentListQuery, who Identity) (*model.CommentListResult, error)
	Get(ctx context.Context, id uint, who Identity) (*model.CommentNode, error)
	Count(ctx context.Context, animeID uint) (int64, error)
}

type commentService struct {
	repo repository.CommentRepository
	spam SpamDetector
	cfg  config.CommentConfig
	now  func() time.Time
}

// NewCommentService creates a comment service. spam may be nil to skip spam checks.
func NewCommentService(repo repository.CommentRepository, spam SpamDetector, cfg config.CommentConfig) CommentService {
	return &commentService{
		repo: repo,
		spam: spam,
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *commentService) Create(ctx context.Context, animeID uint, parentID *uint, req *model.CreateCommentRequest, who Identity) (*model.CommentNode, error) {
	if animeID == 0 {
		return nil, fmt.Errorf("%w: anime id is required", ErrValidation)
	}
	if who.AuthorID == "" {
		return nil, fmt.Errorf("%w: author token required", ErrPermissionDenied)
	}

	content, err := s.cleanContent(req.Content)
	if err != nil {
		return nil, err
	}
	authorName, err := s.cleanAuthorName(req.AuthorName, who.AuthorName)
	if err != nil {
		return nil, err
	}

	depth := 0
	if parentID != nil {
		parent, err := s.repo.FindByID(ctx, *parentID)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && parent.AnimeID != animeID) {
			return nil, ErrParentNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load parent comment: %w", err)
		}
		depth = parent.Depth + 1
	}

	if s.spam != nil {
		if err := s.spam.Check(ctx, who.IPHash, content); err != nil {
			return nil, err
		}
	}

	comment := &model.Comment{
		AnimeID:    animeID,
		ParentID:   parentID,
		AuthorName: authorName,
		AuthorID:   who.AuthorID,
		IPHash:     who.IPHash,
		Content:    content,
		Depth:      depth,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	logger.Info("Comment created", map[string]interface{}{
		"comment_id": comment.ID,
		"anime_id":   animeID,
		"depth":      depth,
	})
	return newCommentNode(comment, 0), nil
}

func (s *commentService) Reply(ctx context.Context, parentID uint, req *model.CreateCommentRequest, who Identity) (*model.CommentNode, error) {
	parent, err := s.repo.FindByID(ctx, parentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load parent comment: %w", err)
	}
	return s.Create(ctx, parent.AnimeID, &parent.ID, req, who)
}

func (s *commentService) Edit(ctx context.Context, id uint, content string, who Identity) (*model.CommentNode, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.IsOwnedBy(who.AuthorID) {
		return nil, ErrPermissionDenied
	}
	now := s.now()
	if now.Sub(comment.CreatedAt) > s.cfg.EditWindow {
		return nil, ErrEditWindowExpired
	}
	if comment.IsDeleted {
		return nil, ErrCommentDeleted
	}

	cleaned, err := s.cleanContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, id, cleaned, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentDeleted
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	comment.Content = cleaned
	comment.EditedAt = &now
	return s.nodeWithVote(ctx, comment, who)
}

func (s *commentService) Delete(ctx context.Context, id uint, who Identity) error {
	comment, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !comment.IsOwnedBy(who.AuthorID) {
		return ErrPermissionDenied
	}
	if comment.IsDeleted {
		return nil
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	logger.Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
		"anime_id":   comment.AnimeID,
	})
	return nil
}

func (s *commentService) Vote(ctx context.Context, id uint, value int, who Identity) (*model.VoteResult, error) {
	if value < -1 || value > 1 {
		return nil, fmt.Errorf("%w: vote must be -1, 0 or 1", ErrValidation)
	}
	voterKey := who.VoterKey()
	if voterKey == "" {
		return nil, fmt.Errorf("%w: voter identity unknown", ErrPermissionDenied)
	}

	comment, userVote, err := s.repo.ApplyVote(ctx, id, voterKey, func(c *model.Comment, current int) (int, error) {
		next := value
		if value != 0 && value == current {
			next = 0
		}
		if c.IsDeleted && next != 0 {
			return 0, ErrCommentDeleted
		}
		return next, nil
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrCommentNotFound
	case errors.Is(err, ErrCommentDeleted):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("failed to apply vote: %w", err)
	}

	return &model.VoteResult{
		CommentID: comment.ID,
		Upvotes:   comment.Upvotes,
		Downvotes: comment.Downvotes,
		Score:     Score(comment.Upvotes, comment.Downvotes),
		UserVote:  userVote,
	}, nil
}

// List returns one page of top-level threads with all replies nested under
// them. The whole thread is loaded once and indexed by id; pagination only
// applies to top-level comments.
func (s *commentService) List(ctx context.Context, animeID uint, query model.CommentListQuery, who Identity) (*model.CommentListResult, error) {
	sortBy, ok := model.ParseCommentSort(query.Sort)
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrValidation, query.Sort)
	}
	limit := s.pageSize(query.Limit)

	comments, err := s.repo.ListByAnime(ctx, animeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	votes, err := s.repo.VotesByAnime(ctx, animeID, who.VoterKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load votes: %w", err)
	}

	nodes := make(map[uint]*model.CommentNode, len(comments))
	for i := range comments {
		c := &comments[i]
		nodes[c.ID] = newCommentNode(c, votes[c.ID])
	}

	// comments arrive oldest first, so appending keeps replies in creation order
	roots := make([]*model.Comment, 0)
	for i := range comments {
		c := &comments[i]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok {
				parent.Replies = append(parent.Replies, nodes[c.ID])
				continue
			}
		}
		roots = append(roots, c)
	}

	sortComments(roots, sortBy)

	start, err := cursorStart(roots, query.Cursor)
	if err != nil {
		return nil, err
	}
	end := start + limit
	if end > len(roots) {
		end = len(roots)
	}

	page := make([]*model.CommentNode, 0, end-start)
	for _, c := range roots[start:end] {
		page = append(page, nodes[c.ID])
	}

	result := &model.CommentListResult{
		Comments: page,
		Total:    int64(len(comments)),
		HasMore:  end < len(roots),
	}
	if result.HasMore {
		next := strconv.FormatUint(uint64(roots[end-1].ID), 10)
		result.NextCursor = &next
	}
	return result, nil
}

func (s *commentService) Get(ctx context.Context, id uint, who Identity) (*model.CommentNode, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.nodeWithVote(ctx, comment, who)
}

func (s *commentService) Count(ctx context.Context, animeID uint) (int64, error) {
	count, err := s.repo.CountByAnime(ctx, animeID)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

func (s *commentService) find(ctx context.Context, id uint) (*model.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) nodeWithVote(ctx context.Context, comment *model.Comment, who Identity) (*model.CommentNode, error) {
	vote, err := s.repo.FindVote(ctx, comment.ID, who.VoterKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load vote: %w", err)
	}
	return newCommentNode(comment, vote), nil
}

func (s *commentService) cleanContent(raw string) (string, error) {
	content := util.CleanUserText(raw)
	n := util.RuneLen(content)
	if n == 0 {
		return "", fmt.Errorf("%w: content is empty", ErrValidation)
	}
	if n > s.cfg.MaxLength {
		return "", fmt.Errorf("%w: content exceeds %d characters", ErrValidation, s.cfg.MaxLength)
	}
	return content, nil
}

// cleanAuthorName falls back to the token's name, then to a fresh pseudonym.
func (s *commentService) cleanAuthorName(raw, tokenName string) (string, error) {
	name := util.CleanUserText(raw)
	if name == "" {
		name = util.CleanUserText(tokenName)
	}
	if name == "" {
		name = util.GeneratePseudonym()
	}
	if util.RuneLen(name) > s.cfg.MaxAuthorLength {
		return "", fmt.Errorf("%w: author name exceeds %d characters", ErrValidation, s.cfg.MaxAuthorLength)
	}
	if name == model.DeletedSentinel {
		return "", fmt.Errorf("%w: reserved author name", ErrValidation)
	}
	return name, nil
}

func (s *commentService) pageSize(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		return s.cfg.MaxPageSize
	}
	return limit
}

// cursorStart returns the index just after the cursor comment.
func cursorStart(roots []*model.Comment, cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(cursor, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	for i, c := range roots {
		if uint64(c.ID) == id {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
}

func newCommentNode(c *model.Comment, userVote int) *model.CommentNode {
	return &model.CommentNode{
		Comment:  *c,
		Score:    Score(c.Upvotes, c.Downvotes),
		UserVote: userVote,
		Replies:  []*model.CommentNode{},
	}
}
