package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/ikkim/animeroast-backend/internal/app/repository"
	"github.com/ikkim/animeroast-backend/pkg/logger"
	"github.com/ikkim/animeroast-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	slugLength       = 12
	slugAttempts     = 3
	snapshotFolder   = "shares"
	maxCoverImageURL = 500
)

// SnapshotStorage persists a public copy of a shared roast.
type SnapshotStorage interface {
	UploadSnapshot(ctx context.Context, key string, body []byte) (string, error)
}

// ShareService publishes roasts under short slugs
type ShareService interface {
	Create(ctx context.Context, req *model.CreateShareRequest) (*model.ShareResponse, error)
	Get(ctx context.Context, slug string) (*model.RoastShare, error)
	List(ctx context.Context, limit int) ([]model.RoastShare, error)
}

type shareService struct {
	repo    repository.RoastShareRepository
	storage SnapshotStorage
	baseURL string
	newSlug func() string
}

// NewShareService creates a share service. storage may be nil when
// snapshots are disabled.
func NewShareService(repo repository.RoastShareRepository, storage SnapshotStorage, publicBaseURL string) ShareService {
	return &shareService{
		repo:    repo,
		storage: storage,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		newSlug: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugLength]
		},
	}
}

func (s *shareService) Create(ctx context.Context, req *model.CreateShareRequest) (*model.ShareResponse, error) {
	name, err := util.ValidateAnimeName(req.AnimeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	roast := util.CleanUserText(req.Roast)
	if roast == "" {
		return nil, fmt.Errorf("%w: roast is empty", ErrValidation)
	}
	if util.RuneLen(roast) > model.MaxShareRoastLength {
		return nil, fmt.Errorf("%w: roast exceeds %d characters", ErrValidation, model.MaxShareRoastLength)
	}
	if req.AnimeID < 0 {
		return nil, fmt.Errorf("%w: anime id must not be negative", ErrValidation)
	}

	share := &model.RoastShare{
		AnimeID:    req.AnimeID,
		AnimeName:  name,
		Roast:      roast,
		Stats:      req.Stats.Clamp(),
		CoverImage: safeImageURL(req.CoverImage),
	}

	for attempt := 1; ; attempt++ {
		share.ID = 0
		share.Slug = s.newSlug()
		err = s.repo.Create(ctx, share)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == slugAttempts {
			return nil, fmt.Errorf("failed to create share: %w", err)
		}
	}

	resp := &model.ShareResponse{
		Slug:     share.Slug,
		ShareURL: s.baseURL + "/share/" + share.Slug,
	}

	if s.storage != nil {
		if snapshotURL, err := s.uploadSnapshot(ctx, share); err != nil {
			logger.Warn("Failed to upload share snapshot", map[string]interface{}{
				"slug":  share.Slug,
				"error": err.Error(),
			})
		} else {
			resp.SnapshotURL = snapshotURL
		}
	}

	logger.Info("Roast shared", map[string]interface{}{
		"slug":     share.Slug,
		"anime_id": share.AnimeID,
	})
	return resp, nil
}

func (s *shareService) uploadSnapshot(ctx context.Context, share *model.RoastShare) (string, error) {
	body, err := json.Marshal(share)
	if err != nil {
		return "", err
	}
	snapshotURL, err := s.storage.UploadSnapshot(ctx, snapshotFolder+"/"+share.Slug+".json", body)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetSnapshotURL(ctx, share.Slug, snapshotURL); err != nil {
		return "", err
	}
	share.SnapshotURL = snapshotURL
	return snapshotURL, nil
}

// Get returns the share and counts the view.
func (s *shareService) Get(ctx context.Context, slug string) (*model.RoastShare, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || len(slug) > 32 {
		return nil, ErrShareNotFound
	}

	if err := s.repo.IncrementViewCount(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShareNotFound
		}
		return nil, fmt.Errorf("failed to count share view: %w", err)
	}

	share, err := s.repo.FindBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load share: %w", err)
	}
	return share, nil
}

func (s *shareService) List(ctx context.Context, limit int) ([]model.RoastShare, error) {
	return s.repo.List(ctx, limit)
}

// safeImageURL keeps only absolute http(s) URLs.
func safeImageURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxCoverImageURL {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return ""
	}
	return u.String()
}
