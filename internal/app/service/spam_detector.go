package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/ikkim/animeroast-backend/internal/app/repository"
	"github.com/ikkim/animeroast-backend/pkg/util"
)

const (
	maxCommentsPerMinute = 10
	burstThreshold       = 3
	burstDelay           = 10 * time.Second
	duplicateWindow      = 5 * time.Minute
	similarityThreshold  = 0.9
)

// Messages carried by ErrSpamDetected
const (
	SpamTooMany   = "Too many comments. Please slow down."
	SpamBurst     = "Please wait a few seconds before posting again."
	SpamDuplicate = "You've already posted this comment recently."
	SpamSimilar   = "Your comment is too similar to a recent one."
)

// SpamError is an ErrSpamDetected with the reason shown to the poster.
type SpamError struct {
	Reason string
}

func (e *SpamError) Error() string { return fmt.Sprintf("%s: %s", ErrSpamDetected, e.Reason) }

func (e *SpamError) Unwrap() error { return ErrSpamDetected }

// SpamDetector checks a new comment against what the same client posted recently.
type SpamDetector interface {
	Check(ctx context.Context, ipHash, content string) error
}

type spamDetector struct {
	repo repository.CommentRepository
	now  func() time.Time
}

func NewSpamDetector(repo repository.CommentRepository) SpamDetector {
	return &spamDetector{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (d *spamDetector) Check(ctx context.Context, ipHash, content string) error {
	if ipHash == "" {
		return nil
	}
	now := d.now()

	recent, err := d.repo.RecentByIP(ctx, ipHash, now.Add(-duplicateWindow))
	if err != nil {
		return fmt.Errorf("failed to load recent comments: %w", err)
	}

	lastMinute := 0
	for _, c := range recent {
		if c.CreatedAt.After(now.Add(-time.Minute)) {
			lastMinute++
		}
	}
	if lastMinute >= maxCommentsPerMinute {
		return &SpamError{Reason: SpamTooMany}
	}
	// recent is newest first
	if lastMinute >= burstThreshold && now.Sub(recent[0].CreatedAt) < burstDelay {
		return &SpamError{Reason: SpamBurst}
	}

	normalized := strings.ToLower(content)
	for _, c := range recent {
		if c.IsDeleted {
			continue
		}
		past := strings.ToLower(c.Content)
		if past == normalized {
			return &SpamError{Reason: SpamDuplicate}
		}
		if similarity(past, normalized) > similarityThreshold {
			return &SpamError{Reason: SpamSimilar}
		}
	}
	return nil
}

// similarity is 1 minus the edit distance over the longer length.
func similarity(a, b string) float64 {
	longest := util.RuneLen(a)
	if n := util.RuneLen(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
