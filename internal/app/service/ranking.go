package service

import (
	"math"
	"sort"

	"github.com/ikkim/animeroast-backend/internal/app/model"
)

// wilsonZ is the 95% confidence quantile.
const wilsonZ = 1.96

// Score is upvotes minus downvotes.
func Score(upvotes, downvotes int) int {
	return upvotes - downvotes
}

// WilsonLowerBound is the lower bound of the Wilson score interval for the
// share of positive votes. Zero votes rank at 0.
func WilsonLowerBound(upvotes, downvotes int, z float64) float64 {
	n := float64(upvotes + downvotes)
	if n <= 0 {
		return 0
	}
	p := float64(upvotes) / n
	z2 := z * z
	center := p + z2/(2*n)
	margin := z * math.Sqrt((p*(1-p)+z2/(4*n))/n)
	return (center - margin) / (1 + z2/n)
}

// sortComments orders top-level comments in place. Every order ends with
// id descending so results are deterministic.
func sortComments(comments []*model.Comment, by model.CommentSort) {
	var less func(a, b *model.Comment) bool

	switch by {
	case model.SortNew:
		less = func(a, b *model.Comment) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	case model.SortTop:
		less = func(a, b *model.Comment) bool {
			sa, sb := Score(a.Upvotes, a.Downvotes), Score(b.Upvotes, b.Downvotes)
			if sa != sb {
				return sa > sb
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	default:
		less = func(a, b *model.Comment) bool {
			wa := WilsonLowerBound(a.Upvotes, a.Downvotes, wilsonZ)
			wb := WilsonLowerBound(b.Upvotes, b.Downvotes, wilsonZ)
			if wa != wb {
				return wa > wb
			}
			ta, tb := a.Upvotes+a.Downvotes, b.Upvotes+b.Downvotes
			if ta != tb {
				return ta > tb
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	}

	sort.SliceStable(comments, func(i, j int) bool { return less(comments[i], comments[j]) })
}
