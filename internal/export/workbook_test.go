package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteComments(t *testing.T) {
	parent := uint(1)
	edited := time.Date(2024, 6, 1, 12, 5, 0, 0, time.UTC)
	comments := []model.Comment{
		{ID: 1, AnimeID: 20, AuthorName: "Levi", Content: "root", Upvotes: 5, Downvotes: 2, ReplyCount: 1, CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{ID: 2, AnimeID: 20, ParentID: &parent, Depth: 1, AuthorName: "[deleted]", Content: "[deleted]", IsDeleted: true, CreatedAt: time.Date(2024, 6, 1, 12, 1, 0, 0, time.UTC), EditedAt: &edited},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteComments(&buf, comments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(CommentSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Content", rows[0][4])
	assert.Equal(t, []string{"1", "", "0", "Levi", "root", "3", "5", "2", "1", "FALSE", "2024-06-01 12:00:00"}, rows[1])
	assert.Equal(t, "1", rows[2][1])
	assert.Equal(t, "TRUE", rows[2][9])
	assert.Equal(t, "2024-06-01 12:05:00", rows[2][11])
}

func TestWriteShares(t *testing.T) {
	shares := []model.RoastShare{
		{Slug: "abc123def456", AnimeID: 20, AnimeName: "Naruto", Roast: "Believe it.", ViewCount: 7, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteShares(&buf, shares))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ShareSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Slug", rows[0][0])
	assert.Equal(t, "abc123def456", rows[1][0])
	assert.Equal(t, "7", rows[1][4])
}

func TestWriteComments_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteComments(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(CommentSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
