// Package export writes moderation spreadsheets of comments and shares.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/ikkim/animeroast-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const (
	CommentSheet = "Comments"
	ShareSheet   = "Shares"
	timeLayout   = "2006-01-02 15:04:05"
)

var (
	commentHeaders = []interface{}{"ID", "Parent", "Depth", "Author", "Content", "Score", "Upvotes", "Downvotes", "Replies", "Deleted", "Created", "Edited"}
	shareHeaders   = []interface{}{"Slug", "Anime ID", "Anime", "Roast", "Views", "Snapshot", "Created"}
)

// WriteComments writes one row per comment, in the order given.
func WriteComments(w io.Writer, comments []model.Comment) error {
	rows := make([][]interface{}, 0, len(comments))
	for _, c := range comments {
		var parent interface{}
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		var edited interface{}
		if c.EditedAt != nil {
			edited = formatTime(*c.EditedAt)
		}
		rows = append(rows, []interface{}{
			c.ID, parent, c.Depth, c.AuthorName, c.Content,
			c.Upvotes - c.Downvotes, c.Upvotes, c.Downvotes, c.ReplyCount,
			c.IsDeleted, formatTime(c.CreatedAt), edited,
		})
	}
	return writeSheet(w, CommentSheet, commentHeaders, rows, map[string]float64{"E": 80, "K": 20, "L": 20})
}

// WriteShares writes one row per shared roast.
func WriteShares(w io.Writer, shares []model.RoastShare) error {
	rows := make([][]interface{}, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []interface{}{
			s.Slug, s.AnimeID, s.AnimeName, s.Roast, s.ViewCount, s.SnapshotURL, formatTime(s.CreatedAt),
		})
	}
	return writeSheet(w, ShareSheet, shareHeaders, rows, map[string]float64{"C": 30, "D": 80, "F": 40, "G": 20})
}

func writeSheet(w io.Writer, sheet string, headers []interface{}, rows [][]interface{}, widths map[string]float64) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
