// Package export writes study history and mastery progress to an xlsx
// workbook.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hikaru/benkyo/internal/rank"
	"github.com/hikaru/benkyo/internal/store"
)

const (
	sheetStudyLog = "Study Log"
	sheetMastery  = "Mastery"
)

// WriteWorkbook exports a user's study events and per-subject mastery
// to path. The file is overwritten if it exists.
func WriteWorkbook(ctx context.Context, st *store.Store, userID, path string) error {
	r := st.Repos()

	events, err := r.Events.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	masteries, err := r.Mastery.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load masteries: %w", err)
	}
	subjects, err := r.Catalog.Subjects(ctx)
	if err != nil {
		return fmt.Errorf("load subjects: %w", err)
	}
	subjectNames := make(map[string]string, len(subjects))
	for _, s := range subjects {
		subjectNames[s.ID] = s.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeStudyLog(f, events, subjectNames); err != nil {
		return err
	}
	if err := writeMastery(f, masteries, subjectNames); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeStudyLog(f *excelize.File, events []store.StudyEvent, subjectNames map[string]string) error {
	// Rename the default sheet instead of juggling indexes.
	if err := f.SetSheetName("Sheet1", sheetStudyLog); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Date", "Subject", "Kind", "Item", "Minutes"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetStudyLog, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, ev := range events {
		item := ""
		switch {
		case ev.TopicID != nil:
			item = *ev.TopicID
		case ev.PracticeExamID != nil:
			item = *ev.PracticeExamID
		}
		row := i + 2
		values := []any{
			ev.StudiedAt.Format("2006-01-02 15:04"),
			subjectNames[ev.SubjectID],
			ev.Kind,
			item,
			ev.StudyMinutes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetStudyLog, cell, v); err != nil {
				return fmt.Errorf("write event row %d: %w", row, err)
			}
		}
	}
	return nil
}

func writeMastery(f *excelize.File, masteries []store.SubjectMastery, subjectNames map[string]string) error {
	if _, err := f.NewSheet(sheetMastery); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headers := []string{"Subject", "XP", "Rank", "Progress %", "XP To Next"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetMastery, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, m := range masteries {
		row := i + 2
		values := []any{
			subjectNames[m.SubjectID],
			m.CurrentXP,
			m.Rank,
			rank.ProgressWithinRank(m.CurrentXP),
			rank.XPToNext(m.CurrentXP),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetMastery, cell, v); err != nil {
				return fmt.Errorf("write mastery row %d: %w", row, err)
			}
		}
	}
	return nil
}
