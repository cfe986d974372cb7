package tracker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ActorSeparator joins actor names in exports.
const ActorSeparator = ", "

// ExportHeader is the header row of every history export.
var ExportHeader = []string{"id", "timestamp", "mode", "actors", "points_each"}

// exportRows returns the full history, newest first, one row per readable run.
func (t *Tracker) exportRows(ctx context.Context) ([][]string, error) {
	runs, err := t.ledger.ListAllRuns(ctx)
	if err != nil {
		return nil, err
	}
	names, err := t.names(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(runs))
	for _, v := range views(runs, names) {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			v.Timestamp,
			string(v.Mode),
			strings.Join(v.ActorNames, ActorSeparator),
			strconv.Itoa(v.PointsEach),
		})
	}
	return rows, nil
}

// ExportCSV writes the full history as CSV with a header row.
func (t *Tracker) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := t.exportRows(ctx)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

// Sheet names used by ExportXLSX.
const (
	HistorySheet   = "History"
	StandingsSheet = "Standings"
)

// ExportXLSX writes a workbook with the full history and the current standings.
func (t *Tracker) ExportXLSX(ctx context.Context, w io.Writer) error {
	rows, err := t.exportRows(ctx)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	standings, err := t.ledger.Aggregate(ctx)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", HistorySheet); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := setRow(f, HistorySheet, 1, toAny(ExportHeader)); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, HistorySheet, i+2, toAny(row)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(StandingsSheet); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := setRow(f, StandingsSheet, 1, []any{"id", "name", "score", "last_visit", "contact"}); err != nil {
		return err
	}
	for i, st := range standings {
		lastVisit := ""
		if st.LastVisit != nil {
			lastVisit = *st.LastVisit
		}
		if err := setRow(f, StandingsSheet, i+2, []any{st.ID, st.Name, st.Score, lastVisit, st.Contact}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("export xlsx: %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
