package tracker

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/waterrun/internal/testutil"
)

func seedExportRuns(t *testing.T) *Tracker {
	t.Helper()
	ctx := context.Background()
	tr, st, _, people := newTracker(t, "Ada", "Bo", "Cy")

	_, err := tr.RecordRun(ctx, RecordRequest{Mode: "alone", Actors: []int64{people[0].ID}})
	require.NoError(t, err)
	_, err = tr.RecordRun(ctx, RecordRequest{Mode: "group", Actors: []int64{people[0].ID, people[1].ID}})
	require.NoError(t, err)
	testutil.InsertRawRun(t, st, "2025-01-01T09:30:00.000000Z", "{not json")
	_, err = tr.RecordRun(ctx, RecordRequest{Mode: "group", Actors: []int64{people[1].ID, 99}})
	require.NoError(t, err)
	return tr
}

func TestExportCSV(t *testing.T) {
	tr := seedExportRuns(t)

	var buf bytes.Buffer
	require.NoError(t, tr.ExportCSV(context.Background(), &buf))

	testutil.NewGolden(t).Assert(t, "export.csv", buf.Bytes())
}

func TestExportCSVEmptyLedger(t *testing.T) {
	tr, _, _, _ := newTracker(t, "Ada")

	var buf bytes.Buffer
	require.NoError(t, tr.ExportCSV(context.Background(), &buf))

	assert.Equal(t, "id,timestamp,mode,actors,points_each\n", buf.String())
}

func TestExportXLSX(t *testing.T) {
	tr := seedExportRuns(t)

	var buf bytes.Buffer
	require.NoError(t, tr.ExportXLSX(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{HistorySheet, StandingsSheet}, f.GetSheetList())

	history, err := f.GetRows(HistorySheet)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, ExportHeader, history[0])
	assert.Equal(t, []string{"4", "2025-01-01T09:02:00.000000Z", "group", "Bo, Unknown", "1"}, history[1])
	assert.Equal(t, []string{"1", "2025-01-01T09:00:00.000000Z", "alone", "Ada", "2"}, history[3])

	standings, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.Equal(t, "Ada", standings[1][1])
	assert.Equal(t, "3", standings[1][2])
}
