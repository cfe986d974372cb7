package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/waterrun/internal/ledger"
	"github.com/roach88/waterrun/internal/metrics"
	"github.com/roach88/waterrun/internal/model"
	"github.com/roach88/waterrun/internal/notify"
	"github.com/roach88/waterrun/internal/testutil"
	"github.com/roach88/waterrun/internal/tracker"
)

type recordingSender struct {
	sent []string
	err  error
}

func (s *recordingSender) Send(_ context.Context, text string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, text)
	return nil
}

type fixture struct {
	handler http.Handler
	store   *ledger.Store
	sender  *recordingSender
	people  []model.Participant
}

func newFixture(t *testing.T, opts []Option, names ...string) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := testutil.NewLedger(t)
	people := testutil.AddPeople(t, st, names...)
	sender := &recordingSender{}
	n := notify.NewWithSender(notify.Config{Enabled: true, Token: "t", Destination: "d"}, sender, logger)
	tr := tracker.New(st, n, tracker.WithClock(testutil.NewStepClock()), tracker.WithLogger(logger))
	srv := New(tr, append([]Option{WithLogger(logger)}, opts...)...)
	return &fixture{handler: srv.Handler(), store: st, sender: sender, people: people}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStateEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	rec := f.do(t, http.MethodGet, "/api/state", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	state := decodeBody[tracker.State](t, rec)
	require.Len(t, state.People, 2)
	assert.Nil(t, state.People[0].LastVisit)
	assert.Zero(t, state.TotalRuns)
}

func TestRecordEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	rec := f.do(t, http.MethodPost, "/api/record", `{"actors":[1],"mode":"alone"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[tracker.RecordResult](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.NewState.TotalRuns)
	assert.Equal(t, 2, res.NewState.People[0].Score)
	assert.True(t, res.Notification.Delivered)
	assert.Equal(t, []string{"💧 Water run done by Ada. Next up: Bo"}, f.sender.sent)
}

func TestRecordEndpointRejects(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	cases := map[string]string{
		"group of one":    `{"actors":[1],"mode":"group"}`,
		"group repeating": `{"actors":[1,1],"mode":"group"}`,
		"alone of two":    `{"actors":[1,2],"mode":"alone"}`,
		"unknown mode":    `{"actors":[1],"mode":"relay"}`,
		"malformed json":  `{"actors":[1],`,
		"string actors":   `{"actors":["Ada"],"mode":"alone"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/record", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody[errorBody](t, rec).Detail)
		})
	}

	count, err := f.store.CountRuns(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecordEndpointNotificationFailure(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")
	f.sender.err = errors.New("telegram: Bad Request: chat not found")

	rec := f.do(t, http.MethodPost, "/api/record", `{"actors":[1,2],"mode":"group"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[tracker.RecordResult](t, rec)
	assert.True(t, res.Success)
	assert.False(t, res.Notification.Delivered)
	assert.Equal(t, "telegram: Bad Request: chat not found", res.Notification.Error)
	assert.Equal(t, 1, res.NewState.TotalRuns)
}

func TestHistoryEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/record", `{"actors":[2],"mode":"alone"}`).Code)
	}

	page1 := decodeBody[[]model.RunView](t, f.do(t, http.MethodGet, "/api/history?page=1&limit=2", ""))
	page2 := decodeBody[[]model.RunView](t, f.do(t, http.MethodGet, "/api/history?page=2&limit=2", ""))
	page5 := decodeBody[[]model.RunView](t, f.do(t, http.MethodGet, "/api/history?page=5&limit=2", ""))
	all := decodeBody[[]model.RunView](t, f.do(t, http.MethodGet, "/api/history?limit=10000", ""))

	require.Len(t, page1, 2)
	assert.Equal(t, int64(3), page1[0].ID)
	assert.Equal(t, []string{"Bo"}, page1[0].ActorNames)
	require.Len(t, page2, 1)
	assert.Equal(t, int64(1), page2[0].ID)
	assert.Empty(t, page5)
	assert.Len(t, all, 3)
}

func TestHistoryEndpointOutOfRange(t *testing.T) {
	f := newFixture(t, nil, "Ada")
	rec := f.do(t, http.MethodPost, "/api/record", `{"actors":[1],"mode":"alone"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, target := range []string{"/api/history?page=0", "/api/history?page=-3"} {
		runs := decodeBody[[]model.RunView](t, f.do(t, http.MethodGet, target, ""))
		require.Len(t, runs, 1, target)
		assert.Equal(t, int64(1), runs[0].ID, target)
	}

	rec = f.do(t, http.MethodGet, "/api/history?limit=0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHistoryEndpointRejects(t *testing.T) {
	f := newFixture(t, nil, "Ada")

	for _, target := range []string{"/api/history?limit=abc", "/api/history?page=x"} {
		rec := f.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSuggestEndpoint(t *testing.T) {
	t.Run("empty roster", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.do(t, http.MethodGet, "/api/suggest", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"error":"No participants found"}`, rec.Body.String())
	})

	t.Run("single participant", func(t *testing.T) {
		f := newFixture(t, nil, "Ada")
		rec := f.do(t, http.MethodGet, "/api/suggest", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"suggested":[],"reason":"Not enough participants","rotated":false}`, rec.Body.String())
	})

	t.Run("pair", func(t *testing.T) {
		f := newFixture(t, nil, "Ada", "Bo", "Cy")
		require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/record", `{"actors":[1],"mode":"alone"}`).Code)

		rec := f.do(t, http.MethodGet, "/api/suggest", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Suggested []struct {
				Name string `json:"name"`
			} `json:"suggested"`
			Reason string `json:"reason"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Suggested, 2)
		assert.Equal(t, "Bo", body.Suggested[0].Name)
		assert.Equal(t, "Cy", body.Suggested[1].Name)
		assert.Equal(t, "Lowest scores & longest time since last run", body.Reason)
	})
}

func TestExportCSVEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/record", `{"actors":[1,2],"mode":"group"}`).Code)

	rec := f.do(t, http.MethodGet, "/api/export/csv", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=water_runs.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"id,timestamp,mode,actors,points_each\n1,2025-01-01T09:00:00.000000Z,group,\"Ada, Bo\",1\n",
		rec.Body.String())
}

func TestExportXLSXEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	rec := f.do(t, http.MethodGet, "/api/export/xlsx", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=water_runs.xlsx", rec.Header().Get("Content-Disposition"))
	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{tracker.HistorySheet, tracker.StandingsSheet}, wb.GetSheetList())
}

func TestChartEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	rec := f.do(t, http.MethodGet, "/api/chart.png", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
}

func TestRemindEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	rec := f.do(t, http.MethodPost, "/api/remind", "")

	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[tracker.RemindResult](t, rec)
	assert.Equal(t, "Ada", res.Next.Name)
	assert.True(t, res.Notification.Delivered)
	assert.Equal(t, []string{"💧 Reminder: Ada, you're up next for the water run"}, f.sender.sent)
}

func TestRemindEndpointEmptyRoster(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/remind", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.sender.sent)
}

func TestNotifyStatusEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/notify/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enabled":true,"configured":true}`, rec.Body.String())
}

func TestOverrideEndpoint(t *testing.T) {
	f := newFixture(t, nil, "Ada", "Bo")

	rec := f.do(t, http.MethodPost, "/api/override", `{"participant_id":2,"score":9}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state := decodeBody[tracker.State](t, rec)
	assert.Equal(t, 9, state.People[1].Score)
	assert.Nil(t, state.People[1].LastVisit)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/override", `{"participant_id":2}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/override", `{"participant_id":42,"score":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/override", `{"participant_id":1,"score":-4}`).Code)
}

func TestStorageFailureIs500(t *testing.T) {
	f := newFixture(t, nil, "Ada")
	require.NoError(t, f.store.Close())

	rec := f.do(t, http.MethodGet, "/api/state", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal error"}`, rec.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	f := newFixture(t, []Option{WithIDGenerator(NewFixedGenerator("req-1"))}, "Ada")

	rec := f.do(t, http.MethodGet, "/api/notify/status", "")

	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))
}

func TestUUIDv7RequestIDs(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	f := newFixture(t, []Option{WithMetrics(m)}, "Ada", "Bo")
	// The tracker in the fixture has no metrics sink; count the request only.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/state", "").Code)

	rec := f.do(t, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `waterrun_http_request_duration_seconds_count{method="GET",route="/api/state",status="200"} 1`)
}

func TestMetricsUnmatchedRoute(t *testing.T) {
	m := metrics.New()
	f := newFixture(t, []Option{WithMetrics(m)})
	for _, target := range []string{"/api/nope", "/random/a1", "/random/b2"} {
		require.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, target, "").Code)
	}

	body := f.do(t, http.MethodGet, "/metrics", "").Body.String()

	assert.Contains(t, body, `waterrun_http_request_duration_seconds_count{method="GET",route="unmatched",status="404"} 3`)
	assert.NotContains(t, body, "/random/")
	assert.NotContains(t, body, "/api/nope")
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/nope", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(t, http.MethodGet, "/api/record", "").Code)
}
