package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/DinnerClub/internal/events"
	"github.com/MikeSquared-Agency/DinnerClub/internal/ranking"
)

type fakeSource struct {
	table *ranking.Table
	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context) (*ranking.Table, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.table, nil
}

type recordingEvents struct {
	mu       sync.Mutex
	subjects []string
	payloads []interface{}
}

func (r *recordingEvents) Publish(subject string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}

func (r *recordingEvents) Close() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func surveyTable() *ranking.Table {
	header := []string{"Respondent Name", "Restaurant", "Food Quality", "Ambience ", "Bathroom Quality",
		"Food Portion Size (10 = Large, 1 = Small)", "Service", "Drinks"}
	return ranking.NewTable(header, [][]string{
		{"Alice", "Pizza Place", "8", "8", "8", "8", "8", "8"},
		{"Bob", "Pizza Place", "9", "9", "9", "9", "9", "9"},
		{"Alice", "Taco Shop", "10", "5", "5", "5", "5", "5"},
		{"Carol", "Taco Shop", "", "", "", "", "", ""},
	})
}

func newTestService(src *fakeSource, opts Options, ev events.Client) *Service {
	aliases := map[string]string{
		"Food Quality":     "Food Taste",
		"Ambience":         "Ambiance",
		"Bathroom Quality": "Bathroom",
		"Food Portion Size (10 = Large, 1 = Small)": "Food Portion Size",
	}
	w := ranking.DefaultWeights()
	n := ranking.NewNormalizer(aliases, w.Names())
	svc := NewService(src, n, w, opts, ev, discardLogger())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestLoadBuildsSnapshot(t *testing.T) {
	ev := &recordingEvents{}
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{}, ev)

	snap, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Responses, 4)
	assert.Equal(t, []string{"Pizza Place", "Taco Shop"}, snap.Restaurants())
	assert.Equal(t, 6, snap.MissingValues())

	require.Len(t, ev.subjects, 1)
	assert.Equal(t, events.SubjectSnapshotLoaded, ev.subjects[0])
	loaded := ev.payloads[0].(events.SnapshotLoadedEvent)
	assert.Equal(t, snap.ID.String(), loaded.SnapshotID)
	assert.Equal(t, 4, loaded.Responses)
	assert.Equal(t, 3, loaded.Respondents)
}

func TestLoadRefetchesEachCall(t *testing.T) {
	src := &fakeSource{table: surveyTable()}
	svc := newTestService(src, Options{}, nil)

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	second, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), src.calls.Load())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestLoadCollapsesConcurrentCallers(t *testing.T) {
	src := &fakeSource{table: surveyTable(), gate: make(chan struct{})}
	svc := newTestService(src, Options{}, nil)

	const callers = 5
	var wg sync.WaitGroup
	ids := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := svc.Load(context.Background())
			if err == nil {
				ids[i] = snap.ID.String()
			}
		}(i)
	}

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	// Give the remaining callers time to join the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestLoadSourceUnavailable(t *testing.T) {
	ev := &recordingEvents{}
	upstream := ranking.Unavailable("fake", "survey", errors.New("connection refused"))
	svc := newTestService(&fakeSource{err: upstream}, Options{}, ev)

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ranking.ErrSourceUnavailable)
	assert.Equal(t, []string{events.SubjectSnapshotFailed}, ev.subjects)
}

func TestLoadMissingColumn(t *testing.T) {
	table := ranking.NewTable([]string{"Respondent Name", "Restaurant", "Food Quality"}, [][]string{
		{"Alice", "Pizza Place", "8"},
	})
	svc := newTestService(&fakeSource{table: table}, Options{}, nil)

	_, err := svc.Load(context.Background())
	var missing *ranking.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Food Portion Size", missing.Column)
}

func TestLoadTimeout(t *testing.T) {
	src := &fakeSource{table: surveyTable(), gate: make(chan struct{})}
	svc := newTestService(src, Options{Timeout: 10 * time.Millisecond}, nil)

	_, err := svc.Load(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildUnfiltered(t *testing.T) {
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{}, nil)

	r, err := svc.Build(context.Background(), ranking.Filter{Restaurant: ranking.All, Respondent: ranking.All})
	require.NoError(t, err)

	assert.Equal(t, []string{"Pizza Place", "Taco Shop"}, r.Restaurants)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, r.Respondents)
	assert.InDelta(t, 1.0, r.WeightSum, 1e-9)
	assert.True(t, r.Balanced)
	assert.Len(t, r.Responses, 4)

	pizza, ok := r.RestaurantMeans.Get("Pizza Place")
	require.True(t, ok)
	assert.InDelta(t, 8.5, pizza.AverageWeightedRanking, 1e-9)
	assert.InDelta(t, 8.5, *pizza.Categories["Food Taste"], 1e-9)

	// Taco Shop: Alice 10*.5 + 5*.5 = 7.5, Carol unscored = 0.
	taco, ok := r.RestaurantMeans.Get("Taco Shop")
	require.True(t, ok)
	assert.InDelta(t, 3.75, taco.AverageWeightedRanking, 1e-9)
	assert.InDelta(t, 10, *taco.Categories["Food Taste"], 1e-9)

	require.Len(t, r.RestaurantRanking, 2)
	assert.Equal(t, "Pizza Place", r.RestaurantRanking[0].Restaurant)
	assert.Equal(t, "Bob", r.RespondentRanking[0].Respondent)
}

func TestBuildFiltered(t *testing.T) {
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{}, nil)

	r, err := svc.Build(context.Background(), ranking.Filter{Restaurant: "Pizza Place", Respondent: "Alice"})
	require.NoError(t, err)

	// Option lists still cover the full snapshot.
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, r.Respondents)
	require.Len(t, r.Responses, 1)
	assert.InDelta(t, 8.0, r.Responses[0].WeightedScore, 1e-9)
	require.Len(t, r.Radar, 1)
	assert.Equal(t, "Pizza Place", r.Radar[0].Restaurant)
}

func TestBuildEmptySelection(t *testing.T) {
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{}, nil)

	r, err := svc.Build(context.Background(), ranking.Filter{Restaurant: "Taco Shop", Respondent: "Bob"})
	require.NoError(t, err)
	assert.Empty(t, r.Responses)
	assert.Empty(t, r.RestaurantMeans.Rows)
	assert.Empty(t, r.RestaurantRanking)
	assert.Empty(t, r.Pivot.Rows)
}

func TestBuildExcludeUnscored(t *testing.T) {
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{ExcludeUnscored: true}, nil)

	r, err := svc.Build(context.Background(), ranking.Filter{})
	require.NoError(t, err)
	assert.Len(t, r.Responses, 3)

	taco, ok := r.RestaurantMeans.Get("Taco Shop")
	require.True(t, ok)
	assert.InDelta(t, 7.5, taco.AverageWeightedRanking, 1e-9)
}

func TestExport(t *testing.T) {
	ev := &recordingEvents{}
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{}, ev)

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), ranking.Filter{Restaurant: "Pizza Place"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "Weighted Ranking"))
	assert.Contains(t, lines[0], "Food Taste")
	assert.True(t, strings.HasPrefix(lines[1], "Alice,Pizza Place,"))

	require.Len(t, ev.subjects, 2)
	assert.Equal(t, events.SubjectExportCreated, ev.subjects[1])
	created := ev.payloads[1].(events.ExportCreatedEvent)
	assert.Equal(t, 2, created.Rows)
	assert.Equal(t, "Pizza Place", created.Restaurant)
}

func TestBuildSelectionNotInSnapshot(t *testing.T) {
	svc := newTestService(&fakeSource{table: surveyTable()}, Options{}, nil)

	r, err := svc.Build(context.Background(), ranking.Filter{Restaurant: "Nowhere"})
	require.NoError(t, err)
	assert.Empty(t, r.Responses)
	assert.Empty(t, r.RestaurantMeans.Rows)
	assert.Empty(t, r.RestaurantRanking)
	assert.Empty(t, r.RespondentRanking)
	assert.Empty(t, r.Pivot.Rows)
	assert.Empty(t, r.Radar)
	assert.Equal(t, []string{"Pizza Place", "Taco Shop"}, r.Restaurants)

	var buf bytes.Buffer
	n, err := svc.Export(context.Background(), ranking.Filter{Respondent: "Dave"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasSuffix(lines[0], "Weighted Ranking"))
}
