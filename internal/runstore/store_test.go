package runstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csuite/internal/config"
	"csuite/internal/harness"
	"csuite/internal/orchestrator"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func report(id, pkg string, outcome orchestrator.Outcome, minutes int) *orchestrator.Report {
	return &orchestrator.Report{
		ID:         id,
		Package:    pkg,
		Outcome:    outcome,
		StartedAt:  base.Add(time.Duration(minutes) * time.Minute),
		DurationMs: 1500,
		Counts:     &harness.Counts{Passed: 1},
	}
}

func TestStore_StoreAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	s := New(dir)

	in := report("1b4e28ba-2fa1-11d2-883f-0016d3cca427", "com.a", orchestrator.OutcomePassed, 0)
	in.Phases = []orchestrator.PhaseRecord{{Phase: orchestrator.PhaseInit, Status: orchestrator.PhaseStatusOK}}
	require.NoError(t, s.Store(in))

	_, err := os.Stat(filepath.Join(dir, in.ID+".json"))
	require.NoError(t, err)

	out, err := s.Get(in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Package, out.Package)
	assert.Equal(t, in.Phases, out.Phases)
	assert.True(t, in.StartedAt.Equal(out.StartedAt))
	assert.Equal(t, 1, out.Counts.Passed)
}

func TestStore_GetUnknown(t *testing.T) {
	_, err := New(t.TempDir()).Get("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_StoreRequiresID(t *testing.T) {
	err := New(t.TempDir()).Store(&orchestrator.Report{Package: "p"})
	assert.Error(t, err)
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	require.NoError(t, s.Store(report("r1", "com.a", orchestrator.OutcomePassed, 1)))
	require.NoError(t, s.Store(report("r2", "com.b", orchestrator.OutcomeFailed, 2)))
	require.NoError(t, s.Store(report("r3", "com.a", orchestrator.OutcomeErrored, 3)))

	resp, err := s.List(ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []string{"r3", "r2", "r1"}, ids(resp.Runs))
	assert.False(t, resp.HasMore)
	assert.Equal(t, defaultLimit, resp.Limit)

	resp, err = s.List(ListRequest{Package: "com.a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r1"}, ids(resp.Runs))

	resp, err = s.List(ListRequest{Outcome: orchestrator.OutcomeFailed})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, ids(resp.Runs))

	resp, err = s.List(ListRequest{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, ids(resp.Runs))
	assert.True(t, resp.HasMore)

	resp, err = s.List(ListRequest{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Runs)
	assert.Equal(t, 3, resp.Total)
}

func TestStore_ListPicksUpOtherWriters(t *testing.T) {
	dir := t.TempDir()
	writer := New(dir)
	reader := New(dir)

	resp, err := reader.List(ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Runs)

	require.NoError(t, writer.Store(report("r1", "com.a", orchestrator.OutcomePassed, 0)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	resp, err = reader.List(ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids(resp.Runs))
	assert.Equal(t, 1, resp.Runs[0].Passed)

	require.NoError(t, writer.Delete("r1"))
	resp, err = reader.List(ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Runs)
}

func TestStore_Delete(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Store(report("r1", "com.a", orchestrator.OutcomePassed, 0)))

	require.NoError(t, s.Delete("r1"))
	assert.True(t, errors.Is(s.Delete("r1"), ErrNotFound))
}

func TestStore_Prune(t *testing.T) {
	s := New(t.TempDir())
	for i, id := range []string{"r1", "r2", "r3", "r4"} {
		require.NoError(t, s.Store(report(id, "com.a", orchestrator.OutcomePassed, i)))
	}

	removed, err := s.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	resp, err := s.List(ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r3"}, ids(resp.Runs))
}

func TestNewForConfig(t *testing.T) {
	configPath := t.TempDir()
	cfg := config.GetDefaultConfig()

	s := NewForConfig(cfg, configPath)
	require.NoError(t, s.Store(report("r1", "com.a", orchestrator.OutcomePassed, 0)))

	_, err := os.Stat(filepath.Join(configPath, "runs", "r1.json"))
	assert.NoError(t, err)
}

func ids(runs []Summary) []string {
	out := make([]string, 0, len(runs))
	for _, r := range runs {
		out = append(out, r.ID)
	}
	return out
}
