package runstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"csuite/internal/config"
	"csuite/internal/orchestrator"
	"csuite/pkg/logging"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// ErrNotFound is returned for unknown run IDs.
var ErrNotFound = errors.New("run not found")

// Summary is the listing view of a stored report.
type Summary struct {
	ID         string               `json:"id"`
	Package    string               `json:"package"`
	Serial     string               `json:"serial,omitempty"`
	Outcome    orchestrator.Outcome `json:"outcome"`
	StartedAt  time.Time            `json:"startedAt"`
	DurationMs int64                `json:"durationMs"`
	Passed     int                  `json:"passed"`
	Failed     int                  `json:"failed"`
	Error      string               `json:"error,omitempty"`
}

// ListRequest filters and pages a listing.
type ListRequest struct {
	Package string
	Outcome orchestrator.Outcome
	Limit   int
	Offset  int
}

// ListResponse is one page of summaries, newest first.
type ListResponse struct {
	Runs    []Summary `json:"runs"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"hasMore"`
}

// Store keeps one JSON file per report below a directory.
type Store struct {
	storage *config.Storage
	entity  string
	mu      sync.RWMutex
	cache   map[string]*Summary
}

var _ orchestrator.ReportStore = (*Store)(nil)

// New creates a store writing to <runsDir>/<id>.json.
func New(runsDir string) *Store {
	runsDir = filepath.Clean(runsDir)
	return &Store{
		storage: config.NewStorageWithPath(filepath.Dir(runsDir)).WithExtension(".json"),
		entity:  filepath.Base(runsDir),
		cache:   make(map[string]*Summary),
	}
}

// NewForConfig creates the store for the runs directory of cfg.
func NewForConfig(cfg config.CSuiteConfig, configPath string) *Store {
	return New(cfg.RunsDir(configPath))
}

// Store persists report.
func (s *Store) Store(report *orchestrator.Report) error {
	if report.ID == "" {
		return fmt.Errorf("report for %s has no ID", report.Package)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", report.ID, err)
	}
	if err := s.storage.Save(s.entity, report.ID, data); err != nil {
		return fmt.Errorf("failed to save run %s: %w", report.ID, err)
	}
	s.cache[report.ID] = summarize(report)

	logging.Debug("RunStore", "Stored run %s for %s", report.ID, report.Package)
	return nil
}

// Get loads the full report with the given ID.
func (s *Store) Get(id string) (*orchestrator.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.storage.Load(s.entity, id)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	var report orchestrator.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", id, err)
	}
	return &report, nil
}

// List returns stored runs matching req, newest first.
func (s *Store) List(req ListRequest) (*ListResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	if err := s.refreshCache(); err != nil {
		return nil, fmt.Errorf("failed to refresh run cache: %w", err)
	}

	var filtered []*Summary
	for _, summary := range s.cache {
		if req.Package != "" && summary.Package != req.Package {
			continue
		}
		if req.Outcome != "" && summary.Outcome != req.Outcome {
			continue
		}
		filtered = append(filtered, summary)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].StartedAt.Equal(filtered[j].StartedAt) {
			return filtered[i].ID < filtered[j].ID
		}
		return filtered[i].StartedAt.After(filtered[j].StartedAt)
	})

	total := len(filtered)
	resp := &ListResponse{Runs: []Summary{}, Total: total, Limit: limit, Offset: offset}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		for _, summary := range filtered[offset:end] {
			resp.Runs = append(resp.Runs, *summary)
		}
	}
	resp.HasMore = offset+len(resp.Runs) < total
	return resp, nil
}

// Delete removes a stored run.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(s.entity, id); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	delete(s.cache, id)
	logging.Debug("RunStore", "Deleted run %s", id)
	return nil
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(keep int) (int, error) {
	all, err := s.List(ListRequest{Limit: maxLimit})
	if err != nil {
		return 0, err
	}
	runs := all.Runs
	for all.HasMore {
		all, err = s.List(ListRequest{Limit: maxLimit, Offset: len(runs)})
		if err != nil {
			return 0, err
		}
		runs = append(runs, all.Runs...)
	}

	removed := 0
	for i := keep; i < len(runs); i++ {
		if err := s.Delete(runs[i].ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// refreshCache loads summaries for files not yet cached and forgets files
// that no longer exist.
func (s *Store) refreshCache() error {
	ids, err := s.storage.List(s.entity)
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(ids))
	for _, id := range ids {
		existing[id] = true
		if _, ok := s.cache[id]; ok {
			continue
		}
		data, err := s.storage.Load(s.entity, id)
		if err != nil {
			logging.Warn("RunStore", "Failed to load run %s: %v", id, err)
			continue
		}
		var report orchestrator.Report
		if err := json.Unmarshal(data, &report); err != nil {
			logging.Warn("RunStore", "Failed to unmarshal run %s: %v", id, err)
			continue
		}
		s.cache[id] = summarize(&report)
	}

	for id := range s.cache {
		if !existing[id] {
			delete(s.cache, id)
		}
	}
	return nil
}

func summarize(r *orchestrator.Report) *Summary {
	s := &Summary{
		ID:         r.ID,
		Package:    r.Package,
		Serial:     r.Serial,
		Outcome:    r.Outcome,
		StartedAt:  r.StartedAt,
		DurationMs: r.DurationMs,
		Error:      r.Error,
	}
	if r.Counts != nil {
		s.Passed = r.Counts.Passed
		s.Failed = r.Counts.Failed
	}
	return s
}
