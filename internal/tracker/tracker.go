// Package tracker keeps the last known state of check-runs and commit
// statuses per pull request.
//
// Querying the github API for check states on every merge attempt is
// expensive and races with eventual consistency on the API side. The tracker
// is fed from the same webhook stream that reports check transitions and is
// the source the merge evaluation reads required-check states from.
// If an event is missed, the affected check stays unknown and blocks the
// merge until the check is re-run.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/logfields"
)

const loggerName = "tracker"

// CheckState is the tracked state of a single named check.
type CheckState string

const (
	CheckStateInProgress CheckState = "IN_PROGRESS"
	CheckStateSuccess    CheckState = "SUCCESS"
	CheckStateFailed     CheckState = "FAILED"
)

// Tracker is a two-level map: repository full name -> pull request number ->
// check name -> state.
// Entries are created lazily and are last-write-wins per check name.
// All methods are safe for concurrent use.
type Tracker struct {
	lock         sync.RWMutex
	repositories map[string]map[int]map[string]CheckState

	snapshotPath string
	logger       *zap.Logger
}

// New returns a tracker that persists its state to snapshotPath.
func New(snapshotPath string) *Tracker {
	return &Tracker{
		repositories: map[string]map[int]map[string]CheckState{},
		snapshotPath: snapshotPath,
		logger:       zap.L().Named(loggerName),
	}
}

// SetCheckState records the state of a check for a pull request.
// Later calls for the same check name overwrite earlier ones.
func (t *Tracker) SetCheckState(repo string, prNumber int, checkName string, state CheckState) {
	t.lock.Lock()
	defer t.lock.Unlock()

	prs, exist := t.repositories[repo]
	if !exist {
		prs = map[int]map[string]CheckState{}
		t.repositories[repo] = prs
		t.logger.Debug(
			"started tracking repository",
			logfields.Repository(repo),
			logfields.Event("tracker_repository_added"),
		)
	}

	checks, exist := prs[prNumber]
	if !exist {
		checks = map[string]CheckState{}
		prs[prNumber] = checks
	}

	checks[checkName] = state

	t.logger.Debug(
		"tracked check state",
		logfields.Repository(repo),
		logfields.PullRequest(prNumber),
		logfields.Check(checkName),
		zap.String("check_state", string(state)),
	)
}

// Checks returns a copy of the tracked check states for a pull request.
// An untracked pull request yields an empty map.
func (t *Tracker) Checks(repo string, prNumber int) map[string]CheckState {
	t.lock.RLock()
	defer t.lock.RUnlock()

	checks := t.repositories[repo][prNumber]
	result := make(map[string]CheckState, len(checks))
	for name, state := range checks {
		result[name] = state
	}

	return result
}

// Evict removes all tracked state of a pull request.
func (t *Tracker) Evict(repo string, prNumber int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	prs, exist := t.repositories[repo]
	if !exist {
		return
	}

	delete(prs, prNumber)
	t.logger.Debug(
		"evicted pull request from tracker",
		logfields.Repository(repo),
		logfields.PullRequest(prNumber),
		logfields.Event("tracker_pr_evicted"),
	)
}

// Save serializes the full state to the snapshot file, creating the parent
// directory if needed.
func (t *Tracker) Save() error {
	t.lock.RLock()
	data, err := json.Marshal(t.repositories)
	t.lock.RUnlock()
	if err != nil {
		return fmt.Errorf("marshaling tracker state failed: %w", err)
	}

	if dir := filepath.Dir(t.snapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating snapshot directory failed: %w", err)
		}
	}

	if err := os.WriteFile(t.snapshotPath, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot file failed: %w", err)
	}

	t.logger.Debug(
		"tracker state saved",
		zap.String("snapshot_file", t.snapshotPath),
		logfields.Event("tracker_state_saved"),
	)

	return nil
}

// Load replaces the in-memory state with the snapshot file content.
// A missing snapshot file is not an error, the tracker then starts empty.
func (t *Tracker) Load() error {
	data, err := os.ReadFile(t.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.logger.Debug(
				"snapshot file does not exist, tracker starts empty",
				zap.String("snapshot_file", t.snapshotPath),
			)
			return nil
		}

		return fmt.Errorf("reading snapshot file failed: %w", err)
	}

	var loaded map[string]map[int]map[string]CheckState
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("unmarshaling snapshot file failed: %w", err)
	}

	t.lock.Lock()
	t.repositories = loaded
	t.lock.Unlock()

	t.logger.Info(
		"tracker state loaded",
		zap.String("snapshot_file", t.snapshotPath),
		logfields.Event("tracker_state_loaded"),
	)

	return nil
}
