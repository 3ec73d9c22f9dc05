package workflow

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/prgate/prgate/internal/cfg"
	"github.com/prgate/prgate/internal/events"
	"github.com/prgate/prgate/internal/tracker"
)

const repoFullName = "testman/repo"

func strPtr(in string) *string {
	return &in
}

func intPtr(in int) *int {
	return &in
}

func boolPtr(in bool) *bool {
	return &in
}

func newTestRepositoryConfig() *cfg.RepositoryConfig {
	return &cfg.RepositoryConfig{
		Repository:             repoFullName,
		AuthMethod:             cfg.AuthMethodToken,
		User:                   "testman",
		Token:                  "token",
		WebhookSecret:          "s3cret",
		ApprovedLabels:         []string{"approved"},
		ChangesRequestedLabels: []string{"needs-update"},
		ReviewRequestedLabels:  []string{"review-requested"},
		CommentedLabels:        []string{"commented"},
		WIPLabel:               "WIP",
		ReviewDismissMessage:   "Pull request was updated",
		MergeMessage:           "merged automatically",
		ConflictMessage:        "Pull request #<ID> caused a conflict in this PR",
		ApprovalStrategy:       cfg.ApprovalStrategyAny,
		MergeMethod:            "merge",
		ReviewCheckName:        "Code review",
	}
}

func newBasicPullRequest(prNumber int, author string) *github.PullRequest {
	return &github.PullRequest{
		Number:    intPtr(prNumber),
		User:      &github.User{Login: strPtr(author)},
		Mergeable: boolPtr(true),
		Base: &github.PullRequestBranch{
			Ref: strPtr("main"),
		},
		Head: &github.PullRequestBranch{
			Ref: strPtr("feature"),
			SHA: strPtr("5b9f66a"),
		},
	}
}

func withAssignees(pr *github.PullRequest, logins ...string) *github.PullRequest {
	for _, login := range logins {
		pr.Assignees = append(pr.Assignees, &github.User{Login: strPtr(login)})
	}
	return pr
}

func withLabels(pr *github.PullRequest, names ...string) *github.PullRequest {
	for _, name := range names {
		pr.Labels = append(pr.Labels, &github.Label{Name: strPtr(name)})
	}
	return pr
}

type publishRecord struct {
	topic string
	msg   any
}

// recordingObserver captures all bus publications for assertions.
type recordingObserver struct {
	lock    sync.Mutex
	records []publishRecord
}

func (r *recordingObserver) Published(topic string, msg any) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.records = append(r.records, publishRecord{topic: topic, msg: msg})
}

func (r *recordingObserver) recordsForTopic(topic string) []publishRecord {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []publishRecord
	for _, record := range r.records {
		if record.topic == topic {
			result = append(result, record)
		}
	}

	return result
}

// newTestOrchestrator creates an orchestrator with a bus that has no
// subscribers registered, publications are only captured by the returned
// observer.
func newTestOrchestrator(t *testing.T) (*Orchestrator, *recordingObserver, *tracker.Tracker) {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t).Named(t.Name())))

	observer := &recordingObserver{}
	bus := events.NewBus(events.WithObserver(observer))
	t.Cleanup(bus.Stop)

	trk := tracker.New(filepath.Join(t.TempDir(), "tracker.json"))

	return NewOrchestrator(bus, trk), observer, trk
}

// containsMatcher matches string arguments containing a substring.
type containsMatcher string

func (m containsMatcher) Matches(x any) bool {
	s, ok := x.(string)
	return ok && strings.Contains(s, string(m))
}

func (m containsMatcher) String() string {
	return "contains " + string(m)
}
