package workflow

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-github/v59/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prgate/prgate/internal/cfg"
	"github.com/prgate/prgate/internal/tracker"
)

func newCheckRun(name, headSHA, conclusion string) *github.CheckRun {
	return &github.CheckRun{
		Name:       strPtr(name),
		HeadSHA:    strPtr(headSHA),
		Conclusion: strPtr(conclusion),
	}
}

func TestSuccessfulCheckRunTriggersMergeEvaluation(t *testing.T) {
	orchestrator, observer, trk := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	clt.EXPECT().OpenPullRequestsForSHA(gomock.Any(), "5b9f66a").
		Return([]*github.PullRequest{newBasicPullRequest(7, "author")}, nil)

	orchestrator.handleCheckRunFinished(context.Background(), &CheckRunMsg{
		Client:   clt,
		CheckRun: newCheckRun("ci", "5b9f66a", "success"),
	})

	assert.Equal(t,
		map[string]tracker.CheckState{"ci": tracker.CheckStateSuccess},
		trk.Checks(repoFullName, 7),
	)

	records := observer.recordsForTopic(TopicPRMerge)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].msg.(*MergeMsg).PRNumber)
}

func TestFailedCheckRunDoesNotTriggerMergeEvaluation(t *testing.T) {
	orchestrator, observer, trk := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	clt.EXPECT().OpenPullRequestsForSHA(gomock.Any(), "5b9f66a").
		Return([]*github.PullRequest{newBasicPullRequest(7, "author")}, nil)

	orchestrator.handleCheckRunFinished(context.Background(), &CheckRunMsg{
		Client:   clt,
		CheckRun: newCheckRun("ci", "5b9f66a", "failure"),
	})

	assert.Equal(t,
		map[string]tracker.CheckState{"ci": tracker.CheckStateFailed},
		trk.Checks(repoFullName, 7),
	)
	assert.Empty(t, observer.recordsForTopic(TopicPRMerge))
}

func TestStartedCheckRunIsRecordedInProgress(t *testing.T) {
	orchestrator, observer, trk := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	checkRun := &github.CheckRun{Name: strPtr("ci"), HeadSHA: strPtr("5b9f66a")}

	clt.EXPECT().OpenPullRequestsForSHA(gomock.Any(), "5b9f66a").
		Return([]*github.PullRequest{newBasicPullRequest(7, "author")}, nil)

	orchestrator.handleCheckRunStarted(context.Background(), &CheckRunMsg{
		Client:   clt,
		CheckRun: checkRun,
	})

	assert.Equal(t,
		map[string]tracker.CheckState{"ci": tracker.CheckStateInProgress},
		trk.Checks(repoFullName, 7),
	)
	assert.Empty(t, observer.recordsForTopic(TopicPRMerge))
}

func TestCommitStatusStateMapping(t *testing.T) {
	testcases := []struct {
		statusState   string
		expectedState tracker.CheckState
	}{
		{statusState: "error", expectedState: tracker.CheckStateFailed},
		{statusState: "failure", expectedState: tracker.CheckStateFailed},
		{statusState: "pending", expectedState: tracker.CheckStateInProgress},
		{statusState: "success", expectedState: tracker.CheckStateSuccess},
	}

	for _, tc := range testcases {
		t.Run(tc.statusState, func(t *testing.T) {
			orchestrator, _, trk := newTestOrchestrator(t)
			clt := newMockedClient(t, newTestRepositoryConfig())

			clt.EXPECT().OpenPullRequestsForSHA(gomock.Any(), "5b9f66a").
				Return([]*github.PullRequest{newBasicPullRequest(7, "author")}, nil)

			orchestrator.handleStatusChanged(context.Background(), &StatusMsg{
				Client:  clt,
				SHA:     "5b9f66a",
				State:   tc.statusState,
				Context: "jenkins/build",
			})

			assert.Equal(t,
				map[string]tracker.CheckState{"jenkins/build": tc.expectedState},
				trk.Checks(repoFullName, 7),
			)
		})
	}
}

func TestUnknownCommitStatusStateIsIgnored(t *testing.T) {
	orchestrator, _, trk := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	orchestrator.handleStatusChanged(context.Background(), &StatusMsg{
		Client:  clt,
		SHA:     "5b9f66a",
		State:   "flapping",
		Context: "jenkins/build",
	})

	assert.Empty(t, trk.Checks(repoFullName, 7))
}

func TestReviewCheckRunRequiresAppAuthentication(t *testing.T) {
	t.Run("token authentication ignores the request", func(t *testing.T) {
		orchestrator, _, _ := newTestOrchestrator(t)
		clt := newMockedClient(t, newTestRepositoryConfig())

		orchestrator.handleCheckRunCreate(context.Background(), &CheckRunCreateMsg{
			Client:  clt,
			HeadSHA: "5b9f66a",
			Status:  "queued",
		})
	})

	t.Run("app authentication creates the check-run", func(t *testing.T) {
		orchestrator, _, _ := newTestOrchestrator(t)

		repoCfg := newTestRepositoryConfig()
		repoCfg.AuthMethod = cfg.AuthMethodApp
		clt := newMockedClient(t, repoCfg)

		clt.EXPECT().
			CreateReviewCheckRun(gomock.Any(), "5b9f66a", "completed", "success").
			Return(nil)

		orchestrator.handleCheckRunCreate(context.Background(), &CheckRunCreateMsg{
			Client:     clt,
			HeadSHA:    "5b9f66a",
			Status:     "completed",
			Conclusion: "success",
		})
	})
}
