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
	"github.com/prgate/prgate/internal/workflow/mocks"
)

func newMockedClient(t *testing.T, repoCfg *cfg.RepositoryConfig) *mocks.MockGithubClient {
	t.Helper()

	mockctrl := gomock.NewController(t)
	t.Cleanup(mockctrl.Finish)

	clt := mocks.NewMockGithubClient(mockctrl)
	clt.EXPECT().Config().Return(repoCfg).AnyTimes()
	clt.EXPECT().FullName().Return(repoCfg.Repository).AnyTimes()

	return clt
}

func TestAlreadyMergedPullRequestIsNotMergedAgain(t *testing.T) {
	orchestrator, _, _ := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	pr := newBasicPullRequest(1, "author")
	pr.Merged = boolPtr(true)
	clt.EXPECT().GetPullRequest(gomock.Any(), 1).Return(pr, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "already merged")
}

func TestDraftPullRequestIsNeverMerged(t *testing.T) {
	orchestrator, _, trk := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	// every other gate would pass, only the draft flag blocks
	pr := newBasicPullRequest(1, "author")
	pr.Draft = boolPtr(true)
	trk.SetCheckState(repoFullName, 1, "ci", tracker.CheckStateSuccess)

	clt.EXPECT().GetPullRequest(gomock.Any(), 1).Return(pr, nil)
	clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return([]string{"ci"}, nil).AnyTimes()
	clt.EXPECT().Reviews(gomock.Any(), 1).
		Return(map[string]string{"reviewer": "APPROVED"}, nil).AnyTimes()

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "draft")
}

func TestWIPLabelBlocksMerge(t *testing.T) {
	orchestrator, _, _ := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	pr := withLabels(newBasicPullRequest(1, "author"), "WIP")
	clt.EXPECT().GetPullRequest(gomock.Any(), 1).Return(pr, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "WIP")
}

func TestRequiredCheckGate(t *testing.T) {
	t.Run("unknown state blocks", func(t *testing.T) {
		orchestrator, _, _ := newTestOrchestrator(t)
		clt := newMockedClient(t, newTestRepositoryConfig())

		clt.EXPECT().GetPullRequest(gomock.Any(), 1).
			Return(newBasicPullRequest(1, "author"), nil)
		clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return([]string{"ci"}, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Contains(t, verdict.Reason, "unknown")
	})

	t.Run("failed check blocks", func(t *testing.T) {
		orchestrator, _, trk := newTestOrchestrator(t)
		clt := newMockedClient(t, newTestRepositoryConfig())

		trk.SetCheckState(repoFullName, 1, "ci", tracker.CheckStateFailed)

		clt.EXPECT().GetPullRequest(gomock.Any(), 1).
			Return(newBasicPullRequest(1, "author"), nil)
		clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return([]string{"ci"}, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
		assert.Contains(t, verdict.Reason, "FAILED")
	})

	t.Run("successful check passes", func(t *testing.T) {
		orchestrator, _, trk := newTestOrchestrator(t)
		clt := newMockedClient(t, newTestRepositoryConfig())

		trk.SetCheckState(repoFullName, 1, "ci", tracker.CheckStateSuccess)

		clt.EXPECT().GetPullRequest(gomock.Any(), 1).
			Return(newBasicPullRequest(1, "author"), nil)
		clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return([]string{"ci"}, nil)
		clt.EXPECT().Reviews(gomock.Any(), 1).
			Return(map[string]string{"reviewer": "APPROVED"}, nil)
		clt.EXPECT().SetAssignees(gomock.Any(), 1, []string{"reviewer"}).Return(nil)
		clt.EXPECT().Merge(gomock.Any(), 1, "merged automatically", "merge").Return(nil)
		clt.EXPECT().ListOpenPullRequests(gomock.Any()).Return(nil, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})
}

func TestUnknownMergeableStateAbortsWithWarning(t *testing.T) {
	orchestrator, _, _ := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	pr := newBasicPullRequest(1, "author")
	pr.Mergeable = nil

	clt.EXPECT().GetPullRequest(gomock.Any(), 1).Return(pr, nil)
	clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.True(t, verdict.Warn)
}

func TestApprovalStrategy(t *testing.T) {
	setup := func(t *testing.T, strategy cfg.ApprovalStrategy) (*Orchestrator, *mocks.MockGithubClient) {
		orchestrator, _, _ := newTestOrchestrator(t)

		repoCfg := newTestRepositoryConfig()
		repoCfg.ApprovalStrategy = strategy
		clt := newMockedClient(t, repoCfg)

		clt.EXPECT().GetPullRequest(gomock.Any(), 1).
			Return(newBasicPullRequest(1, "author"), nil)
		clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
		// one approval out of two requested reviewers
		clt.EXPECT().Reviews(gomock.Any(), 1).
			Return(map[string]string{"alice": "APPROVED"}, nil)

		return orchestrator, clt
	}

	t.Run("any merges with one approval", func(t *testing.T) {
		orchestrator, clt := setup(t, cfg.ApprovalStrategyAny)

		clt.EXPECT().SetAssignees(gomock.Any(), 1, []string{"alice"}).Return(nil)
		clt.EXPECT().Merge(gomock.Any(), 1, "merged automatically", "merge").Return(nil)
		clt.EXPECT().ListOpenPullRequests(gomock.Any()).Return(nil, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})

	t.Run("all blocks with one approval", func(t *testing.T) {
		orchestrator, clt := setup(t, cfg.ApprovalStrategyAll)

		clt.EXPECT().RequestedReviewers(gomock.Any(), 1).
			Return([]string{"alice", "carol"}, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})
}

func TestChangesRequestedReviewBlocksMerge(t *testing.T) {
	orchestrator, _, _ := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	clt.EXPECT().GetPullRequest(gomock.Any(), 1).
		Return(newBasicPullRequest(1, "author"), nil)
	clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
	clt.EXPECT().Reviews(gomock.Any(), 1).
		Return(map[string]string{"alice": "APPROVED", "bob": "CHANGES_REQUESTED"}, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "changes were requested")
}

func TestWithoutReviewsMergeIsBlocked(t *testing.T) {
	orchestrator, _, _ := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	clt.EXPECT().GetPullRequest(gomock.Any(), 1).
		Return(newBasicPullRequest(1, "author"), nil)
	clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
	clt.EXPECT().Reviews(gomock.Any(), 1).Return(map[string]string{}, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "no reviews")
}

func TestDependabotAutomerge(t *testing.T) {
	t.Run("disabled, unreviewed pull request is not merged", func(t *testing.T) {
		orchestrator, _, _ := newTestOrchestrator(t)
		clt := newMockedClient(t, newTestRepositoryConfig())

		clt.EXPECT().GetPullRequest(gomock.Any(), 1).
			Return(newBasicPullRequest(1, cfg.DependabotLogin), nil)
		clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
		clt.EXPECT().Reviews(gomock.Any(), 1).Return(map[string]string{}, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.False(t, verdict.Allowed)
	})

	t.Run("enabled, merged without reviews and assignee update", func(t *testing.T) {
		orchestrator, _, _ := newTestOrchestrator(t)

		repoCfg := newTestRepositoryConfig()
		repoCfg.AutomergeDependabot = true
		clt := newMockedClient(t, repoCfg)

		clt.EXPECT().GetPullRequest(gomock.Any(), 1).
			Return(newBasicPullRequest(1, cfg.DependabotLogin), nil)
		clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
		clt.EXPECT().Merge(gomock.Any(), 1, "merged automatically", "merge").Return(nil)
		clt.EXPECT().ListOpenPullRequests(gomock.Any()).Return(nil, nil)

		verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
		require.NoError(t, err)
		assert.True(t, verdict.Allowed)
	})
}

func TestOwnerAutomergeSkipsReviewGates(t *testing.T) {
	orchestrator, _, _ := newTestOrchestrator(t)

	repoCfg := newTestRepositoryConfig()
	repoCfg.AutomergeOwner = true
	clt := newMockedClient(t, repoCfg)

	clt.EXPECT().GetPullRequest(gomock.Any(), 1).
		Return(newBasicPullRequest(1, "testman"), nil)
	clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
	clt.EXPECT().Merge(gomock.Any(), 1, "merged automatically", "merge").Return(nil)
	clt.EXPECT().ListOpenPullRequests(gomock.Any()).Return(nil, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 1)
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
}

func TestSuccessfulMergePublishesConflictBatch(t *testing.T) {
	orchestrator, observer, _ := newTestOrchestrator(t)
	clt := newMockedClient(t, newTestRepositoryConfig())

	clt.EXPECT().GetPullRequest(gomock.Any(), 5).
		Return(newBasicPullRequest(5, "author"), nil)
	clt.EXPECT().RequiredChecks(gomock.Any(), "main").Return(nil, nil)
	clt.EXPECT().Reviews(gomock.Any(), 5).
		Return(map[string]string{"alice": "APPROVED"}, nil)
	clt.EXPECT().SetAssignees(gomock.Any(), 5, []string{"alice"}).Return(nil)
	clt.EXPECT().Merge(gomock.Any(), 5, "merged automatically", "merge").Return(nil)

	notMergeable := newBasicPullRequest(21, "dev")
	notMergeable.Mergeable = boolPtr(false)
	clt.EXPECT().ListOpenPullRequests(gomock.Any()).Return(
		[]*github.PullRequest{
			newBasicPullRequest(5, "author"),
			newBasicPullRequest(20, "dev"),
			notMergeable,
		}, nil)

	verdict, err := orchestrator.Evaluate(context.Background(), clt, 5)
	require.NoError(t, err)
	require.True(t, verdict.Allowed)

	records := observer.recordsForTopic(TopicPRConflict)
	require.Len(t, records, 1)

	conflictMsg, ok := records[0].msg.(*ConflictMsg)
	require.True(t, ok)
	assert.Equal(t, 5, conflictMsg.MergedPRNumber)
	require.Len(t, conflictMsg.PRs, 1)
	assert.Equal(t, 20, conflictMsg.PRs[0].GetNumber())
}
