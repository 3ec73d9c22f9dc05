package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/logfields"
	"github.com/prgate/prgate/internal/tracker"
)

// Commit status states sent by github.
const (
	statusStateError   = "error"
	statusStateFailure = "failure"
	statusStatePending = "pending"
	statusStateSuccess = "success"
)

const checkRunConclusionSuccess = "success"

// handleCheckRunStarted records a created or rerequested check-run as
// IN_PROGRESS for every open pull request whose head commit the check runs
// on.
func (o *Orchestrator) handleCheckRunStarted(ctx context.Context, msg any) {
	checkMsg, ok := msg.(*CheckRunMsg)
	if !ok {
		o.logUnexpectedMsg(TopicCheckRunStarted, msg)
		return
	}

	o.recordCheckState(
		ctx,
		checkMsg.Client,
		checkMsg.CheckRun.GetHeadSHA(),
		checkMsg.CheckRun.GetName(),
		tracker.CheckStateInProgress,
	)
}

// handleCheckRunFinished records the conclusion of a completed check-run in
// the tracker and triggers a merge evaluation for the affected pull
// requests when the check succeeded.
func (o *Orchestrator) handleCheckRunFinished(ctx context.Context, msg any) {
	checkMsg, ok := msg.(*CheckRunMsg)
	if !ok {
		o.logUnexpectedMsg(TopicCheckRunFinished, msg)
		return
	}

	checkRun := checkMsg.CheckRun

	state := tracker.CheckStateFailed
	if checkRun.GetConclusion() == checkRunConclusionSuccess {
		state = tracker.CheckStateSuccess
	}

	o.recordCheckState(ctx, checkMsg.Client, checkRun.GetHeadSHA(), checkRun.GetName(), state)
}

// handleStatusChanged records a commit status change in the tracker and
// triggers a merge evaluation for the affected pull requests when the
// status succeeded.
// Status states map to check states as: error and failure to FAILED,
// pending to IN_PROGRESS, success to SUCCESS.
func (o *Orchestrator) handleStatusChanged(ctx context.Context, msg any) {
	statusMsg, ok := msg.(*StatusMsg)
	if !ok {
		o.logUnexpectedMsg(TopicStatusChanged, msg)
		return
	}

	var state tracker.CheckState
	switch statusMsg.State {
	case statusStateError, statusStateFailure:
		state = tracker.CheckStateFailed
	case statusStatePending:
		state = tracker.CheckStateInProgress
	case statusStateSuccess:
		state = tracker.CheckStateSuccess
	default:
		o.logger.Debug(
			"ignoring commit status with unknown state",
			logfields.Repository(statusMsg.Client.FullName()),
			logfields.Commit(statusMsg.SHA),
			zap.String("github.status_state", statusMsg.State),
		)
		return
	}

	o.recordCheckState(ctx, statusMsg.Client, statusMsg.SHA, statusMsg.Context, state)
}

// recordCheckState stores the state of a named check for all open pull
// requests whose head commit is sha. For successful checks a merge
// evaluation of the affected pull requests is triggered.
func (o *Orchestrator) recordCheckState(ctx context.Context, clt GithubClient, sha, checkName string, state tracker.CheckState) {
	logger := o.logger.With(
		logfields.Repository(clt.FullName()),
		logfields.Commit(sha),
		logfields.Check(checkName),
	)

	prs, err := clt.OpenPullRequestsForSHA(ctx, sha)
	if err != nil {
		logger.Error("listing pull requests for commit failed", zap.Error(err))
		return
	}

	if len(prs) == 0 {
		logger.Debug("no open pull request with matching head commit")
		return
	}

	for _, pr := range prs {
		o.tracker.SetCheckState(clt.FullName(), pr.GetNumber(), checkName, state)

		logger.Debug(
			"recorded check state",
			logfields.PullRequest(pr.GetNumber()),
			zap.String("github.check_state", string(state)),
		)

		if state == tracker.CheckStateSuccess {
			o.bus.Publish(TopicPRMerge, &MergeMsg{
				Client:   clt,
				PRNumber: pr.GetNumber(),
			})
		}
	}
}

// handleCheckRunCreate creates or updates the review check-run on the head
// commit of a pull request.
// Check-runs can only be created with github-app authentication, for
// repositories using token authentication the message is ignored.
func (o *Orchestrator) handleCheckRunCreate(ctx context.Context, msg any) {
	createMsg, ok := msg.(*CheckRunCreateMsg)
	if !ok {
		o.logUnexpectedMsg(TopicCheckRunCreate, msg)
		return
	}

	clt := createMsg.Client
	if !clt.Config().UseChecks() {
		return
	}

	err := clt.CreateReviewCheckRun(ctx, createMsg.HeadSHA, createMsg.Status, createMsg.Conclusion)
	if err != nil {
		o.logger.Error(
			"creating review check-run failed",
			logfields.Repository(clt.FullName()),
			logfields.Commit(createMsg.HeadSHA),
			zap.Error(err),
		)
	}
}
