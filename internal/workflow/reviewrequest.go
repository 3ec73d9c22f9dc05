package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/githubclt"
	"github.com/prgate/prgate/internal/logfields"
)

// handleReviewRequested makes the requested reviewers the assignees of the
// pull request, applies the review-requested labels and puts the review
// check-run into progress.
func (o *Orchestrator) handleReviewRequested(ctx context.Context, msg any) {
	prMsg, ok := msg.(*PullRequestMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRReviewRequested, msg)
		return
	}

	clt := prMsg.Client
	repoCfg := clt.Config()
	prNumber := prMsg.PR.GetNumber()

	logger := o.logger.With(
		logfields.Repository(clt.FullName()),
		logfields.PullRequest(prNumber),
		logfields.Sender(prMsg.Sender),
	)

	requested, err := clt.RequestedReviewers(ctx, prNumber)
	if err != nil {
		logger.Error("fetching requested reviewers failed", zap.Error(err))
		return
	}

	err = o.reconcileAssignees(ctx, clt, prNumber, assigneeLogins(prMsg.PR), requested)
	if err != nil {
		logger.Error("assigning requested reviewers failed", zap.Error(err))
	}

	err = o.reconcileLabels(ctx, clt, prNumber, repoCfg.ReviewRequestedLabels, nil)
	if err != nil {
		logger.Error("updating labels failed", zap.Error(err))
	}

	o.bus.Publish(TopicCheckRunCreate, &CheckRunCreateMsg{
		Client:  clt,
		HeadSHA: prMsg.PR.GetHead().GetSHA(),
		Status:  githubclt.CheckRunStatusInProgress,
	})
}

// handleReviewRequestRemoved resets the assignees to the remaining
// requested reviewers. When no review requests remain the review-requested
// labels are removed and the review check-run is queued again.
func (o *Orchestrator) handleReviewRequestRemoved(ctx context.Context, msg any) {
	prMsg, ok := msg.(*PullRequestMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRReviewRequestRemoved, msg)
		return
	}

	clt := prMsg.Client
	repoCfg := clt.Config()
	prNumber := prMsg.PR.GetNumber()

	logger := o.logger.With(
		logfields.Repository(clt.FullName()),
		logfields.PullRequest(prNumber),
		logfields.Sender(prMsg.Sender),
	)

	requested, err := clt.RequestedReviewers(ctx, prNumber)
	if err != nil {
		logger.Error("fetching requested reviewers failed", zap.Error(err))
		return
	}

	err = o.reconcileAssignees(ctx, clt, prNumber, assigneeLogins(prMsg.PR), requested)
	if err != nil {
		logger.Error("updating assignees failed", zap.Error(err))
	}

	if len(requested) > 0 {
		return
	}

	err = o.reconcileLabels(ctx, clt, prNumber, nil, repoCfg.ReviewRequestedLabels)
	if err != nil {
		logger.Error("updating labels failed", zap.Error(err))
	}

	o.bus.Publish(TopicCheckRunCreate, &CheckRunCreateMsg{
		Client:  clt,
		HeadSHA: prMsg.PR.GetHead().GetSHA(),
		Status:  githubclt.CheckRunStatusQueued,
	})
}
