package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/logfields"
)

// handlePRUpdated resets the review state of a pull request after new
// commits were pushed: existing reviews are dismissed, the prior reviewers
// are asked to review again and become assignees, and the review result
// labels are removed. Tracked check states of the old head commit are
// evicted.
func (o *Orchestrator) handlePRUpdated(ctx context.Context, msg any) {
	prMsg, ok := msg.(*PullRequestMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRUpdated, msg)
		return
	}

	clt := prMsg.Client
	repoCfg := clt.Config()
	prNumber := prMsg.PR.GetNumber()
	author := prMsg.PR.GetUser().GetLogin()

	logger := o.logger.With(
		logfields.Repository(clt.FullName()),
		logfields.PullRequest(prNumber),
	)

	o.tracker.Evict(clt.FullName(), prNumber)

	reviews, err := clt.Reviews(ctx, prNumber)
	if err != nil {
		logger.Error("fetching reviews failed", zap.Error(err))
		return
	}

	if len(reviews) > 0 {
		if err := clt.DismissReviews(ctx, prNumber, repoCfg.ReviewDismissMessage); err != nil {
			logger.Error("dismissing reviews failed", zap.Error(err))
		}
	}

	reviewers := make([]string, 0, len(reviews))
	for login := range reviews {
		if login == author {
			continue
		}
		reviewers = append(reviewers, login)
	}

	if len(reviewers) > 0 {
		if err := clt.RequestReviewers(ctx, prNumber, reviewers); err != nil {
			logger.Error("re-requesting reviews failed", zap.Error(err))
		}

		err := o.reconcileAssignees(ctx, clt, prNumber, assigneeLogins(prMsg.PR), reviewers)
		if err != nil {
			logger.Error("updating assignees failed", zap.Error(err))
		}
	}

	remove := make([]string, 0,
		len(repoCfg.ApprovedLabels)+len(repoCfg.ChangesRequestedLabels)+len(repoCfg.CommentedLabels))
	remove = append(remove, repoCfg.ApprovedLabels...)
	remove = append(remove, repoCfg.ChangesRequestedLabels...)
	remove = append(remove, repoCfg.CommentedLabels...)

	if err := o.reconcileLabels(ctx, clt, prNumber, nil, remove); err != nil {
		logger.Error("removing review result labels failed", zap.Error(err))
	}
}

// handleMergeTrigger triggers a merge evaluation for pull requests that
// were reopened or marked ready for review.
func (o *Orchestrator) handleMergeTrigger(ctx context.Context, msg any) {
	prMsg, ok := msg.(*PullRequestMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRMerge, msg)
		return
	}

	o.bus.Publish(TopicPRMerge, &MergeMsg{
		Client:   prMsg.Client,
		PRNumber: prMsg.PR.GetNumber(),
	})
}

// handlePRUnlabeled triggers a merge evaluation when the work-in-progress
// label was removed from a pull request. Other label removals are ignored.
func (o *Orchestrator) handlePRUnlabeled(ctx context.Context, msg any) {
	prMsg, ok := msg.(*PullRequestMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRUnlabeled, msg)
		return
	}

	if prMsg.Label != prMsg.Client.Config().WIPLabel {
		return
	}

	o.logger.Debug(
		"work-in-progress label was removed, evaluating merge",
		logfields.Repository(prMsg.Client.FullName()),
		logfields.PullRequest(prMsg.PR.GetNumber()),
		logfields.Label(prMsg.Label),
	)

	o.bus.Publish(TopicPRMerge, &MergeMsg{
		Client:   prMsg.Client,
		PRNumber: prMsg.PR.GetNumber(),
	})
}
