package workflow

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/githubclt"
	"github.com/prgate/prgate/internal/logfields"
)

// handleReviewSubmitted applies the label, assignee and review check-run
// consequences of a submitted review.
// Approvals drop the reviewer from the assignees and conclude the review
// check-run successfully, requested changes hand the pull request back to
// the author and fail the check-run, comment reviews only add the comment
// labels. All other review states are ignored.
func (o *Orchestrator) handleReviewSubmitted(ctx context.Context, msg any) {
	reviewMsg, ok := msg.(*ReviewMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRReviewSubmitted, msg)
		return
	}

	// The webhook payload reports review states in lowercase, the REST
	// API in uppercase.
	state := strings.ToUpper(reviewMsg.Review.GetState())

	logger := o.logger.With(
		logfields.Repository(reviewMsg.Client.FullName()),
		logfields.PullRequest(reviewMsg.PR.GetNumber()),
		logfields.Sender(reviewMsg.Sender),
		zap.String("github.review_state", state),
	)

	switch state {
	case githubclt.ReviewStateApproved:
		o.reviewApproved(ctx, reviewMsg, logger)
	case githubclt.ReviewStateChangesRequested:
		o.reviewChangesRequested(ctx, reviewMsg, logger)
	case githubclt.ReviewStateCommented:
		o.reviewCommented(ctx, reviewMsg, logger)
	default:
		logger.Debug("ignoring review state")
	}
}

func (o *Orchestrator) reviewApproved(ctx context.Context, msg *ReviewMsg, logger *zap.Logger) {
	clt := msg.Client
	repoCfg := clt.Config()
	prNumber := msg.PR.GetNumber()

	assignees := without(assigneeLogins(msg.PR), msg.Sender)
	if err := o.reconcileAssignees(ctx, clt, prNumber, assigneeLogins(msg.PR), assignees); err != nil {
		logger.Error("removing approver from assignees failed", zap.Error(err))
	}

	reviews, err := clt.Reviews(ctx, prNumber)
	if err != nil {
		logger.Error("fetching reviews failed", zap.Error(err))
		return
	}

	changesRequested := false
	for _, reviewState := range reviews {
		if reviewState == githubclt.ReviewStateChangesRequested {
			changesRequested = true
			break
		}
	}

	var add []string
	if !changesRequested {
		add = repoCfg.ApprovedLabels
	}

	err = o.reconcileLabels(ctx, clt, prNumber, add, repoCfg.ReviewRequestedLabels)
	if err != nil {
		logger.Error("updating labels failed", zap.Error(err))
	}

	if repoCfg.UseChecks() {
		o.bus.Publish(TopicCheckRunCreate, &CheckRunCreateMsg{
			Client:     clt,
			HeadSHA:    msg.PR.GetHead().GetSHA(),
			Status:     githubclt.CheckRunStatusCompleted,
			Conclusion: githubclt.CheckRunConclusionSuccess,
		})
		return
	}

	// Without check-runs no check_run event will trigger the merge
	// evaluation, trigger it directly.
	o.bus.Publish(TopicPRMerge, &MergeMsg{Client: clt, PRNumber: prNumber})
}

func (o *Orchestrator) reviewChangesRequested(ctx context.Context, msg *ReviewMsg, logger *zap.Logger) {
	clt := msg.Client
	repoCfg := clt.Config()
	prNumber := msg.PR.GetNumber()
	author := msg.PR.GetUser().GetLogin()

	err := o.reconcileAssignees(ctx, clt, prNumber, assigneeLogins(msg.PR), []string{author})
	if err != nil {
		logger.Error("reassigning pull request to author failed", zap.Error(err))
	}

	remove := make([]string, 0, len(repoCfg.ApprovedLabels)+len(repoCfg.ReviewRequestedLabels))
	remove = append(remove, repoCfg.ApprovedLabels...)
	remove = append(remove, repoCfg.ReviewRequestedLabels...)

	err = o.reconcileLabels(ctx, clt, prNumber, repoCfg.ChangesRequestedLabels, remove)
	if err != nil {
		logger.Error("updating labels failed", zap.Error(err))
	}

	if repoCfg.UseChecks() {
		o.bus.Publish(TopicCheckRunCreate, &CheckRunCreateMsg{
			Client:     clt,
			HeadSHA:    msg.PR.GetHead().GetSHA(),
			Status:     githubclt.CheckRunStatusCompleted,
			Conclusion: githubclt.CheckRunConclusionFailure,
		})
	}
}

func (o *Orchestrator) reviewCommented(ctx context.Context, msg *ReviewMsg, logger *zap.Logger) {
	repoCfg := msg.Client.Config()

	err := o.reconcileLabels(ctx, msg.Client, msg.PR.GetNumber(), repoCfg.CommentedLabels, nil)
	if err != nil {
		logger.Error("updating labels failed", zap.Error(err))
	}
}
