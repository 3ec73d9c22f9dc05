package workflow

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/githubclt"
	"github.com/prgate/prgate/internal/logfields"
)

// conflictMsgIDPlaceholder in the conflict message template is replaced with
// the number of the merged pull request.
const conflictMsgIDPlaceholder = "<ID>"

// handleConflict checks every pull request of a ConflictMsg for merge
// conflicts caused by the merged pull request.
// Conflicting pull requests get a templated comment, are reassigned to
// their author and relabeled as changes-requested. Batch members are
// processed independently, a failure for one does not abort the others.
func (o *Orchestrator) handleConflict(ctx context.Context, msg any) {
	conflictMsg, ok := msg.(*ConflictMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRConflict, msg)
		return
	}

	clt := conflictMsg.Client
	repoCfg := clt.Config()

	logger := o.logger.With(
		logfields.Repository(clt.FullName()),
		logfields.PullRequest(conflictMsg.MergedPRNumber),
	)

	if repoCfg.ConflictMessage == "" {
		logger.Debug("conflict detection is disabled, no conflict message is configured")
		return
	}

	comment := strings.ReplaceAll(
		repoCfg.ConflictMessage,
		conflictMsgIDPlaceholder,
		strconv.Itoa(conflictMsg.MergedPRNumber),
	)

	for _, stalePR := range conflictMsg.PRs {
		prNumber := stalePR.GetNumber()
		prLogger := logger.With(zap.Int("github.conflicting_pull_request", prNumber))

		pr, err := clt.GetPullRequest(ctx, prNumber)
		if err != nil {
			prLogger.Error("fetching pull request failed", zap.Error(err))
			continue
		}

		if pr.GetMergeableState() != githubclt.MergeableStateDirty {
			continue
		}

		prLogger.Info("pull request conflicts with merged pull request")

		if err := clt.CreateIssueComment(ctx, prNumber, comment); err != nil {
			prLogger.Error("creating conflict comment failed", zap.Error(err))
		}

		author := pr.GetUser().GetLogin()
		err = o.reconcileAssignees(ctx, clt, prNumber, assigneeLogins(pr), []string{author})
		if err != nil {
			prLogger.Error("reassigning pull request to author failed", zap.Error(err))
		}

		o.bus.Publish(TopicPREditLabels, &EditLabelsMsg{
			Client:   clt,
			PRNumber: prNumber,
			Add:      repoCfg.ChangesRequestedLabels,
			Remove:   append(append([]string{}, repoCfg.ApprovedLabels...), repoCfg.ReviewRequestedLabels...),
		})
	}
}

// handleEditLabels reconciles the labels of a pull request.
func (o *Orchestrator) handleEditLabels(ctx context.Context, msg any) {
	labelsMsg, ok := msg.(*EditLabelsMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPREditLabels, msg)
		return
	}

	err := o.reconcileLabels(ctx, labelsMsg.Client, labelsMsg.PRNumber, labelsMsg.Add, labelsMsg.Remove)
	if err != nil {
		o.logger.Error(
			"reconciling labels failed",
			logfields.Repository(labelsMsg.Client.FullName()),
			logfields.PullRequest(labelsMsg.PRNumber),
			zap.Error(err),
		)
	}
}
