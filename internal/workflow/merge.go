package workflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/cfg"
	"github.com/prgate/prgate/internal/githubclt"
	"github.com/prgate/prgate/internal/logfields"
	"github.com/prgate/prgate/internal/tracker"
)

// Verdict is the result of a merge evaluation.
// When Allowed is true the pull request was merged, otherwise Reason names
// the first gate that blocked the merge. Warn marks reasons that indicate an
// unexpected state instead of a regular precondition.
type Verdict struct {
	Allowed bool
	Reason  string
	Warn    bool
}

func blocked(reason string) *Verdict {
	return &Verdict{Reason: reason}
}

func (o *Orchestrator) handleMerge(ctx context.Context, msg any) {
	mergeMsg, ok := msg.(*MergeMsg)
	if !ok {
		o.logUnexpectedMsg(TopicPRMerge, msg)
		return
	}

	logger := o.logger.With(
		logfields.Repository(mergeMsg.Client.FullName()),
		logfields.PullRequest(mergeMsg.PRNumber),
	)

	verdict, err := o.Evaluate(ctx, mergeMsg.Client, mergeMsg.PRNumber)
	if err != nil {
		logger.Error("merge evaluation failed", zap.Error(err))
		return
	}

	switch {
	case verdict.Allowed:
		logger.Info("pull request merged")
	case verdict.Warn:
		logger.Warn("merge blocked", zap.String("reason", verdict.Reason))
	default:
		logger.Debug("merge blocked", zap.String("reason", verdict.Reason))
	}
}

// Evaluate refetches the live state of the pull request and evaluates the
// merge gates in a fixed order, stopping at the first one that blocks.
// When all gates pass the pull request is merged and, if other open
// mergeable pull requests exist, a conflict check for them is published.
func (o *Orchestrator) Evaluate(ctx context.Context, clt GithubClient, prNumber int) (*Verdict, error) {
	repoCfg := clt.Config()

	pr, err := clt.GetPullRequest(ctx, prNumber)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request failed: %w", err)
	}

	if pr.GetMerged() {
		return blocked("pull request is already merged"), nil
	}

	if pr.GetDraft() {
		return blocked("pull request is a draft"), nil
	}

	if prHasLabel(pr, repoCfg.WIPLabel) {
		return blocked(fmt.Sprintf("pull request has the %q label", repoCfg.WIPLabel)), nil
	}

	if verdict := o.evalRequiredChecks(ctx, clt, pr); verdict != nil {
		return verdict, nil
	}

	if pr.Mergeable == nil || !pr.GetMergeable() {
		return &Verdict{
			Reason: fmt.Sprintf("pull request is not mergeable, mergeable state: %q", pr.GetMergeableState()),
			Warn:   true,
		}, nil
	}

	author := pr.GetUser().GetLogin()

	if !isAutomergeAuthor(repoCfg, author) {
		verdict, reviewers, err := o.evalReviews(ctx, clt, prNumber)
		if err != nil {
			return nil, err
		}
		if verdict != nil {
			return verdict, nil
		}

		current := assigneeLogins(pr)
		desired := without(reviewers, author)
		if err := o.reconcileAssignees(ctx, clt, prNumber, current, desired); err != nil {
			return nil, err
		}
	}

	if err := clt.Merge(ctx, prNumber, repoCfg.MergeMessage, repoCfg.MergeMethod); err != nil {
		return nil, fmt.Errorf("merging pull request failed: %w", err)
	}

	o.publishConflictBatch(ctx, clt, prNumber)

	return &Verdict{Allowed: true, Reason: "all merge gates passed"}, nil
}

// evalRequiredChecks resolves the branch-protection required checks of the
// base branch against the tracker. A nil verdict means the gate passed.
func (o *Orchestrator) evalRequiredChecks(ctx context.Context, clt GithubClient, pr *github.PullRequest) *Verdict {
	required, err := clt.RequiredChecks(ctx, pr.GetBase().GetRef())
	if err != nil {
		return &Verdict{
			Reason: fmt.Sprintf("fetching required checks failed: %s", err),
			Warn:   true,
		}
	}

	if len(required) == 0 {
		return nil
	}

	states := o.tracker.Checks(clt.FullName(), pr.GetNumber())
	for _, checkName := range required {
		state, known := states[checkName]
		if !known {
			return blocked(fmt.Sprintf("state of required check %q is unknown", checkName))
		}
		if state != tracker.CheckStateSuccess {
			return blocked(fmt.Sprintf("required check %q is in state %s", checkName, state))
		}
	}

	return nil
}

// evalReviews evaluates the review gates and returns the reviewer logins
// when all of them pass.
func (o *Orchestrator) evalReviews(ctx context.Context, clt GithubClient, prNumber int) (*Verdict, []string, error) {
	reviews, err := clt.Reviews(ctx, prNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching reviews failed: %w", err)
	}

	if len(reviews) == 0 {
		return blocked("pull request has no reviews"), nil, nil
	}

	approvals := 0
	for _, state := range reviews {
		switch state {
		case githubclt.ReviewStateApproved:
			approvals++
		case githubclt.ReviewStateChangesRequested:
			return blocked("changes were requested by a reviewer"), nil, nil
		}
	}

	if approvals == 0 {
		return blocked("pull request has no approving review"), nil, nil
	}

	if clt.Config().ApprovalStrategy == cfg.ApprovalStrategyAll {
		requested, err := clt.RequestedReviewers(ctx, prNumber)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching requested reviewers failed: %w", err)
		}

		if len(reviews) != len(requested) {
			return blocked(fmt.Sprintf(
				"approval strategy requires all reviewers, got %d reviews for %d requested reviewers",
				len(reviews), len(requested),
			)), nil, nil
		}

		for _, login := range requested {
			if reviews[login] != githubclt.ReviewStateApproved {
				return blocked(fmt.Sprintf("reviewer %q has not approved", login)), nil, nil
			}
		}
	}

	reviewers := make([]string, 0, len(reviews))
	for login := range reviews {
		reviewers = append(reviewers, login)
	}
	sort.Strings(reviewers)

	return nil, reviewers, nil
}

// publishConflictBatch snapshots the open pull requests that are still
// mergeable and publishes them for conflict detection.
// Failures are logged, the merge already happened and is not affected.
func (o *Orchestrator) publishConflictBatch(ctx context.Context, clt GithubClient, mergedPRNumber int) {
	openPRs, err := clt.ListOpenPullRequests(ctx)
	if err != nil {
		o.logger.Error(
			"listing open pull requests for conflict detection failed",
			logfields.Repository(clt.FullName()),
			logfields.PullRequest(mergedPRNumber),
			zap.Error(err),
		)
		return
	}

	var batch []*github.PullRequest
	for _, pr := range openPRs {
		if pr.GetNumber() == mergedPRNumber {
			continue
		}
		if pr.Mergeable != nil && !pr.GetMergeable() {
			continue
		}
		batch = append(batch, pr)
	}

	if len(batch) == 0 {
		return
	}

	o.bus.Publish(TopicPRConflict, &ConflictMsg{
		Client:         clt,
		MergedPRNumber: mergedPRNumber,
		PRs:            batch,
	})
}

func isAutomergeAuthor(repoCfg *cfg.RepositoryConfig, author string) bool {
	if author == cfg.DependabotLogin && repoCfg.AutomergeDependabot {
		return true
	}

	return author == repoCfg.Owner() && repoCfg.AutomergeOwner
}

func prHasLabel(pr *github.PullRequest, name string) bool {
	for _, label := range pr.Labels {
		if label.GetName() == name {
			return true
		}
	}
	return false
}

func assigneeLogins(pr *github.PullRequest) []string {
	result := make([]string, 0, len(pr.Assignees))
	for _, user := range pr.Assignees {
		result = append(result, user.GetLogin())
	}
	return result
}
