package workflow

// Bus topics on which canonical events and internal commands are published.
const (
	// TopicPRUpdated is published when new commits were pushed to a pull
	// request branch.
	TopicPRUpdated = "pr.updated"
	// TopicPRReopened is published when a closed pull request was
	// reopened.
	TopicPRReopened = "pr.reopened"
	// TopicPRReadyForReview is published when a draft pull request was
	// marked ready for review.
	TopicPRReadyForReview = "pr.ready.for.review"
	// TopicPRReviewRequested is published when a review was requested.
	TopicPRReviewRequested = "pr.review.requested"
	// TopicPRReviewRequestRemoved is published when a review request was
	// withdrawn.
	TopicPRReviewRequestRemoved = "pr.review.request.removed"
	// TopicPRReviewSubmitted is published when a review was submitted.
	TopicPRReviewSubmitted = "pr.review.submitted"
	// TopicPRUnlabeled is published when a label was removed from a pull
	// request.
	TopicPRUnlabeled = "pr.unlabeled"

	// TopicPRMerge requests a merge evaluation for a pull request.
	TopicPRMerge = "pr.merge"
	// TopicPRConflict carries the snapshot of open pull requests to check
	// for conflicts after a merge.
	TopicPRConflict = "pr.conflict"
	// TopicPREditLabels requests a label reconciliation.
	TopicPREditLabels = "pr.labels"

	// TopicCheckRunStarted is published when a check-run was created or
	// rerequested, it is used for state tracking only.
	TopicCheckRunStarted = "run.started"
	// TopicCheckRunFinished is published when a check-run completed.
	TopicCheckRunFinished = "run.finished"
	// TopicCheckRunCreate requests creating the review check-run.
	TopicCheckRunCreate = "run.create"
	// TopicStatusChanged is published when a commit status changed.
	TopicStatusChanged = "status.changed"
)
