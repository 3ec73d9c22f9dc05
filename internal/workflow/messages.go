package workflow

import (
	"github.com/google/go-github/v59/github"
)

// PullRequestMsg is the canonical message for pull_request webhook events.
// RequestedReviewer is only set for review request events, Label only for
// unlabeled events.
type PullRequestMsg struct {
	Client            GithubClient
	PR                *github.PullRequest
	Sender            string
	RequestedReviewer string
	Label             string
}

// ReviewMsg is the canonical message for submitted reviews.
// The pull request is carried explicitly, the review payload alone does not
// reference it.
type ReviewMsg struct {
	Client GithubClient
	PR     *github.PullRequest
	Review *github.PullRequestReview
	Sender string
}

// CheckRunMsg is published for started and finished check-runs.
type CheckRunMsg struct {
	Client   GithubClient
	CheckRun *github.CheckRun
}

// CheckRunCreateMsg requests creating the review check-run on a head
// commit. Conclusion is empty for non-completed statuses.
type CheckRunCreateMsg struct {
	Client     GithubClient
	HeadSHA    string
	Status     string
	Conclusion string
}

// StatusMsg is published for commit status changes.
type StatusMsg struct {
	Client  GithubClient
	SHA     string
	State   string
	Context string
}

// MergeMsg requests a merge evaluation of one pull request.
type MergeMsg struct {
	Client   GithubClient
	PRNumber int
}

// ConflictMsg ties a just-merged pull request to the open pull requests
// that were mergeable immediately before the merge.
type ConflictMsg struct {
	Client         GithubClient
	MergedPRNumber int
	PRs            []*github.PullRequest
}

// EditLabelsMsg requests adding and removing labels on a pull request.
type EditLabelsMsg struct {
	Client   GithubClient
	PRNumber int
	Add      []string
	Remove   []string
}
