// Package githubclt provides a github API client bound to a single
// configured repository.
package githubclt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/prgate/prgate/internal/cfg"
	"github.com/prgate/prgate/internal/logfields"
)

const DefaultHTTPClientTimeout = time.Minute

const loggerName = "github_client"

// Review states as reported by the github API.
const (
	ReviewStateApproved         = "APPROVED"
	ReviewStateChangesRequested = "CHANGES_REQUESTED"
	ReviewStateCommented        = "COMMENTED"
)

// Check-run states used when creating the review check-run.
const (
	CheckRunStatusQueued     = "queued"
	CheckRunStatusInProgress = "in_progress"
	CheckRunStatusCompleted  = "completed"

	CheckRunConclusionSuccess = "success"
	CheckRunConclusionFailure = "failure"
)

// MergeableStateDirty is the mergeable-state value github reports for a pull
// request with merge conflicts.
const MergeableStateDirty = "dirty"

// Client is a github API client for one repository.
// The http transport stack is: auth transport (oauth2 static token or github
// app installation) wrapped by the secondary rate-limit middleware.
type Client struct {
	restClt *github.Client
	cfg     *cfg.RepositoryConfig
	owner   string
	repo    string
	logger  *zap.Logger
}

// New returns a client authenticated per the repository configuration.
func New(repoCfg *cfg.RepositoryConfig) (*Client, error) {
	httpClient, err := newHTTPClient(repoCfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		restClt: github.NewClient(httpClient),
		cfg:     repoCfg,
		owner:   repoCfg.Owner(),
		repo:    repoCfg.Name(),
		logger: zap.L().Named(loggerName).With(
			logfields.Repository(repoCfg.Repository),
		),
	}, nil
}

func newHTTPClient(repoCfg *cfg.RepositoryConfig) (*http.Client, error) {
	var authTransport http.RoundTripper

	switch repoCfg.AuthMethod {
	case cfg.AuthMethodToken:
		authTransport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(
				&oauth2.Token{AccessToken: repoCfg.Token},
			),
		}

	case cfg.AuthMethodApp:
		itr, err := ghinstallation.NewKeyFromFile(
			http.DefaultTransport,
			repoCfg.AppID,
			repoCfg.InstallationID,
			repoCfg.PrivateKeyFile,
		)
		if err != nil {
			return nil, fmt.Errorf("creating github app transport failed: %w", err)
		}
		authTransport = itr

	default:
		return nil, fmt.Errorf("unsupported auth method: %q", repoCfg.AuthMethod)
	}

	httpClient := github_ratelimit.NewClient(authTransport)
	httpClient.Timeout = DefaultHTTPClientTimeout

	return httpClient, nil
}

// Config returns the configuration of the repository the client is bound to.
func (clt *Client) Config() *cfg.RepositoryConfig {
	return clt.cfg
}

// FullName returns the repository name in <owner>/<name> form.
func (clt *Client) FullName() string {
	return clt.cfg.Repository
}

// GetPullRequest fetches the current state of a pull request.
func (clt *Client) GetPullRequest(ctx context.Context, prNumber int) (*github.PullRequest, error) {
	pr, _, err := clt.restClt.PullRequests.Get(ctx, clt.owner, clt.repo, prNumber)
	return pr, err
}

// ListOpenPullRequests returns all open pull requests of the repository.
func (clt *Client) ListOpenPullRequests(ctx context.Context) ([]*github.PullRequest, error) {
	var result []*github.PullRequest

	opts := github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		prs, resp, err := clt.restClt.PullRequests.List(ctx, clt.owner, clt.repo, &opts)
		if err != nil {
			return nil, err
		}

		result = append(result, prs...)

		if resp.NextPage == 0 {
			return result, nil
		}

		opts.Page = resp.NextPage
	}
}

// OpenPullRequestsForSHA returns all open pull requests whose head commit is
// sha.
func (clt *Client) OpenPullRequestsForSHA(ctx context.Context, sha string) ([]*github.PullRequest, error) {
	prs, err := clt.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	var result []*github.PullRequest
	for _, pr := range prs {
		if pr.GetHead().GetSHA() == sha {
			result = append(result, pr)
		}
	}

	return result, nil
}

// Reviews returns the latest review state per reviewer login.
// A user can review multiple times, later reviews replace earlier ones.
func (clt *Client) Reviews(ctx context.Context, prNumber int) (map[string]string, error) {
	result := map[string]string{}

	opts := github.ListOptions{PerPage: 100}
	for {
		reviews, resp, err := clt.restClt.PullRequests.ListReviews(ctx, clt.owner, clt.repo, prNumber, &opts)
		if err != nil {
			return nil, err
		}

		for _, review := range reviews {
			login := review.GetUser().GetLogin()
			if login == "" {
				continue
			}
			result[login] = review.GetState()
		}

		if resp.NextPage == 0 {
			return result, nil
		}

		opts.Page = resp.NextPage
	}
}

// DismissReviews dismisses all approved and changes-requested reviews of the
// pull request with the given message.
// Failing to dismiss one review does not abort dismissing the others, the
// first error is returned.
func (clt *Client) DismissReviews(ctx context.Context, prNumber int, message string) error {
	var firstErr error

	opts := github.ListOptions{PerPage: 100}
	for {
		reviews, resp, err := clt.restClt.PullRequests.ListReviews(ctx, clt.owner, clt.repo, prNumber, &opts)
		if err != nil {
			return err
		}

		for _, review := range reviews {
			state := review.GetState()
			if state != ReviewStateApproved && state != ReviewStateChangesRequested {
				continue
			}

			_, _, err := clt.restClt.PullRequests.DismissReview(
				ctx, clt.owner, clt.repo, prNumber, review.GetID(),
				&github.PullRequestReviewDismissalRequest{Message: github.String(message)},
			)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("dismissing review %d failed: %w", review.GetID(), err)
			}
		}

		if resp.NextPage == 0 {
			return firstErr
		}

		opts.Page = resp.NextPage
	}
}

// RequestedReviewers returns the logins of the currently requested reviewers.
func (clt *Client) RequestedReviewers(ctx context.Context, prNumber int) ([]string, error) {
	reviewers, _, err := clt.restClt.PullRequests.ListReviewers(ctx, clt.owner, clt.repo, prNumber, nil)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(reviewers.Users))
	for _, user := range reviewers.Users {
		result = append(result, user.GetLogin())
	}

	return result, nil
}

// RequestReviewers requests a review from the given users.
func (clt *Client) RequestReviewers(ctx context.Context, prNumber int, logins []string) error {
	if len(logins) == 0 {
		return nil
	}

	_, _, err := clt.restClt.PullRequests.RequestReviewers(
		ctx, clt.owner, clt.repo, prNumber,
		github.ReviewersRequest{Reviewers: logins},
	)
	return err
}

// SetAssignees replaces the assignee list of a pull request.
func (clt *Client) SetAssignees(ctx context.Context, prNumber int, logins []string) error {
	if logins == nil {
		logins = []string{}
	}

	_, _, err := clt.restClt.Issues.Edit(
		ctx, clt.owner, clt.repo, prNumber,
		&github.IssueRequest{Assignees: &logins},
	)
	return err
}

// Labels returns the current labels of a pull request.
func (clt *Client) Labels(ctx context.Context, prNumber int) ([]string, error) {
	var result []string

	opts := github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := clt.restClt.Issues.ListLabelsByIssue(ctx, clt.owner, clt.repo, prNumber, &opts)
		if err != nil {
			return nil, err
		}

		for _, label := range labels {
			result = append(result, label.GetName())
		}

		if resp.NextPage == 0 {
			return result, nil
		}

		opts.Page = resp.NextPage
	}
}

// ReplaceLabels replaces all labels of a pull request.
func (clt *Client) ReplaceLabels(ctx context.Context, prNumber int, labels []string) error {
	_, _, err := clt.restClt.Issues.ReplaceLabelsForIssue(ctx, clt.owner, clt.repo, prNumber, labels)
	return err
}

// CreateIssueComment creates a comment in a issue or pull request.
func (clt *Client) CreateIssueComment(ctx context.Context, prNumber int, comment string) error {
	_, _, err := clt.restClt.Issues.CreateComment(
		ctx, clt.owner, clt.repo, prNumber,
		&github.IssueComment{Body: &comment},
	)
	return err
}

// RequiredChecks returns the check names that branch protection requires to
// succeed on the given branch. For an unprotected branch nil is returned.
func (clt *Client) RequiredChecks(ctx context.Context, branch string) ([]string, error) {
	protection, _, err := clt.restClt.Repositories.GetBranchProtection(ctx, clt.owner, clt.repo, branch)
	if err != nil {
		var respErr *github.ErrorResponse
		if errors.As(err, &respErr) && respErr.Response.StatusCode == http.StatusNotFound {
			clt.logger.Debug(
				"branch is not protected, no required checks",
				logfields.BaseBranch(branch),
			)
			return nil, nil
		}

		return nil, err
	}

	checks := protection.GetRequiredStatusChecks()
	if checks == nil {
		return nil, nil
	}

	return checks.Contexts, nil
}

// Merge merges a pull request with the given commit message and merge
// method.
func (clt *Client) Merge(ctx context.Context, prNumber int, message, method string) error {
	result, _, err := clt.restClt.PullRequests.Merge(
		ctx, clt.owner, clt.repo, prNumber, message,
		&github.PullRequestOptions{MergeMethod: method},
	)
	if err != nil {
		return err
	}

	if !result.GetMerged() {
		return fmt.Errorf("github did not merge the pull request: %s", result.GetMessage())
	}

	return nil
}

// CreateReviewCheckRun creates or updates the review check-run on the given
// head commit. Conclusion may be empty for non-completed states.
func (clt *Client) CreateReviewCheckRun(ctx context.Context, headSHA, status, conclusion string) error {
	opts := github.CreateCheckRunOptions{
		Name:    clt.cfg.ReviewCheckName,
		HeadSHA: headSHA,
		Status:  github.String(status),
	}
	if conclusion != "" {
		opts.Conclusion = github.String(conclusion)
	}

	_, _, err := clt.restClt.Checks.CreateCheckRun(ctx, clt.owner, clt.repo, opts)
	return err
}
