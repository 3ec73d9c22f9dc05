package workflow

import (
	"context"

	"github.com/google/go-github/v59/github"

	"github.com/prgate/prgate/internal/cfg"
)

// GithubClient is the provider interface the handlers operate on.
// It is implemented for one repository by githubclt.Client.
type GithubClient interface {
	// Config returns the configuration of the bound repository.
	Config() *cfg.RepositoryConfig
	// FullName returns the repository name in <owner>/<name> form.
	FullName() string

	GetPullRequest(ctx context.Context, prNumber int) (*github.PullRequest, error)
	ListOpenPullRequests(ctx context.Context) ([]*github.PullRequest, error)
	OpenPullRequestsForSHA(ctx context.Context, sha string) ([]*github.PullRequest, error)

	// Reviews returns the latest review state per reviewer login.
	Reviews(ctx context.Context, prNumber int) (map[string]string, error)
	DismissReviews(ctx context.Context, prNumber int, message string) error
	RequestedReviewers(ctx context.Context, prNumber int) ([]string, error)
	RequestReviewers(ctx context.Context, prNumber int, logins []string) error

	SetAssignees(ctx context.Context, prNumber int, logins []string) error
	Labels(ctx context.Context, prNumber int) ([]string, error)
	ReplaceLabels(ctx context.Context, prNumber int, labels []string) error
	CreateIssueComment(ctx context.Context, prNumber int, comment string) error

	// RequiredChecks returns the check names that branch protection
	// requires on the given branch, nil for unprotected branches.
	RequiredChecks(ctx context.Context, branch string) ([]string, error)
	Merge(ctx context.Context, prNumber int, message, method string) error
	CreateReviewCheckRun(ctx context.Context, headSHA, status, conclusion string) error
}
