// Package cfg loads the prgate configuration file.
package cfg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
)

// ApprovalStrategy defines how many of the requested reviewers must approve
// a pull request before it can be merged.
type ApprovalStrategy string

const (
	// ApprovalStrategyAny requires at least one approval.
	ApprovalStrategyAny ApprovalStrategy = "any"
	// ApprovalStrategyAll requires an approval from every requested reviewer.
	ApprovalStrategyAll ApprovalStrategy = "all"
)

// AuthMethod is the github authentication method of a repository.
type AuthMethod string

const (
	AuthMethodToken AuthMethod = "token"
	AuthMethodApp   AuthMethod = "app"
)

const DependabotLogin = "dependabot[bot]"

// Config is the top-level prgate configuration.
type Config struct {
	HTTPListenAddr            string `toml:"http_server_listen_addr"`
	HTTPSListenAddr           string `toml:"https_server_listen_addr"`
	HTTPSCertFile             string `toml:"https_ssl_cert_file"`
	HTTPSKeyFile              string `toml:"https_ssl_key_file"`
	HTTPGithubWebhookEndpoint string `toml:"github_webhook_endpoint"`
	TrackerSnapshotFile       string `toml:"tracker_snapshot_file"`
	LogFormat                 string `toml:"log_format"`
	LogTimeKey                string `toml:"log_time_key"`
	LogLevel                  string `toml:"log_level"`

	Repositories []*RepositoryConfig `toml:"repository"`
}

// RepositoryConfig holds the per-repository settings.
// Fields that are not set in the config file get defaults applied by Load().
type RepositoryConfig struct {
	// Repository is the full name in <owner>/<name> form.
	Repository string `toml:"repository"`

	AuthMethod     AuthMethod `toml:"auth_method"`
	User           string     `toml:"user"`
	Token          string     `toml:"token"`
	AppID          int64      `toml:"app_id"`
	InstallationID int64      `toml:"installation_id"`
	PrivateKeyFile string     `toml:"private_key_file"`

	WebhookSecret string `toml:"webhook_secret"`

	ApprovedLabels         []string `toml:"approved_labels"`
	ChangesRequestedLabels []string `toml:"changes_requested_labels"`
	ReviewRequestedLabels  []string `toml:"review_requested_labels"`
	CommentedLabels        []string `toml:"commented_labels"`
	WIPLabel               string   `toml:"wip_label"`

	ReviewDismissMessage string `toml:"review_dismiss_message"`
	MergeMessage         string `toml:"merge_message"`
	// ConflictMessage is posted on pull requests that became conflicting
	// after another pull request was merged. The literal "<ID>" is
	// replaced with the number of the merged pull request.
	// If empty, conflict detection is disabled for the repository.
	ConflictMessage string `toml:"conflict_message"`

	ApprovalStrategy ApprovalStrategy `toml:"approval_strategy"`
	// MergeMethod is one of "merge", "squash" or "rebase".
	MergeMethod string `toml:"merge_method"`

	ReviewCheckName     string `toml:"review_check_name"`
	AutomergeDependabot bool   `toml:"automerge_dependabot"`
	AutomergeOwner      bool   `toml:"automerge_owner"`

	// EventFilter is an optional jq expression that is evaluated against
	// the raw webhook payload. Events for which it does not evaluate to
	// true are ignored.
	EventFilter string `toml:"event_filter"`
}

// Owner returns the <owner> part of the repository full name.
func (r *RepositoryConfig) Owner() string {
	owner, _, _ := strings.Cut(r.Repository, "/")
	return owner
}

// Name returns the <name> part of the repository full name.
func (r *RepositoryConfig) Name() string {
	_, name, _ := strings.Cut(r.Repository, "/")
	return name
}

// UseChecks returns true when the repository authenticates as a github app
// and can therefore create check-runs.
func (r *RepositoryConfig) UseChecks() bool {
	return r.AuthMethod == AuthMethodApp
}

func (r *RepositoryConfig) applyDefaults() {
	if r.AuthMethod == "" {
		r.AuthMethod = AuthMethodApp
	}
	if r.ApprovedLabels == nil {
		r.ApprovedLabels = []string{"approved"}
	}
	if r.ChangesRequestedLabels == nil {
		r.ChangesRequestedLabels = []string{"needs-update"}
	}
	if r.ReviewRequestedLabels == nil {
		r.ReviewRequestedLabels = []string{"review-requested"}
	}
	if r.CommentedLabels == nil {
		r.CommentedLabels = []string{"commented"}
	}
	if r.WIPLabel == "" {
		r.WIPLabel = "WIP"
	}
	if r.ReviewDismissMessage == "" {
		r.ReviewDismissMessage = "Pull request was updated"
	}
	if r.MergeMessage == "" {
		r.MergeMessage = "Merged by prgate"
	}
	if r.ConflictMessage == "" {
		r.ConflictMessage = "Pull request #<ID> caused a conflict in this PR"
	}
	if r.ApprovalStrategy == "" {
		r.ApprovalStrategy = ApprovalStrategyAny
	}
	if r.MergeMethod == "" {
		r.MergeMethod = "merge"
	}
	if r.ReviewCheckName == "" {
		r.ReviewCheckName = "Code review"
	}
}

// Validate returns an error describing the first problem found in the
// repository configuration.
func (r *RepositoryConfig) Validate() error {
	if owner, name, found := strings.Cut(r.Repository, "/"); !found || owner == "" || name == "" {
		return fmt.Errorf("repository must have the form <owner>/<name>, is: %q", r.Repository)
	}

	switch r.AuthMethod {
	case AuthMethodToken:
		if r.User == "" {
			return errors.New("user must be set when auth_method is token")
		}
		if r.Token == "" {
			return errors.New("token must be set when auth_method is token")
		}

	case AuthMethodApp:
		if r.AppID <= 0 {
			return errors.New("app_id must be set when auth_method is app")
		}
		if r.InstallationID <= 0 {
			return errors.New("installation_id must be set when auth_method is app")
		}
		if r.PrivateKeyFile == "" {
			return errors.New("private_key_file must be set when auth_method is app")
		}
		if _, err := os.Stat(r.PrivateKeyFile); err != nil {
			return fmt.Errorf("private_key_file is not readable: %w", err)
		}

	default:
		return fmt.Errorf("unsupported auth_method: %q", r.AuthMethod)
	}

	switch r.ApprovalStrategy {
	case ApprovalStrategyAny, ApprovalStrategyAll:
	default:
		return fmt.Errorf("unsupported approval_strategy: %q", r.ApprovalStrategy)
	}

	switch r.MergeMethod {
	case "merge", "squash", "rebase":
	default:
		return fmt.Errorf("unsupported merge_method: %q", r.MergeMethod)
	}

	return nil
}

// Load reads a TOML configuration and applies the per-repository defaults.
// Repository entries are not validated, invalid ones are dropped when the
// repository registry is built.
func Load(reader io.Reader) (*Config, error) {
	var result Config

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if result.HTTPGithubWebhookEndpoint == "" {
		result.HTTPGithubWebhookEndpoint = "/webhook"
	}
	if result.LogFormat == "" {
		result.LogFormat = "logfmt"
	}
	if result.LogLevel == "" {
		result.LogLevel = "info"
	}
	if result.TrackerSnapshotFile == "" {
		result.TrackerSnapshotFile = "data/tracker.json"
	}

	for _, repo := range result.Repositories {
		repo.applyDefaults()
	}

	return &result, nil
}

func (c *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(c)
}
