// Package webhook receives github webhook events, verifies their
// signatures and routes them as canonical messages onto the bus.
package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/events"
	"github.com/prgate/prgate/internal/githubclt"
	"github.com/prgate/prgate/internal/logfields"
	"github.com/prgate/prgate/internal/workflow"
)

const loggerName = "webhook"

const maxRequestBodyBytes = 10 * 1024 * 1024

// Webhook actions that are routed, all other actions are ignored.
const (
	actionReopened             = "reopened"
	actionReviewRequested      = "review_requested"
	actionReviewRequestRemoved = "review_request_removed"
	actionReadyForReview       = "ready_for_review"
	actionSynchronize          = "synchronize"
	actionUnlabeled            = "unlabeled"
	actionSubmitted            = "submitted"
	actionCompleted            = "completed"
	actionCreated              = "created"
	actionRerequested          = "rerequested"
)

// EventSource accepts github webhook http requests and publishes canonical
// messages on the bus.
// Requests are always answered with 204, events that can not be processed
// are dropped silently so that the response does not leak which
// repositories are configured.
type EventSource struct {
	logger   *zap.Logger
	registry *githubclt.Registry
	bus      *events.Bus
}

// NewEventSource creates an EventSource publishing on bus for the
// repositories in registry.
func NewEventSource(registry *githubclt.Registry, bus *events.Bus) *EventSource {
	return &EventSource{
		logger:   zap.L().Named(loggerName),
		registry: registry,
		bus:      bus,
	}
}

// HTTPHandler handles a webhook http request.
func (s *EventSource) HTTPHandler(resp http.ResponseWriter, req *http.Request) {
	defer resp.WriteHeader(http.StatusNoContent)
	defer req.Body.Close()

	eventType := req.Header.Get(github.EventTypeHeader)
	if eventType == "" {
		s.logger.Debug("ignoring request without event type header")
		metrics.dropped(dropReasonMalformed)
		return
	}

	logger := s.logger.With(logfields.Event(eventType))
	metrics.received(eventType)

	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, maxRequestBodyBytes))
	if err != nil {
		logger.Warn("reading request body failed", zap.Error(err))
		metrics.dropped(dropReasonMalformed)
		return
	}

	repoName, err := repositoryFullName(body)
	if err != nil {
		logger.Warn("extracting repository name from payload failed", zap.Error(err))
		metrics.dropped(dropReasonParseError)
		return
	}

	logger = logger.With(logfields.Repository(repoName))

	repoCfg := s.registry.Config(repoName)
	if repoCfg == nil {
		logger.Debug("ignoring event for unconfigured repository")
		metrics.dropped(dropReasonUnconfiguredRepo)
		return
	}

	signature := req.Header.Get(github.SHA256SignatureHeader)
	if signature == "" {
		signature = req.Header.Get(github.SHA1SignatureHeader)
	}

	if !ValidSignature(signature, body, []byte(repoCfg.WebhookSecret)) {
		logger.Warn("dropping event with invalid signature")
		metrics.dropped(dropReasonInvalidSignature)
		return
	}

	match, err := s.eventMatchesFilter(req, repoName, body)
	if err != nil {
		logger.Warn("evaluating event filter failed", zap.Error(err))
		metrics.dropped(dropReasonParseError)
		return
	}
	if !match {
		logger.Debug("event filter did not match, ignoring event")
		metrics.dropped(dropReasonFiltered)
		return
	}

	event, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Warn("parsing webhook payload failed", zap.Error(err))
		metrics.dropped(dropReasonParseError)
		return
	}

	clt, err := s.registry.Client(repoName)
	if err != nil {
		logger.Error("resolving repository client failed", zap.Error(err))
		metrics.dropped(dropReasonInternalError)
		return
	}

	s.route(logger, clt, event)
}

// repositoryFullName extracts repository.full_name from the raw payload.
// It must be known before the payload can be parsed fully, the webhook
// secret to verify the signature with is configured per repository.
func repositoryFullName(body []byte) (string, error) {
	var payload struct {
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}

	return payload.Repository.FullName, nil
}

func (s *EventSource) eventMatchesFilter(req *http.Request, repoName string, body []byte) (bool, error) {
	if s.registry.Config(repoName).EventFilter == "" {
		return true, nil
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, err
	}

	return s.registry.EventMatchesFilter(req.Context(), repoName, payload)
}

// route converts a parsed webhook event into its canonical message and
// publishes it on the action-specific topic.
// Events and actions without a topic are intentionally ignored.
func (s *EventSource) route(logger *zap.Logger, clt *githubclt.Client, event any) {
	switch ev := event.(type) {
	case *github.PullRequestEvent:
		s.routePullRequest(logger, clt, ev)

	case *github.PullRequestReviewEvent:
		if ev.GetAction() != actionSubmitted {
			s.ignore(logger, ev.GetAction())
			return
		}
		s.bus.Publish(workflow.TopicPRReviewSubmitted, &workflow.ReviewMsg{
			Client: clt,
			PR:     ev.GetPullRequest(),
			Review: ev.GetReview(),
			Sender: ev.GetSender().GetLogin(),
		})

	case *github.CheckRunEvent:
		switch ev.GetAction() {
		case actionCompleted:
			s.bus.Publish(workflow.TopicCheckRunFinished, &workflow.CheckRunMsg{
				Client:   clt,
				CheckRun: ev.GetCheckRun(),
			})
		case actionCreated, actionRerequested:
			s.bus.Publish(workflow.TopicCheckRunStarted, &workflow.CheckRunMsg{
				Client:   clt,
				CheckRun: ev.GetCheckRun(),
			})
		default:
			s.ignore(logger, ev.GetAction())
		}

	case *github.StatusEvent:
		s.bus.Publish(workflow.TopicStatusChanged, &workflow.StatusMsg{
			Client:  clt,
			SHA:     ev.GetSHA(),
			State:   ev.GetState(),
			Context: ev.GetContext(),
		})

	default:
		logger.Debug("ignoring event without handler")
		metrics.dropped(dropReasonIgnored)
	}
}

func (s *EventSource) routePullRequest(logger *zap.Logger, clt *githubclt.Client, ev *github.PullRequestEvent) {
	msg := workflow.PullRequestMsg{
		Client: clt,
		PR:     ev.GetPullRequest(),
		Sender: ev.GetSender().GetLogin(),
	}

	switch ev.GetAction() {
	case actionReopened:
		s.bus.Publish(workflow.TopicPRReopened, &msg)

	case actionReadyForReview:
		s.bus.Publish(workflow.TopicPRReadyForReview, &msg)

	case actionSynchronize:
		s.bus.Publish(workflow.TopicPRUpdated, &msg)

	case actionReviewRequested:
		msg.RequestedReviewer = ev.GetRequestedReviewer().GetLogin()
		s.bus.Publish(workflow.TopicPRReviewRequested, &msg)

	case actionReviewRequestRemoved:
		msg.RequestedReviewer = ev.GetRequestedReviewer().GetLogin()
		s.bus.Publish(workflow.TopicPRReviewRequestRemoved, &msg)

	case actionUnlabeled:
		msg.Label = ev.GetLabel().GetName()
		s.bus.Publish(workflow.TopicPRUnlabeled, &msg)

	default:
		s.ignore(logger, ev.GetAction())
	}
}

func (s *EventSource) ignore(logger *zap.Logger, action string) {
	logger.Debug("ignoring event action", zap.String("github.action", action))
	metrics.dropped(dropReasonIgnored)
}
