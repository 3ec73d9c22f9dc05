// Package workflow contains the event handlers that drive the pull-request
// merge workflow: lifecycle and review bookkeeping, check-state tracking,
// the merge decision engine and post-merge conflict detection.
package workflow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/events"
	"github.com/prgate/prgate/internal/logfields"
	"github.com/prgate/prgate/internal/tracker"
)

const loggerName = "workflow"

// Orchestrator subscribes the workflow handlers to the bus and provides
// their shared collaborators.
type Orchestrator struct {
	bus     *events.Bus
	tracker *tracker.Tracker
	logger  *zap.Logger
}

// NewOrchestrator creates an orchestrator publishing on and subscribing to
// the given bus.
func NewOrchestrator(bus *events.Bus, trk *tracker.Tracker) *Orchestrator {
	return &Orchestrator{
		bus:     bus,
		tracker: trk,
		logger:  zap.L().Named(loggerName),
	}
}

// Register subscribes all workflow handlers on the bus.
func (o *Orchestrator) Register() {
	o.bus.Subscribe(TopicPRUpdated, "pr_updated", o.handlePRUpdated)
	o.bus.Subscribe(TopicPRReopened, "pr_reopened", o.handleMergeTrigger)
	o.bus.Subscribe(TopicPRReadyForReview, "pr_ready_for_review", o.handleMergeTrigger)
	o.bus.Subscribe(TopicPRUnlabeled, "pr_unlabeled", o.handlePRUnlabeled)
	o.bus.Subscribe(TopicPRReviewRequested, "review_requested", o.handleReviewRequested)
	o.bus.Subscribe(TopicPRReviewRequestRemoved, "review_request_removed", o.handleReviewRequestRemoved)
	o.bus.Subscribe(TopicPRReviewSubmitted, "review_submitted", o.handleReviewSubmitted)
	o.bus.Subscribe(TopicCheckRunStarted, "check_run_started", o.handleCheckRunStarted)
	o.bus.Subscribe(TopicCheckRunFinished, "check_run_finished", o.handleCheckRunFinished)
	o.bus.Subscribe(TopicCheckRunCreate, "check_run_create", o.handleCheckRunCreate)
	o.bus.Subscribe(TopicStatusChanged, "status_changed", o.handleStatusChanged)
	o.bus.Subscribe(TopicPRMerge, "merge", o.handleMerge)
	o.bus.Subscribe(TopicPRConflict, "conflict", o.handleConflict)
	o.bus.Subscribe(TopicPREditLabels, "edit_labels", o.handleEditLabels)
}

func (o *Orchestrator) logUnexpectedMsg(topic string, msg any) {
	o.logger.Error(
		"received message of unexpected type",
		logfields.Topic(topic),
		zap.String("message_type", fmt.Sprintf("%T", msg)),
	)
}
