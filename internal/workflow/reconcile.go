package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prgate/prgate/internal/logfields"
)

// reconcileLabels fetches the current labels of a pull request, computes
// (current - remove) + add and writes the result back only when it differs
// from the current set.
func (o *Orchestrator) reconcileLabels(ctx context.Context, clt GithubClient, prNumber int, add, remove []string) error {
	current, err := clt.Labels(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("fetching labels failed: %w", err)
	}

	desired := applySetDiff(current, add, remove)
	if sameSet(current, desired) {
		o.logger.Debug(
			"labels are already reconciled",
			logfields.Repository(clt.FullName()),
			logfields.PullRequest(prNumber),
		)
		return nil
	}

	if err := clt.ReplaceLabels(ctx, prNumber, desired); err != nil {
		return fmt.Errorf("replacing labels failed: %w", err)
	}

	o.logger.Info(
		"labels updated",
		logfields.Repository(clt.FullName()),
		logfields.PullRequest(prNumber),
		zap.Strings("github.labels", desired),
	)

	return nil
}

// reconcileAssignees replaces the assignees of a pull request when the
// desired set differs from the current one.
func (o *Orchestrator) reconcileAssignees(ctx context.Context, clt GithubClient, prNumber int, current, desired []string) error {
	if sameSet(current, desired) {
		o.logger.Debug(
			"assignees are already reconciled",
			logfields.Repository(clt.FullName()),
			logfields.PullRequest(prNumber),
		)
		return nil
	}

	if desired == nil {
		desired = []string{}
	}

	if err := clt.SetAssignees(ctx, prNumber, desired); err != nil {
		return fmt.Errorf("setting assignees failed: %w", err)
	}

	o.logger.Info(
		"assignees updated",
		logfields.Repository(clt.FullName()),
		logfields.PullRequest(prNumber),
		zap.Strings("github.assignees", desired),
	)

	return nil
}

// applySetDiff returns (current - remove) + add, preserving the order of
// current and appending new additions at the end.
func applySetDiff(current, add, remove []string) []string {
	removeSet := make(map[string]struct{}, len(remove))
	for _, elem := range remove {
		removeSet[elem] = struct{}{}
	}

	result := make([]string, 0, len(current)+len(add))
	seen := make(map[string]struct{}, len(current)+len(add))

	for _, elem := range current {
		if _, isRemoved := removeSet[elem]; isRemoved {
			continue
		}
		if _, exists := seen[elem]; exists {
			continue
		}
		seen[elem] = struct{}{}
		result = append(result, elem)
	}

	for _, elem := range add {
		if _, exists := seen[elem]; exists {
			continue
		}
		seen[elem] = struct{}{}
		result = append(result, elem)
	}

	return result
}

func sameSet(a, b []string) bool {
	setA := make(map[string]struct{}, len(a))
	for _, elem := range a {
		setA[elem] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, elem := range b {
		setB[elem] = struct{}{}
	}

	if len(setA) != len(setB) {
		return false
	}

	for elem := range setA {
		if _, exists := setB[elem]; !exists {
			return false
		}
	}

	return true
}

func without(elems []string, excluded string) []string {
	result := make([]string, 0, len(elems))
	for _, elem := range elems {
		if elem == excluded {
			continue
		}
		result = append(result, elem)
	}
	return result
}
