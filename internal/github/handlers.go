// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package github

import (
	"context"

	"github.com/mia-platform/prhook/internal/logger"
)

// DefaultHandlers returns the action table with the logging handlers for
// every supported pull request action.
func DefaultHandlers() map[string]Handler {
	return map[string]Handler{
		ActionOpened: HandleOpened,
		ActionClosed: HandleClosed,
		// GitHub reports a merge as a "closed" action with the merged flag set
		// on the pull request, never as a dedicated action value, so this
		// entry only matches if the platform ever starts sending one.
		ActionMerged:          HandleMerged,
		ActionReviewRequested: HandleReviewRequested,
		ActionSubmitted:       HandleReviewSubmitted,
		ActionSynchronize:     HandleSynchronize,
	}
}

// HandleOpened logs a newly opened pull request.
func HandleOpened(ctx context.Context, envelope *Envelope) error {
	log := logger.FromContext(ctx).WithName(loggerName)
	pullRequest := envelope.PullRequest

	log.Info("new pull request opened",
		"number", intField(pullRequest, "number"),
		"title", stringField(pullRequest, "title"),
		"repository", stringField(envelope.Repository, "full_name"),
		"author", stringField(envelope.Sender, "login"),
		"url", stringField(pullRequest, "html_url"),
	)
	return nil
}

// HandleClosed logs a closed pull request together with its merged state.
func HandleClosed(ctx context.Context, envelope *Envelope) error {
	log := logger.FromContext(ctx).WithName(loggerName)
	pullRequest := envelope.PullRequest

	log.Info("pull request closed",
		"number", intField(pullRequest, "number"),
		"title", stringField(pullRequest, "title"),
		"repository", stringField(envelope.Repository, "full_name"),
		"closedBy", stringField(envelope.Sender, "login"),
		"merged", boolField(pullRequest, "merged"),
	)
	return nil
}

// HandleMerged logs a merged pull request and its merge commit.
func HandleMerged(ctx context.Context, envelope *Envelope) error {
	log := logger.FromContext(ctx).WithName(loggerName)
	pullRequest := envelope.PullRequest

	log.Info("pull request merged",
		"number", intField(pullRequest, "number"),
		"title", stringField(pullRequest, "title"),
		"repository", stringField(envelope.Repository, "full_name"),
		"mergedBy", stringField(envelope.Sender, "login"),
		"mergeCommit", stringField(pullRequest, "merge_commit_sha"),
	)
	return nil
}

// HandleReviewRequested logs a review request, naming the requested reviewer
// or team when the delivery carries one.
func HandleReviewRequested(ctx context.Context, envelope *Envelope) error {
	log := logger.FromContext(ctx).WithName(loggerName)
	pullRequest := envelope.PullRequest

	log.Info("review requested for pull request",
		"number", intField(pullRequest, "number"),
		"title", stringField(pullRequest, "title"),
		"repository", stringField(envelope.Repository, "full_name"),
	)

	if envelope.RequestedReviewer != nil {
		log.Info("requested reviewer", "login", stringField(envelope.RequestedReviewer, "login"))
	}
	if envelope.RequestedTeam != nil {
		log.Info("requested team", "name", stringField(envelope.RequestedTeam, "name"))
	}
	return nil
}

// HandleReviewSubmitted logs a submitted review and its state.
func HandleReviewSubmitted(ctx context.Context, envelope *Envelope) error {
	log := logger.FromContext(ctx).WithName(loggerName)
	pullRequest := envelope.PullRequest

	log.Info("review submitted for pull request",
		"number", intField(pullRequest, "number"),
		"title", stringField(pullRequest, "title"),
		"repository", stringField(envelope.Repository, "full_name"),
		"reviewer", stringField(envelope.Sender, "login"),
		"state", stringField(envelope.Review, "state"),
	)

	if body := stringField(envelope.Review, "body"); body != "" {
		log.Info("review comment", "body", body)
	}
	return nil
}

// HandleSynchronize logs new commits pushed to a pull request.
func HandleSynchronize(ctx context.Context, envelope *Envelope) error {
	log := logger.FromContext(ctx).WithName(loggerName)
	pullRequest := envelope.PullRequest

	log.Info("pull request updated",
		"number", intField(pullRequest, "number"),
		"title", stringField(pullRequest, "title"),
		"repository", stringField(envelope.Repository, "full_name"),
		"updatedBy", stringField(envelope.Sender, "login"),
		"headCommit", stringField(mapField(pullRequest, "head"), "sha"),
	)
	return nil
}
