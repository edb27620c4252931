// Package workflow defines the fixed status workflows for tasks and
// knowledge entries. Transitions are a static lookup table; there is no
// per-record state machine.
package workflow

import (
	"errors"
	"fmt"
)

// Model names a content type with its own workflow.
type Model string

const (
	ModelTask      Model = "task"
	ModelKnowledge Model = "knowledge"
)

// Task statuses, in board order.
const (
	StatusInbox      = "inbox"
	StatusBacklog    = "backlog"
	StatusInProgress = "in-progress"
	StatusInReview   = "in-review"
	StatusDone       = "done"
	StatusArchived   = "archived"
)

// Knowledge statuses, in board order.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ErrUnknownStatus is returned when a status is not part of the model's workflow.
var ErrUnknownStatus = errors.New("unknown status")

// ErrInvalidTransition is returned when the transition table forbids a move.
var ErrInvalidTransition = errors.New("invalid status transition")

var taskStatuses = []string{
	StatusInbox, StatusBacklog, StatusInProgress, StatusInReview, StatusDone, StatusArchived,
}

var knowledgeStatuses = []string{
	StatusDraft, StatusInReview, StatusPublished, StatusArchived,
}

var taskTransitions = map[string][]string{
	StatusInbox:      {StatusBacklog, StatusInProgress, StatusArchived},
	StatusBacklog:    {StatusInbox, StatusInProgress, StatusArchived},
	StatusInProgress: {StatusBacklog, StatusInReview, StatusDone},
	StatusInReview:   {StatusInProgress, StatusDone},
	StatusDone:       {StatusInProgress, StatusArchived},
	StatusArchived:   {StatusBacklog},
}

var knowledgeTransitions = map[string][]string{
	StatusDraft:     {StatusInReview, StatusArchived},
	StatusInReview:  {StatusDraft, StatusPublished},
	StatusPublished: {StatusInReview, StatusArchived},
	StatusArchived:  {StatusDraft},
}

// Statuses returns the model's statuses in board order.
func Statuses(m Model) []string {
	if m == ModelKnowledge {
		return knowledgeStatuses
	}
	return taskStatuses
}

// Initial returns the status assigned to newly created records.
func Initial(m Model) string {
	if m == ModelKnowledge {
		return StatusDraft
	}
	return StatusInbox
}

// ValidStatus reports whether s belongs to the model's workflow.
func ValidStatus(m Model, s string) bool {
	for _, known := range Statuses(m) {
		if s == known {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from current.
func NextStatuses(m Model, current string) []string {
	table := taskTransitions
	if m == ModelKnowledge {
		table = knowledgeTransitions
	}
	return table[current]
}

// CheckTransition validates a status move against the table. A self
// transition is a no-op and always allowed.
func CheckTransition(m Model, from, to string) error {
	if !ValidStatus(m, to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !ValidStatus(m, from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if from == to {
		return nil
	}
	for _, next := range NextStatuses(m, from) {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
