package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/workflow"
)

// ErrDuplicateTitle is returned when a created task's title already exists
// in the same project (case-insensitive exact match).
var ErrDuplicateTitle = errors.New("duplicate task title in project")

// ErrEmptyTitle is returned when a create or update carries no title.
var ErrEmptyTitle = errors.New("title must not be empty")

// fuzzyDistanceMax bounds the edit distance under which two titles are
// reported as near duplicates.
const fuzzyDistanceMax = 2

// TaskService implements task operations over the repository.
type TaskService struct {
	Tasks *repository.TaskRepo
}

// CreateResult reports the created task plus any near-duplicate warning.
type CreateResult struct {
	Task          repository.Task
	NearDuplicate *repository.TaskTitle
}

// Create inserts a new task in the inbox. An exact title match within the
// same project is rejected; a near match (small edit distance) is allowed
// but reported so the caller can surface a warning.
func (s *TaskService) Create(ctx context.Context, t repository.Task) (CreateResult, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return CreateResult{}, ErrEmptyTitle
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = workflow.Initial(workflow.ModelTask)
	}
	if !workflow.ValidStatus(workflow.ModelTask, t.Status) {
		return CreateResult{}, fmt.Errorf("%w: %q", workflow.ErrUnknownStatus, t.Status)
	}

	res := CreateResult{Task: t}
	existing, err := s.Tasks.TitlesInProject(ctx, t.ProjectID)
	if err != nil {
		return CreateResult{}, err
	}
	for i, other := range existing {
		if strings.EqualFold(other.Title, t.Title) {
			return CreateResult{}, fmt.Errorf("%w: %q", ErrDuplicateTitle, other.Title)
		}
		if res.NearDuplicate == nil && nearMatch(t.Title, other.Title) {
			res.NearDuplicate = &existing[i]
		}
	}

	if err := s.Tasks.Insert(ctx, t); err != nil {
		return CreateResult{}, err
	}
	return res, nil
}

// Update replaces a task's mutable fields. Status is not touched here;
// use Transition.
func (s *TaskService) Update(ctx context.Context, t repository.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return ErrEmptyTitle
	}
	return s.Tasks.Update(ctx, t)
}

// Transition moves a task to a new workflow status, validated against the
// transition table. It returns the updated task.
func (s *TaskService) Transition(ctx context.Context, id, to string) (repository.Task, error) {
	t, err := s.Tasks.Get(ctx, id)
	if err != nil {
		return repository.Task{}, err
	}
	if err := workflow.CheckTransition(workflow.ModelTask, t.Status, to); err != nil {
		return repository.Task{}, err
	}
	if t.Status == to {
		return t, nil
	}
	if err := s.Tasks.UpdateStatus(ctx, id, to); err != nil {
		return repository.Task{}, err
	}
	t.Status = to
	return t, nil
}

// Reorder updates a task's position within its column.
func (s *TaskService) Reorder(ctx context.Context, id string, sortOrder int) error {
	return s.Tasks.UpdateSortOrder(ctx, id, sortOrder)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.Tasks.Delete(ctx, id)
}

// Get returns one task.
func (s *TaskService) Get(ctx context.Context, id string) (repository.Task, error) {
	return s.Tasks.Get(ctx, id)
}

// List returns the filtered task collection.
func (s *TaskService) List(ctx context.Context, f repository.TaskFilters) ([]repository.Task, error) {
	return s.Tasks.List(ctx, f)
}

// CountByStatus returns per-status totals.
func (s *TaskService) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.Tasks.CountByStatus(ctx)
}

func nearMatch(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return true
	}
	// skip the distance computation when lengths alone rule out a match
	if diff := len(a) - len(b); diff > fuzzyDistanceMax || diff < -fuzzyDistanceMax {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= fuzzyDistanceMax
}
