package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/workflow"
)

// KnowledgeService implements knowledge base operations.
type KnowledgeService struct {
	Entries *repository.KnowledgeRepo
}

// Create inserts a new draft entry.
func (s *KnowledgeService) Create(ctx context.Context, e repository.KnowledgeEntry) (repository.KnowledgeEntry, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return repository.KnowledgeEntry{}, ErrEmptyTitle
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = workflow.Initial(workflow.ModelKnowledge)
	}
	if !workflow.ValidStatus(workflow.ModelKnowledge, e.Status) {
		return repository.KnowledgeEntry{}, workflow.ErrUnknownStatus
	}
	if err := s.Entries.Insert(ctx, e); err != nil {
		return repository.KnowledgeEntry{}, err
	}
	return e, nil
}

// Update replaces an entry's mutable fields.
func (s *KnowledgeService) Update(ctx context.Context, e repository.KnowledgeEntry) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return ErrEmptyTitle
	}
	return s.Entries.Update(ctx, e)
}

// Transition moves an entry through the knowledge workflow.
func (s *KnowledgeService) Transition(ctx context.Context, id, to string) (repository.KnowledgeEntry, error) {
	e, err := s.Entries.Get(ctx, id)
	if err != nil {
		return repository.KnowledgeEntry{}, err
	}
	if err := workflow.CheckTransition(workflow.ModelKnowledge, e.Status, to); err != nil {
		return repository.KnowledgeEntry{}, err
	}
	if e.Status == to {
		return e, nil
	}
	if err := s.Entries.UpdateStatus(ctx, id, to); err != nil {
		return repository.KnowledgeEntry{}, err
	}
	e.Status = to
	return e, nil
}

// Delete removes an entry.
func (s *KnowledgeService) Delete(ctx context.Context, id string) error {
	return s.Entries.Delete(ctx, id)
}

// Get returns one entry.
func (s *KnowledgeService) Get(ctx context.Context, id string) (repository.KnowledgeEntry, error) {
	return s.Entries.Get(ctx, id)
}

// List returns the filtered entry collection.
func (s *KnowledgeService) List(ctx context.Context, f repository.KnowledgeFilters) ([]repository.KnowledgeEntry, error) {
	return s.Entries.List(ctx, f)
}
