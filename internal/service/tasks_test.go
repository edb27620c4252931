package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/taskdeck/internal/database"
	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/workflow"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreateAssignsDefaults(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db := testDB(t)
	svc := &TaskService{Tasks: repository.NewTaskRepo(db)}

	res, err := svc.Create(ctx, repository.Task{Title: "  First task  "})
	require.NoError(t, err)
	require.NotEmpty(t, res.Task.ID)
	require.Equal(t, "First task", res.Task.Title)
	require.Equal(t, workflow.StatusInbox, res.Task.Status)
	require.Nil(t, res.NearDuplicate)

	_, err = svc.Create(ctx, repository.Task{Title: ""})
	require.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.Create(ctx, repository.Task{Title: "Bad status", Status: "shipped"})
	require.ErrorIs(t, err, workflow.ErrUnknownStatus)
}

func TestCreateDuplicateDetection(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db := testDB(t)
	projRepo := repository.NewProjectRepo(db)
	svc := &TaskService{Tasks: repository.NewTaskRepo(db)}

	projID := uuid.NewString()
	require.NoError(t, projRepo.Upsert(ctx, repository.Project{ID: projID, Name: "Website"}))

	_, err := svc.Create(ctx, repository.Task{Title: "Fix login redirect", ProjectID: &projID})
	require.NoError(t, err)

	// exact match (case-insensitive) rejected
	_, err = svc.Create(ctx, repository.Task{Title: "fix login redirect", ProjectID: &projID})
	require.ErrorIs(t, err, ErrDuplicateTitle)

	// near match allowed but reported
	res, err := svc.Create(ctx, repository.Task{Title: "Fix login redirects", ProjectID: &projID})
	require.NoError(t, err)
	require.NotNil(t, res.NearDuplicate)
	require.Equal(t, "Fix login redirect", res.NearDuplicate.Title)

	// same title in a different project is fine
	_, err = svc.Create(ctx, repository.Task{Title: "Fix login redirect"})
	require.NoError(t, err)
}

func TestTransitionValidatesTable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db := testDB(t)
	svc := &TaskService{Tasks: repository.NewTaskRepo(db)}

	res, err := svc.Create(ctx, repository.Task{Title: "Ship it"})
	require.NoError(t, err)
	id := res.Task.ID

	moved, err := svc.Transition(ctx, id, workflow.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusInProgress, moved.Status)

	// skipping review straight to archived is not in the table
	_, err = svc.Transition(ctx, id, workflow.StatusArchived)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	// self transition is a no-op
	same, err := svc.Transition(ctx, id, workflow.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusInProgress, same.Status)

	_, err = svc.Transition(ctx, "no-such-id", workflow.StatusDone)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKnowledgeTransitions(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db := testDB(t)
	svc := &KnowledgeService{Entries: repository.NewKnowledgeRepo(db)}

	entry, err := svc.Create(ctx, repository.KnowledgeEntry{Title: "Deploy runbook"})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDraft, entry.Status)

	_, err = svc.Transition(ctx, entry.ID, workflow.StatusPublished)
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)

	reviewed, err := svc.Transition(ctx, entry.ID, workflow.StatusInReview)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusInReview, reviewed.Status)

	published, err := svc.Transition(ctx, entry.ID, workflow.StatusPublished)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusPublished, published.Status)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db := testDB(t)
	tasks := &TaskService{Tasks: repository.NewTaskRepo(db)}
	_, err := tasks.Create(ctx, repository.Task{Title: "Doomed"})
	require.NoError(t, err)

	maint := &MaintenanceService{DB: db}
	require.NoError(t, maint.Reset(ctx))

	left, err := tasks.List(ctx, repository.TaskFilters{})
	require.NoError(t, err)
	require.Empty(t, left)
}
