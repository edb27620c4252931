package tui

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/taskdeck/internal/client"
	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/store"
	"github.com/jask/taskdeck/internal/workflow"
)

// stubAPI serves a fixed collection and records transitions.
type stubAPI struct {
	tasks       []repository.Task
	transitions []string
}

func (s *stubAPI) ListTasks(ctx context.Context, q client.TaskQuery) ([]repository.Task, error) {
	return s.tasks, nil
}

func (s *stubAPI) CreateTask(ctx context.Context, t repository.Task) (client.CreatedTask, error) {
	s.tasks = append(s.tasks, t)
	return client.CreatedTask{Task: t}, nil
}

func (s *stubAPI) UpdateTask(ctx context.Context, t repository.Task) (repository.Task, error) {
	return t, nil
}

func (s *stubAPI) TransitionTask(ctx context.Context, id, status string) (repository.Task, error) {
	s.transitions = append(s.transitions, id+":"+status)
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = status
			return s.tasks[i], nil
		}
	}
	return repository.Task{}, nil
}

func (s *stubAPI) DeleteTask(ctx context.Context, id string) error { return nil }

func seededBoard(t *testing.T) (*Board, *stubAPI) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	api := &stubAPI{tasks: []repository.Task{
		{ID: "t1", Title: "Triage bug reports", Status: workflow.StatusInbox},
		{ID: "t2", Title: "Refactor filters", Status: workflow.StatusBacklog},
	}}
	s := store.New(api)
	require.NoError(t, s.Refresh(context.Background(), client.TaskQuery{}))
	return New(s), api
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestViewShowsColumnsAndCounts(t *testing.T) {
	b, _ := seededBoard(t)

	out := b.View()
	require.Contains(t, out, "inbox (1)")
	require.Contains(t, out, "backlog (1)")
	require.Contains(t, out, "Triage bug reports")
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	t.Parallel()

	require.Equal(t, "héllo", truncate("héllo", 10))
	require.Equal(t, "héll…", truncate("héllo wörld", 5))
	require.Equal(t, "日本語タ…", truncate("日本語タスクの整理", 5))
	require.Equal(t, "h", truncate("héllo", 1))

	for _, max := range []int{1, 2, 5, 8} {
		require.True(t, utf8.ValidString(truncate("résumé の整理", max)), "max %d", max)
	}
}

func TestMoveKeyAppliesOptimisticTransition(t *testing.T) {
	b, api := seededBoard(t)

	// cursor starts on the inbox column's first task
	model, _ := b.Update(key("]"))
	b = model.(*Board)

	// optimistic: snapshot already shows the move before Wait
	got, ok := b.store.Get("t1")
	require.True(t, ok)
	require.Equal(t, workflow.StatusBacklog, got.Status)

	b.store.Wait()
	require.Contains(t, api.transitions, "t1:"+workflow.StatusBacklog)
}

func TestNewTaskFlow(t *testing.T) {
	b, api := seededBoard(t)

	model, _ := b.Update(key("n"))
	b = model.(*Board)
	require.Equal(t, modeNew, b.mode)

	for _, r := range "Ship" {
		model, _ = b.Update(key(string(r)))
		b = model.(*Board)
	}
	model, _ = b.Update(key("enter"))
	b = model.(*Board)

	require.Equal(t, modeBrowse, b.mode)
	b.store.Wait()

	var titles []string
	for _, task := range api.tasks {
		titles = append(titles, task.Title)
	}
	require.Contains(t, strings.Join(titles, ","), "Ship")
}

func TestSearchModeUpdatesQuery(t *testing.T) {
	b, _ := seededBoard(t)

	model, _ := b.Update(key("/"))
	b = model.(*Board)
	require.Equal(t, modeSearch, b.mode)

	model, _ = b.Update(key("x"))
	b = model.(*Board)
	model, cmd := b.Update(key("enter"))
	b = model.(*Board)
	require.Equal(t, "x", b.searchQuery)
	require.NotNil(t, cmd, "submitting a search should trigger a refresh")
}

func TestEscLeavesInputMode(t *testing.T) {
	b, _ := seededBoard(t)

	model, _ := b.Update(key("/"))
	b = model.(*Board)
	model, _ = b.Update(key("esc"))
	b = model.(*Board)
	require.Equal(t, modeBrowse, b.mode)
	require.Empty(t, b.inputBuffer)
}
