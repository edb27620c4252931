// Package tui is the terminal board client. It renders the task collection
// as status columns and applies edits optimistically through the store, so
// a move is visible immediately and snaps back if the server rejects it.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/taskdeck/internal/client"
	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/prefs"
	"github.com/jask/taskdeck/internal/store"
	"github.com/jask/taskdeck/internal/workflow"
)

type boardMode string

const (
	modeBrowse boardMode = "browse"
	modeSearch boardMode = "search"
	modeNew    boardMode = "new"
)

// Board is the bubbletea model.
type Board struct {
	store       *store.Store
	events      <-chan store.Event
	unsubscribe func()

	columns []string // statuses in board order
	col     int
	cursor  int

	mode        boardMode
	inputBuffer string
	searchQuery string
	projectID   string
	statusLine  string

	width  int
	height int
}

// New builds a board over the given store, restoring the saved view.
func New(s *store.Store) *Board {
	events, unsub := s.Subscribe()
	b := &Board{
		store:       s,
		events:      events,
		unsubscribe: unsub,
		columns:     workflow.Statuses(workflow.ModelTask),
		mode:        modeBrowse,
	}
	if v, err := prefs.LoadView(prefs.KeyTasks); err == nil {
		b.searchQuery = v.Search
		b.projectID = v.Project
	}
	return b
}

type eventMsg store.Event

type refreshDoneMsg struct{ err error }

func (b *Board) Init() tea.Cmd {
	return tea.Batch(b.refreshCmd(), b.waitForEvent())
}

func (b *Board) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-b.events
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func (b *Board) refreshCmd() tea.Cmd {
	query := client.TaskQuery{Search: b.searchQuery, Project: b.projectID}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := b.store.Refresh(ctx, query)
		return refreshDoneMsg{err: err}
	}
}

func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case refreshDoneMsg:
		if msg.err != nil && msg.err != context.Canceled {
			b.statusLine = fmt.Sprintf("refresh failed: %v", msg.err)
		}
		b.clampCursor()
		return b, nil

	case eventMsg:
		switch store.Event(msg).Kind {
		case store.EventReverted:
			b.statusLine = "change rejected by server, reverted"
		case store.EventRefreshed:
			b.clampCursor()
		}
		return b, b.waitForEvent()

	case tea.KeyMsg:
		switch b.mode {
		case modeSearch, modeNew:
			return b.updateInput(msg)
		default:
			return b.updateBrowse(msg)
		}
	}
	return b, nil
}

func (b *Board) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		b.unsubscribe()
		b.saveView()
		return b, tea.Quit
	case "left", "h":
		if b.col > 0 {
			b.col--
			b.clampCursor()
		}
	case "right", "l":
		if b.col < len(b.columns)-1 {
			b.col++
			b.clampCursor()
		}
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.columnTasks(b.col))-1 {
			b.cursor++
		}
	case "]":
		b.moveSelected(+1)
	case "[":
		b.moveSelected(-1)
	case "x":
		if t, ok := b.selected(); ok {
			b.store.Delete(t.ID)
			b.statusLine = "deleted " + t.Title
			b.clampCursor()
		}
	case "n":
		b.mode = modeNew
		b.inputBuffer = ""
	case "/":
		b.mode = modeSearch
		b.inputBuffer = b.searchQuery
	case "r":
		return b, b.refreshCmd()
	}
	return b, nil
}

func (b *Board) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		b.mode = modeBrowse
		b.inputBuffer = ""
		return b, nil
	case "enter":
		text := b.inputBuffer
		mode := b.mode
		b.mode = modeBrowse
		b.inputBuffer = ""
		if mode == modeSearch {
			b.searchQuery = text
			return b, b.refreshCmd()
		}
		if text != "" {
			b.createTask(text)
		}
		return b, nil
	case "backspace":
		if len(b.inputBuffer) > 0 {
			b.inputBuffer = b.inputBuffer[:len(b.inputBuffer)-1]
		}
		return b, nil
	default:
		if msg.Type == tea.KeySpace {
			b.inputBuffer += " "
		} else if msg.Type == tea.KeyRunes {
			b.inputBuffer += string(msg.Runes)
		}
		return b, nil
	}
}

// moveSelected shifts the selected task along the board by one column,
// skipping over statuses the workflow table does not allow from here.
func (b *Board) moveSelected(dir int) {
	t, ok := b.selected()
	if !ok {
		return
	}
	from := b.col
	for next := from + dir; next >= 0 && next < len(b.columns); next += dir {
		to := b.columns[next]
		if workflow.CheckTransition(workflow.ModelTask, t.Status, to) == nil {
			b.store.Transition(t.ID, to)
			b.statusLine = fmt.Sprintf("%s -> %s", t.Title, to)
			b.clampCursor()
			return
		}
	}
	b.statusLine = fmt.Sprintf("no allowed move from %s", t.Status)
}

func (b *Board) createTask(title string) {
	t := repository.Task{
		Title:  title,
		Status: workflow.Initial(workflow.ModelTask),
		Labels: []string{},
	}
	if b.projectID != "" {
		pid := b.projectID
		t.ProjectID = &pid
	}
	t.ID = uuid.NewString()
	b.store.Create(t)
	b.statusLine = "created " + title
}

func (b *Board) saveView() {
	_ = prefs.SaveView(prefs.KeyTasks, prefs.View{
		Search:  b.searchQuery,
		Project: b.projectID,
	})
}

func (b *Board) columnTasks(col int) []repository.Task {
	status := b.columns[col]
	var out []repository.Task
	for _, t := range b.store.Tasks() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func (b *Board) selected() (repository.Task, bool) {
	tasks := b.columnTasks(b.col)
	if b.cursor < 0 || b.cursor >= len(tasks) {
		return repository.Task{}, false
	}
	return tasks[b.cursor], true
}

func (b *Board) clampCursor() {
	n := len(b.columnTasks(b.col))
	if b.cursor >= n {
		b.cursor = n - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}
