package repository

import "time"

// Project represents a project row.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initiative represents an initiative row. Initiatives group tasks across
// projects; their status is free-form ("active", "paused", "done").
type Initiative struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Task represents a task row. Labels are stored as a JSON array column.
type Task struct {
	ID           string     `json:"id"`
	ProjectID    *string    `json:"project_id"`
	InitiativeID *string    `json:"initiative_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	Priority     int        `json:"priority"`
	Labels       []string   `json:"labels"`
	DueDate      *time.Time `json:"due_date"`
	SortOrder    int        `json:"sort_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// KnowledgeEntry represents a knowledge base row. Tags are stored as a JSON
// array column.
type KnowledgeEntry struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"project_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
