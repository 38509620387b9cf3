package domain

import "time"

// TaskCard é o card genérico do quadro de tarefas
type TaskCard struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Done        bool       `json:"done"`
}

func (t TaskCard) CardID() string { return t.ID }

type CreateTaskCardRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Assignee    string     `json:"assignee"`
	DueDate     *time.Time `json:"dueDate"`
}
