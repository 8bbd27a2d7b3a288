package models

import (
	"fmt"
	"time"

	"github.com/diewo77/go-backoffice/validation"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"index;not null" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Title       string     `gorm:"size:150;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus `gorm:"size:20;not null;default:'Todo'" json:"status"`
	DueDate     Date       `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (t *Task) Label() string {
	return fmt.Sprintf("%s (%s)", t.Title, t.Status)
}

// IsOverdue is computed for display only and never persisted.
func (t *Task) IsOverdue(today Date) bool {
	return t.Status != TaskDone && t.DueDate.Valid() && t.DueDate.Before(today)
}

func (t *Task) Validate() validation.Violations {
	v := make(validation.Violations)
	if t.ProjectID == 0 {
		v["project_id"] = "required"
	}
	validation.Required("title", t.Title, v)
	validation.MaxLen("title", t.Title, 150, v)
	validation.OneOf("status", t.Status, TaskStatuses, v)
	return v
}

func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TaskTodo
	}
	return check(t.Validate())
}
