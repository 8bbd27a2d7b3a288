// Package models defines the back-office records: clients, their projects and
// everything hanging off a project.
package models

import "github.com/diewo77/go-backoffice/validation"

// Record is implemented by every entity.
type Record interface {
	Label() string
	Validate() validation.Violations
	PrimaryKey() uint
}

// All lists every entity in dependency order, parents first.
func All() []any {
	return []any{
		&Client{}, &Project{}, &Task{}, &Invoice{}, &Payment{}, &Expense{}, &Note{}, &Attachment{},
	}
}

func (c *Client) PrimaryKey() uint     { return c.ID }
func (p *Project) PrimaryKey() uint    { return p.ID }
func (t *Task) PrimaryKey() uint       { return t.ID }
func (i *Invoice) PrimaryKey() uint    { return i.ID }
func (p *Payment) PrimaryKey() uint    { return p.ID }
func (e *Expense) PrimaryKey() uint    { return e.ID }
func (n *Note) PrimaryKey() uint       { return n.ID }
func (a *Attachment) PrimaryKey() uint { return a.ID }
