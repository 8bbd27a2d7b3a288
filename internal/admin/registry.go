// Package admin is the operator interface: an explicit registry describing how every
// entity is listed, searched and edited, and generic JSON handlers driven by it.
package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/diewo77/go-backoffice/internal/store"
)

// Column is one list column: a named display function with its heading.
type Column struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	value       func(ctx context.Context, rec models.Record) (any, error)
}

// Inline lists child records on the parent's detail view.
type Inline struct {
	Resource   string   `json:"resource"`
	ForeignKey string   `json:"foreign_key"`
	Fields     []string `json:"fields"`
	Ordering   []string `json:"ordering,omitempty"`
	ReadOnly   []string `json:"read_only,omitempty"` // shown, not editable, in the inline table
}

// Action is a bulk operation run against the selected records of a resource.
type Action struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	run         func(w http.ResponseWriter, r *http.Request, ids []uint)
}

// Meta describes how a resource is presented.
type Meta struct {
	Name         string            `json:"name"`
	Plural       string            `json:"plural"`
	Columns      []Column          `json:"columns"`
	SearchFields []string          `json:"search_fields,omitempty"`
	Filters      map[string]string `json:"filters,omitempty"` // query parameter -> column path
	Ordering     []string          `json:"ordering,omitempty"`
	Preload      []string          `json:"-"`
	Inlines      []Inline          `json:"inlines,omitempty"`
	Actions      []Action          `json:"actions,omitempty"`
	Required     []string          `json:"required,omitempty"`    // keys a create must send, zero allowed
	UploadOnly   bool              `json:"upload_only,omitempty"` // created only through a multipart upload
}

func (m *Meta) action(name string) (Action, bool) {
	for _, a := range m.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Resource binds a Meta to the record type it presents.
type Resource interface {
	Meta() *Meta
	New() models.Record
	List(ctx context.Context, s *store.Store, q store.Query) ([]models.Record, int64, error)
	Get(ctx context.Context, s *store.Store, id uint) (models.Record, error)
	Delete(ctx context.Context, s *store.Store, id uint) error
}

type resource[T any, PT interface {
	*T
	models.Record
}] struct {
	meta Meta
}

func register[T any, PT interface {
	*T
	models.Record
}](meta Meta) Resource {
	return &resource[T, PT]{meta: meta}
}

func (r *resource[T, PT]) Meta() *Meta { return &r.meta }

func (r *resource[T, PT]) New() models.Record { return PT(new(T)) }

func (r *resource[T, PT]) List(ctx context.Context, s *store.Store, q store.Query) ([]models.Record, int64, error) {
	page, err := store.List[T](ctx, s, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Record, len(page.Items))
	for i := range page.Items {
		out[i] = PT(&page.Items[i])
	}
	return out, page.Total, nil
}

func (r *resource[T, PT]) Get(ctx context.Context, s *store.Store, id uint) (models.Record, error) {
	rec, err := store.Get[T](ctx, s, id, r.meta.Preload...)
	if err != nil {
		return nil, err
	}
	return PT(rec), nil
}

func (r *resource[T, PT]) Delete(ctx context.Context, s *store.Store, id uint) error {
	return store.Delete[T](ctx, s, id)
}

// Registry is built once at startup and only read afterwards.
type Registry struct {
	order     []string
	resources map[string]Resource
}

func newRegistry(resources ...Resource) *Registry {
	reg := &Registry{resources: make(map[string]Resource, len(resources))}
	for _, res := range resources {
		name := res.Meta().Name
		if _, dup := reg.resources[name]; dup {
			panic(fmt.Sprintf("admin: resource %q registered twice", name))
		}
		reg.order = append(reg.order, name)
		reg.resources[name] = res
	}
	return reg
}

func (reg *Registry) Lookup(name string) (Resource, bool) {
	res, ok := reg.resources[name]
	return res, ok
}

// Names lists resources in registration order.
func (reg *Registry) Names() []string {
	return append([]string(nil), reg.order...)
}

// field builds a column from a plain accessor.
func field[T any](name, description string, fn func(*T) any) Column {
	return Column{Name: name, Description: description, value: func(_ context.Context, rec models.Record) (any, error) {
		return fn(any(rec).(*T)), nil
	}}
}

// computed builds a column whose value needs a lookup.
func computed[T any](name, description string, fn func(context.Context, *T) (any, error)) Column {
	return Column{Name: name, Description: description, value: func(ctx context.Context, rec models.Record) (any, error) {
		return fn(ctx, any(rec).(*T))
	}}
}

// row renders the list columns of one record.
func row(ctx context.Context, meta *Meta, rec models.Record) (map[string]any, error) {
	values := make(map[string]any, len(meta.Columns))
	for _, c := range meta.Columns {
		v, err := c.value(ctx, rec)
		if err != nil {
			return nil, fmt.Errorf("column %s.%s: %w", meta.Name, c.Name, err)
		}
		values[c.Name] = v
	}
	return map[string]any{
		"id":     rec.PrimaryKey(),
		"label":  rec.Label(),
		"values": values,
	}, nil
}
