// Package store is the record store: typed CRUD over the back-office entities with
// the reference checks, uniqueness and delete cascades the schema promises.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-backoffice/internal/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a record addressed by id does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// FileRemover deletes stored attachment files once their records are gone.
type FileRemover interface {
	Remove(name string) error
}

type Store struct {
	db    *gorm.DB
	files FileRemover
	log   zerolog.Logger
}

// New returns a Store over db. files may be nil when attachments are not stored on disk.
func New(db *gorm.DB, files FileRemover, log zerolog.Logger) *Store {
	return &Store{db: db, files: files, log: log.With().Str("component", "store").Logger()}
}

// DB exposes the underlying connection for read-only aggregation.
func (s *Store) DB() *gorm.DB { return s.db }

// Create inserts rec after checking its references and uniqueness constraints.
// Related records hanging off rec (rec.Project, rec.Client...) are never written.
func (s *Store) Create(ctx context.Context, rec models.Record) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkWrite(tx, rec); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(rec).Error
	})
	return translate(err)
}

// Update overwrites every column of an existing record.
func (s *Store) Update(ctx context.Context, rec models.Record) error {
	id := rec.PrimaryKey()
	if id == 0 {
		return ErrNotFound
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(rec).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		if err := checkWrite(tx, rec); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(rec).Error
	})
	return translate(err)
}

// Get loads one record by id, preloading the named relations.
func Get[T any](ctx context.Context, s *Store, id uint, preload ...string) (*T, error) {
	q := s.db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	var rec T
	if err := q.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetMany loads the records with the given ids; missing ids are skipped.
func GetMany[T any](ctx context.Context, s *Store, ids []uint, preload ...string) ([]T, error) {
	var out []T
	if len(ids) == 0 {
		return out, nil
	}
	q := s.db.WithContext(ctx)
	for _, p := range preload {
		q = q.Preload(p)
	}
	if err := q.Where("id IN ?", ids).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// checkWrite enforces the cross-record constraints gorm hooks cannot see.
func checkWrite(tx *gorm.DB, rec models.Record) error {
	switch r := rec.(type) {
	case *models.Client:
		email := strings.TrimSpace(r.Email)
		if email == "" {
			return nil
		}
		var n int64
		if err := tx.Model(&models.Client{}).Where("email = ? AND id <> ?", email, r.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return models.Invalid("email", "already_exists")
		}
	case *models.Project:
		return requireRef(tx, &models.Client{}, "client_id", r.ClientID)
	case *models.Task:
		return requireRef(tx, &models.Project{}, "project_id", r.ProjectID)
	case *models.Invoice:
		return requireRef(tx, &models.Project{}, "project_id", r.ProjectID)
	case *models.Payment:
		return requireRef(tx, &models.Invoice{}, "invoice_id", r.InvoiceID)
	case *models.Expense:
		if r.ProjectID != nil && *r.ProjectID != 0 {
			return requireRef(tx, &models.Project{}, "project_id", *r.ProjectID)
		}
	case *models.Note:
		return requireRef(tx, &models.Project{}, "project_id", r.ProjectID)
	case *models.Attachment:
		return requireRef(tx, &models.Project{}, "project_id", r.ProjectID)
	}
	return nil
}

// requireRef leaves a zero id to the model's own "required" validation.
func requireRef(tx *gorm.DB, model any, field string, id uint) error {
	if id == 0 {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s: %w", field, err)
	}
	if n == 0 {
		return models.Invalid(field, "invalid_reference")
	}
	return nil
}

// translate maps constraint errors raised by the database onto field violations.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.Invalid("email", "already_exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.Invalid("id", "invalid_reference")
	}
	return err
}
