package store

import (
	"context"

	"github.com/diewo77/go-backoffice/internal/models"
	"gorm.io/gorm"
)

// Delete removes the record of type T with the given id together with everything it owns.
func Delete[T any](ctx context.Context, s *Store, id uint) error {
	var zero T
	switch any(&zero).(type) {
	case *models.Client:
		return s.DeleteClient(ctx, id)
	case *models.Project:
		return s.DeleteProject(ctx, id)
	case *models.Invoice:
		return s.DeleteInvoice(ctx, id)
	case *models.Attachment:
		return s.DeleteAttachment(ctx, id)
	}
	return s.cascade(ctx, func(tx *gorm.DB) ([]string, error) {
		return nil, deleteRoot(tx, &zero, id)
	})
}

// DeleteClient removes a client, its projects and, transitively, everything those projects own.
// Expenses of the projects survive with their project cleared.
func (s *Store) DeleteClient(ctx context.Context, id uint) error {
	return s.cascade(ctx, func(tx *gorm.DB) ([]string, error) {
		var projectIDs []uint
		if err := tx.Model(&models.Project{}).Where("client_id = ?", id).Pluck("id", &projectIDs).Error; err != nil {
			return nil, err
		}
		files, err := deleteProjects(tx, projectIDs)
		if err != nil {
			return nil, err
		}
		return files, deleteRoot(tx, &models.Client{}, id)
	})
}

// DeleteProject removes a project with its tasks, invoices (and their payments), notes and
// attachments. Its expenses are detached, not deleted.
func (s *Store) DeleteProject(ctx context.Context, id uint) error {
	return s.cascade(ctx, func(tx *gorm.DB) ([]string, error) {
		var n int64
		if err := tx.Model(&models.Project{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return deleteProjects(tx, []uint{id})
	})
}

// DeleteInvoice removes an invoice and its payments.
func (s *Store) DeleteInvoice(ctx context.Context, id uint) error {
	return s.cascade(ctx, func(tx *gorm.DB) ([]string, error) {
		if err := tx.Where("invoice_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return nil, err
		}
		return nil, deleteRoot(tx, &models.Invoice{}, id)
	})
}

// DeleteAttachment removes the record and then its stored file.
func (s *Store) DeleteAttachment(ctx context.Context, id uint) error {
	return s.cascade(ctx, func(tx *gorm.DB) ([]string, error) {
		var files []string
		if err := tx.Model(&models.Attachment{}).Where("id = ?", id).Pluck("file", &files).Error; err != nil {
			return nil, err
		}
		return files, deleteRoot(tx, &models.Attachment{}, id)
	})
}

// cascade runs fn in one transaction, then removes the files it collected.
func (s *Store) cascade(ctx context.Context, fn func(tx *gorm.DB) ([]string, error)) error {
	var files []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		files, err = fn(tx)
		return err
	})
	if err != nil {
		return err
	}
	s.removeFiles(files)
	return nil
}

// removeFiles is best effort: the records are already gone.
func (s *Store) removeFiles(files []string) {
	if s.files == nil {
		return
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := s.files.Remove(f); err != nil {
			s.log.Warn().Err(err).Str("file", f).Msg("attachment file not removed")
		}
	}
}

func deleteProjects(tx *gorm.DB, ids []uint) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var invoiceIDs []uint
	if err := tx.Model(&models.Invoice{}).Where("project_id IN ?", ids).Pluck("id", &invoiceIDs).Error; err != nil {
		return nil, err
	}
	if len(invoiceIDs) > 0 {
		if err := tx.Where("invoice_id IN ?", invoiceIDs).Delete(&models.Payment{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Where("id IN ?", invoiceIDs).Delete(&models.Invoice{}).Error; err != nil {
			return nil, err
		}
	}
	var files []string
	if err := tx.Model(&models.Attachment{}).Where("project_id IN ?", ids).Pluck("file", &files).Error; err != nil {
		return nil, err
	}
	for _, child := range []any{&models.Task{}, &models.Note{}, &models.Attachment{}} {
		if err := tx.Where("project_id IN ?", ids).Delete(child).Error; err != nil {
			return nil, err
		}
	}
	// UpdateColumn skips the expense hooks, which would validate an empty model.
	if err := tx.Model(&models.Expense{}).Where("project_id IN ?", ids).UpdateColumn("project_id", nil).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Project{}).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func deleteRoot(tx *gorm.DB, model any, id uint) error {
	res := tx.Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
