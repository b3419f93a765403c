package persistence

import (
	"context"
	"fmt"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/erp/servicepack/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const insertBatchSize = 100

// GormStore persists templates and bundles in the service_templates and
// service_bundles tables. Every save replaces the table contents inside a
// transaction, so readers never see a partial list.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// LoadTemplates returns all templates in saved order
func (s *GormStore) LoadTemplates(ctx context.Context) ([]servicepack.Template, error) {
	var rows []models.ServiceTemplateModel
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query service templates: %w", err)
	}
	templates := make([]servicepack.Template, 0, len(rows))
	for i := range rows {
		t, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// LoadBundles returns all bundles in saved order
func (s *GormStore) LoadBundles(ctx context.Context) ([]servicepack.ServiceBundle, error) {
	var rows []models.ServiceBundleModel
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query service bundles: %w", err)
	}
	bundles := make([]servicepack.ServiceBundle, 0, len(rows))
	for i := range rows {
		b, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// SaveTemplates replaces the stored template list
func (s *GormStore) SaveTemplates(ctx context.Context, templates []servicepack.Template) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceTemplates(tx, templates)
	})
}

// SaveBundles replaces the stored bundle list
func (s *GormStore) SaveBundles(ctx context.Context, bundles []servicepack.ServiceBundle) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceBundles(tx, bundles)
	})
}

// ReplaceAll replaces both lists in one transaction
func (s *GormStore) ReplaceAll(ctx context.Context, templates []servicepack.Template, bundles []servicepack.ServiceBundle) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := replaceTemplates(tx, templates); err != nil {
			return err
		}
		return replaceBundles(tx, bundles)
	})
}

func replaceTemplates(tx *gorm.DB, templates []servicepack.Template) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ServiceTemplateModel{}).Error; err != nil {
		return fmt.Errorf("clear service templates: %w", err)
	}
	if len(templates) == 0 {
		return nil
	}
	rows := make([]models.ServiceTemplateModel, len(templates))
	for i, t := range templates {
		if err := rows[i].FromDomain(t, i); err != nil {
			return err
		}
	}
	if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("insert service templates: %w", err)
	}
	return nil
}

func replaceBundles(tx *gorm.DB, bundles []servicepack.ServiceBundle) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ServiceBundleModel{}).Error; err != nil {
		return fmt.Errorf("clear service bundles: %w", err)
	}
	if len(bundles) == 0 {
		return nil
	}
	rows := make([]models.ServiceBundleModel, len(bundles))
	for i, b := range bundles {
		if err := rows[i].FromDomain(b, i); err != nil {
			return err
		}
	}
	if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("insert service bundles: %w", err)
	}
	return nil
}

var _ servicepack.AtomicStore = (*GormStore)(nil)
