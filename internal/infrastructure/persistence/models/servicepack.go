package models

import (
	"encoding/json"
	"fmt"

	"github.com/erp/servicepack/internal/domain/servicepack"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ServiceTemplateModel is the persistence model for servicepack.Template
type ServiceTemplateModel struct {
	BaseModel
	Position    int                        `gorm:"not null;default:0;index"`
	Code        string                     `gorm:"type:varchar(100);not null;uniqueIndex:idx_service_template_code"`
	Name        string                     `gorm:"type:varchar(200);not null"`
	Description string                     `gorm:"type:text"`
	TotalHours  decimal.Decimal            `gorm:"type:numeric;not null;default:0"`
	Composition datatypes.JSON             `gorm:"type:jsonb;not null"`
	CreatedBy   string                     `gorm:"type:varchar(100)"`
	Status      servicepack.TemplateStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ServiceTemplateModel) TableName() string {
	return "service_templates"
}

// ToDomain converts the persistence model to a domain Template
func (m *ServiceTemplateModel) ToDomain() (servicepack.Template, error) {
	var c servicepack.Composition
	if len(m.Composition) > 0 {
		if err := json.Unmarshal(m.Composition, &c); err != nil {
			return servicepack.Template{}, fmt.Errorf("decode composition of template %s: %w", m.Code, err)
		}
	}
	return servicepack.Template{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		TotalHours:  m.TotalHours,
		Composition: c,
		CreatedBy:   m.CreatedBy,
		Status:      m.Status,
	}, nil
}

// FromDomain populates the persistence model from a domain Template stored at position
func (m *ServiceTemplateModel) FromDomain(t servicepack.Template, position int) error {
	composition, err := json.Marshal(t.Composition)
	if err != nil {
		return fmt.Errorf("encode composition of template %s: %w", t.Code, err)
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Position = position
	m.Code = t.Code
	m.Name = t.Name
	m.Description = t.Description
	m.TotalHours = t.TotalHours
	m.Composition = datatypes.JSON(composition)
	m.CreatedBy = t.CreatedBy
	m.Status = t.Status
	return nil
}

// ServiceBundleModel is the persistence model for servicepack.ServiceBundle
type ServiceBundleModel struct {
	BaseModel
	Position         int                      `gorm:"not null;default:0;index"`
	Code             string                   `gorm:"type:varchar(120);not null;uniqueIndex:idx_service_bundle_code"`
	Name             string                   `gorm:"type:varchar(200);not null"`
	Description      string                   `gorm:"type:text"`
	Type             string                   `gorm:"type:varchar(50);not null"`
	Category         string                   `gorm:"type:varchar(100)"`
	TotalHours       decimal.Decimal          `gorm:"type:numeric;not null;default:0"`
	LaborRatePerHour decimal.Decimal          `gorm:"type:numeric;not null;default:0"`
	MaterialCost     decimal.Decimal          `gorm:"type:numeric;not null;default:0"`
	LaborCost        decimal.Decimal          `gorm:"type:numeric;not null;default:0"`
	EstimatedCost    decimal.Decimal          `gorm:"type:numeric;not null;default:0"`
	TemplateID       uuid.UUID                `gorm:"type:uuid;not null;index"`
	TemplateSnapshot datatypes.JSON           `gorm:"type:jsonb;not null"`
	CreatedBy        string                   `gorm:"type:varchar(100)"`
	Status           servicepack.BundleStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ServiceBundleModel) TableName() string {
	return "service_bundles"
}

// ToDomain converts the persistence model to a domain ServiceBundle
func (m *ServiceBundleModel) ToDomain() (servicepack.ServiceBundle, error) {
	var tpl servicepack.Template
	if len(m.TemplateSnapshot) > 0 {
		if err := json.Unmarshal(m.TemplateSnapshot, &tpl); err != nil {
			return servicepack.ServiceBundle{}, fmt.Errorf("decode template snapshot of bundle %s: %w", m.Code, err)
		}
	}
	return servicepack.ServiceBundle{
		BaseEntity:       m.BaseModel.ToDomain(),
		Code:             m.Code,
		Name:             m.Name,
		Description:      m.Description,
		Type:             m.Type,
		Category:         m.Category,
		TotalHours:       m.TotalHours,
		LaborRatePerHour: m.LaborRatePerHour,
		MaterialCost:     m.MaterialCost,
		LaborCost:        m.LaborCost,
		EstimatedCost:    m.EstimatedCost,
		Template:         tpl,
		CreatedBy:        m.CreatedBy,
		Status:           m.Status,
	}, nil
}

// FromDomain populates the persistence model from a domain ServiceBundle stored at position
func (m *ServiceBundleModel) FromDomain(b servicepack.ServiceBundle, position int) error {
	snapshot, err := json.Marshal(b.Template)
	if err != nil {
		return fmt.Errorf("encode template snapshot of bundle %s: %w", b.Code, err)
	}
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Position = position
	m.Code = b.Code
	m.Name = b.Name
	m.Description = b.Description
	m.Type = b.Type
	m.Category = b.Category
	m.TotalHours = b.TotalHours
	m.LaborRatePerHour = b.LaborRatePerHour
	m.MaterialCost = b.MaterialCost
	m.LaborCost = b.LaborCost
	m.EstimatedCost = b.EstimatedCost
	m.TemplateID = b.TemplateID()
	m.TemplateSnapshot = datatypes.JSON(snapshot)
	m.CreatedBy = b.CreatedBy
	m.Status = b.Status
	return nil
}
