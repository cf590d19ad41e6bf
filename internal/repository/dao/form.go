package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrFormNotFound = errors.New("form not found")

type Field struct {
	Type     string   `json:"type" bson:"type"`
	Label    string   `json:"label" bson:"label"`
	Required bool     `json:"required" bson:"required"`
	Options  []string `json:"options,omitempty" bson:"options,omitempty"`
}

type Festival struct {
	Name string  `json:"name" bson:"name"`
	Fee  float64 `json:"fee" bson:"fee"`
}

type GlobalDropdowns struct {
	Festivals       []Festival `json:"festivals,omitempty" bson:"festivals,omitempty"`
	Denominations   []string   `json:"denominations,omitempty" bson:"denominations,omitempty"`
	PaymentModes    []string   `json:"paymentModes,omitempty" bson:"paymentModes,omitempty"`
	PaymentStatuses []string   `json:"paymentStatuses,omitempty" bson:"paymentStatuses,omitempty"`
}

type FormSchema struct {
	ID uint `gorm:"primaryKey"`

	Name            string                              `gorm:"not null"`
	Fields          datatypes.JSONSlice[Field]          `gorm:"not null"`
	GlobalDropdowns datatypes.JSONType[GlobalDropdowns] `gorm:"not null"`
	CreatedBy       *uint                               `gorm:"index"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (FormSchema) TableName() string {
	return "form_schemas"
}

type FormDAO struct {
	db *gorm.DB
}

func NewFormDAO(db *gorm.DB) *FormDAO {
	return &FormDAO{
		db: db,
	}
}

func (d *FormDAO) Insert(ctx context.Context, form FormSchema) (FormSchema, error) {
	if form.Fields == nil {
		form.Fields = datatypes.JSONSlice[Field]{}
	}

	result := d.db.WithContext(ctx).Create(&form)
	if result.Error != nil {
		return FormSchema{}, result.Error
	}

	return form, nil
}

// FindAll returns every schema, oldest first.
func (d *FormDAO) FindAll(ctx context.Context) ([]FormSchema, error) {
	forms := []FormSchema{}

	result := d.db.WithContext(ctx).Order("created_at, id").Find(&forms)
	if result.Error != nil {
		return nil, result.Error
	}

	return forms, nil
}

func (d *FormDAO) FindByID(ctx context.Context, id uint) (FormSchema, error) {
	var form FormSchema

	result := d.db.WithContext(ctx).First(&form, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return FormSchema{}, ErrFormNotFound
		}

		return FormSchema{}, result.Error
	}

	return form, nil
}

// FindLatest returns the most recently created schema.
func (d *FormDAO) FindLatest(ctx context.Context) (FormSchema, error) {
	forms := []FormSchema{}

	result := d.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(1).Find(&forms)
	if result.Error != nil {
		return FormSchema{}, result.Error
	}
	if len(forms) == 0 {
		return FormSchema{}, ErrFormNotFound
	}

	return forms[0], nil
}

// Update replaces the name and field list. Vocabularies and the creator stay.
func (d *FormDAO) Update(ctx context.Context, id uint, name string, fields []Field) (FormSchema, error) {
	form, err := d.FindByID(ctx, id)
	if err != nil {
		return FormSchema{}, err
	}

	if fields == nil {
		fields = []Field{}
	}
	form.Name = name
	form.Fields = datatypes.JSONSlice[Field](fields)

	result := d.db.WithContext(ctx).Model(&form).Select("Name", "Fields", "UpdatedAt").Updates(&form)
	if result.Error != nil {
		return FormSchema{}, result.Error
	}

	return d.FindByID(ctx, id)
}

// Delete removes the schema and detaches every entry that referenced it.
func (d *FormDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&FormSchema{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrFormNotFound
		}

		return tx.Model(&Entry{}).Where("form_id = ?", id).Update("form_id", nil).Error
	})
}

func (d *FormDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&FormSchema{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
