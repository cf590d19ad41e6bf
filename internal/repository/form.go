package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/repository/dao"
)

var ErrFormNotFound = dao.ErrFormNotFound

type FormDAO interface {
	Insert(ctx context.Context, form dao.FormSchema) (dao.FormSchema, error)
	FindAll(ctx context.Context) ([]dao.FormSchema, error)
	FindByID(ctx context.Context, id uint) (dao.FormSchema, error)
	FindLatest(ctx context.Context) (dao.FormSchema, error)
	Update(ctx context.Context, id uint, name string, fields []dao.Field) (dao.FormSchema, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type FormRepository struct {
	dao FormDAO
}

func NewFormRepository(dao FormDAO) *FormRepository {
	return &FormRepository{
		dao: dao,
	}
}

func (r *FormRepository) Create(ctx context.Context, form domain.FormSchema) (domain.FormSchema, error) {
	var dropdowns dao.GlobalDropdowns
	if form.GlobalDropdowns != nil {
		dropdowns = dropdownsToDAO(*form.GlobalDropdowns)
	}

	created, err := r.dao.Insert(ctx, dao.FormSchema{
		Name:            form.Name,
		Fields:          datatypes.JSONSlice[dao.Field](fieldsToDAO(form.Fields)),
		GlobalDropdowns: datatypes.NewJSONType(dropdowns),
		CreatedBy:       form.CreatedBy,
	})
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return formToDomain(created), nil
}

func (r *FormRepository) FindAll(ctx context.Context) ([]domain.FormSchema, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	forms := make([]domain.FormSchema, 0, len(found))
	for _, f := range found {
		forms = append(forms, formToDomain(f))
	}

	return forms, nil
}

func (r *FormRepository) FindByID(ctx context.Context, id uint) (domain.FormSchema, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return formToDomain(found), nil
}

func (r *FormRepository) FindLatest(ctx context.Context) (domain.FormSchema, error) {
	found, err := r.dao.FindLatest(ctx)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("r.dao.FindLatest -> %w", err)
	}

	return formToDomain(found), nil
}

func (r *FormRepository) Update(ctx context.Context, id uint, name string, fields []domain.Field) (domain.FormSchema, error) {
	updated, err := r.dao.Update(ctx, id, name, fieldsToDAO(fields))
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return formToDomain(updated), nil
}

func (r *FormRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *FormRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func fieldsToDAO(fields []domain.Field) []dao.Field {
	out := make([]dao.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, dao.Field{
			Type:     string(f.Type),
			Label:    f.Label,
			Required: f.Required,
			Options:  f.Options,
		})
	}

	return out
}

func dropdownsToDAO(g domain.GlobalDropdowns) dao.GlobalDropdowns {
	festivals := make([]dao.Festival, 0, len(g.Festivals))
	for _, f := range g.Festivals {
		festivals = append(festivals, dao.Festival{Name: f.Name, Fee: f.Fee})
	}

	return dao.GlobalDropdowns{
		Festivals:       festivals,
		Denominations:   g.Denominations,
		PaymentModes:    g.PaymentModes,
		PaymentStatuses: g.PaymentStatuses,
	}
}

func formToDomain(f dao.FormSchema) domain.FormSchema {
	fields := make([]domain.Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		fields = append(fields, domain.Field{
			Type:     domain.FieldType(field.Type),
			Label:    field.Label,
			Required: field.Required,
			Options:  field.Options,
		})
	}

	form := domain.FormSchema{
		ID:        f.ID,
		Name:      f.Name,
		Fields:    fields,
		CreatedBy: f.CreatedBy,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}

	stored := f.GlobalDropdowns.Data()
	dropdowns := domain.GlobalDropdowns{
		Denominations:   stored.Denominations,
		PaymentModes:    stored.PaymentModes,
		PaymentStatuses: stored.PaymentStatuses,
	}
	for _, fest := range stored.Festivals {
		dropdowns.Festivals = append(dropdowns.Festivals, domain.Festival{Name: fest.Name, Fee: fest.Fee})
	}
	if !dropdowns.IsEmpty() {
		form.GlobalDropdowns = &dropdowns
	}

	return form
}
