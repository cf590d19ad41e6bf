package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
	"github.com/vietanh2810/church-members-api/internal/repository"
)

var ErrFormNotFound = repository.ErrFormNotFound

type FormRepository interface {
	Create(ctx context.Context, form domain.FormSchema) (domain.FormSchema, error)
	FindAll(ctx context.Context) ([]domain.FormSchema, error)
	FindByID(ctx context.Context, id uint) (domain.FormSchema, error)
	FindLatest(ctx context.Context) (domain.FormSchema, error)
	Update(ctx context.Context, id uint, name string, fields []domain.Field) (domain.FormSchema, error)
	Delete(ctx context.Context, id uint) error
}

// FormRef points at one schema, or at the most recently created one.
type FormRef struct {
	ID     uint
	Latest bool
}

type FormService struct {
	repo FormRepository
}

func NewFormService(repo FormRepository) *FormService {
	return &FormService{
		repo: repo,
	}
}

func (s *FormService) ListForms(ctx context.Context) ([]domain.FormSchema, error) {
	forms, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return forms, nil
}

func (s *FormService) GetForm(ctx context.Context, ref FormRef) (domain.FormSchema, error) {
	var form domain.FormSchema
	var err error
	if ref.Latest {
		form, err = s.repo.FindLatest(ctx)
	} else {
		form, err = s.repo.FindByID(ctx, ref.ID)
	}
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return form, nil
}

func (s *FormService) CreateForm(ctx context.Context, session domain.Session, form domain.FormSchema) (domain.FormSchema, error) {
	createdBy := session.UserID
	form.CreatedBy = &createdBy
	if form.Fields == nil {
		form.Fields = []domain.Field{}
	}

	created, err := s.repo.Create(ctx, form)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *FormService) UpdateForm(ctx context.Context, id uint, name string, fields []domain.Field) (domain.FormSchema, error) {
	updated, err := s.repo.Update(ctx, id, name, fields)
	if err != nil {
		return domain.FormSchema{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *FormService) DeleteForm(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// Layout renders the referenced schema. Asking for the latest schema when
// none exists yields the built-in fields alone.
func (s *FormService) Layout(ctx context.Context, ref FormRef) (formrender.Layout, error) {
	form, err := s.GetForm(ctx, ref)
	if err != nil {
		if ref.Latest && errors.Is(err, ErrFormNotFound) {
			return formrender.BuildLayout(nil), nil
		}
		return formrender.Layout{}, err
	}

	return formrender.BuildLayout(&form), nil
}
