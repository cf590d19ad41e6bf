package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/repository/dao"
)

var (
	ErrEntryNotFound = dao.ErrEntryNotFound
	ErrEntryIDTaken  = dao.ErrEntryIDTaken
)

type EntryDAO interface {
	Insert(ctx context.Context, entry dao.Entry) (dao.Entry, error)
	FindAll(ctx context.Context) ([]dao.Entry, error)
	FindByID(ctx context.Context, id uint) (dao.Entry, error)
	UpdateData(ctx context.Context, id uint, data string) (dao.Entry, error)
	Delete(ctx context.Context, id uint) error
}

type EntryRepository struct {
	dao EntryDAO
}

func NewEntryRepository(dao EntryDAO) *EntryRepository {
	return &EntryRepository{
		dao: dao,
	}
}

func (r *EntryRepository) Create(ctx context.Context, entry domain.NewEntry) (domain.Entry, error) {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	family := make([]dao.FamilyMember, 0, len(entry.FamilyMembers))
	for _, m := range entry.FamilyMembers {
		family = append(family, dao.FamilyMember{Name: m.Name, Relationship: m.Relationship})
	}

	created, err := r.dao.Insert(ctx, dao.Entry{
		FormID:        entry.FormID,
		UserID:        entry.UserID,
		Data:          string(data),
		FamilyMembers: datatypes.JSONSlice[dao.FamilyMember](family),
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return entryToDomain(created)
}

func (r *EntryRepository) FindAll(ctx context.Context) ([]domain.Entry, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	entries := make([]domain.Entry, 0, len(found))
	for _, e := range found {
		entry, err := entryToDomain(e)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id uint) (domain.Entry, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return entryToDomain(found)
}

func (r *EntryRepository) UpdateData(ctx context.Context, id uint, bag domain.DataBag) (domain.Entry, error) {
	data, err := json.Marshal(bag)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	updated, err := r.dao.UpdateData(ctx, id, string(data))
	if err != nil {
		return domain.Entry{}, fmt.Errorf("r.dao.UpdateData -> %w", err)
	}

	return entryToDomain(updated)
}

func (r *EntryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func entryToDomain(e dao.Entry) (domain.Entry, error) {
	var bag domain.DataBag
	if e.Data != "" {
		if err := json.Unmarshal([]byte(e.Data), &bag); err != nil {
			return domain.Entry{}, fmt.Errorf("entry %s has a corrupt data bag -> %w", e.EntryID, err)
		}
	}

	family := make([]domain.FamilyMember, 0, len(e.FamilyMembers))
	for _, m := range e.FamilyMembers {
		family = append(family, domain.FamilyMember{Name: m.Name, Relationship: m.Relationship})
	}

	entry := domain.Entry{
		ID:            e.ID,
		EntryID:       e.EntryID,
		FormID:        e.FormID,
		UserID:        e.UserID,
		Data:          bag,
		FamilyMembers: family,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.Form != nil {
		form := formToDomain(*e.Form)
		entry.Form = &form
	}
	if e.User != nil {
		user := userToDomain(*e.User)
		entry.User = &user
	}

	return entry, nil
}
