package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
	"github.com/vietanh2810/church-members-api/internal/notifier"
	"github.com/vietanh2810/church-members-api/internal/repository"
)

var (
	ErrEntryNotFound = repository.ErrEntryNotFound
	ErrUnknownForm   = errors.New("referenced form does not exist")
	ErrUnknownUser   = errors.New("referenced user does not exist")
)

const notifyTimeout = 5 * time.Second

type EntryRepository interface {
	Create(ctx context.Context, entry domain.NewEntry) (domain.Entry, error)
	FindAll(ctx context.Context) ([]domain.Entry, error)
	FindByID(ctx context.Context, id uint) (domain.Entry, error)
	UpdateData(ctx context.Context, id uint, bag domain.DataBag) (domain.Entry, error)
	Delete(ctx context.Context, id uint) error
}

type EntryFormRepository interface {
	FindByID(ctx context.Context, id uint) (domain.FormSchema, error)
	FindLatest(ctx context.Context) (domain.FormSchema, error)
}

type EntryUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type EntryService struct {
	entries  EntryRepository
	forms    EntryFormRepository
	users    EntryUserRepository
	notifier notifier.Notifier
}

func NewEntryService(entries EntryRepository, forms EntryFormRepository, users EntryUserRepository, n notifier.Notifier) *EntryService {
	if n == nil {
		n = notifier.Nop{}
	}

	return &EntryService{
		entries:  entries,
		forms:    forms,
		users:    users,
		notifier: n,
	}
}

// CreateEntry stores a new entry and returns it with its confirmation. The
// recording user defaults to the caller. When a form is referenced, the data
// bag is checked against its fields.
func (s *EntryService) CreateEntry(ctx context.Context, session domain.Session, input domain.NewEntry) (domain.Entry, formrender.Confirmation, error) {
	if input.UserID == nil {
		userID := session.UserID
		input.UserID = &userID
	} else if _, err := s.users.FindByID(ctx, *input.UserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Entry{}, formrender.Confirmation{}, ErrUnknownUser
		}
		return domain.Entry{}, formrender.Confirmation{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	if input.FormID != nil {
		form, err := s.forms.FindByID(ctx, *input.FormID)
		if err != nil {
			if errors.Is(err, repository.ErrFormNotFound) {
				return domain.Entry{}, formrender.Confirmation{}, ErrUnknownForm
			}
			return domain.Entry{}, formrender.Confirmation{}, fmt.Errorf("s.forms.FindByID -> %w", err)
		}

		if err = ValidateData(form, input.Data); err != nil {
			return domain.Entry{}, formrender.Confirmation{}, err
		}
	}

	family := make([]domain.FamilyMember, 0, len(input.FamilyMembers))
	for _, m := range input.FamilyMembers {
		if !m.IsBlank() {
			family = append(family, m)
		}
	}
	input.FamilyMembers = family

	created, err := s.entries.Create(ctx, input)
	if err != nil {
		return domain.Entry{}, formrender.Confirmation{}, fmt.Errorf("s.entries.Create -> %w", err)
	}

	s.notify(ctx, created)

	return created, formrender.Confirm(created), nil
}

// SubmitForm assembles the data bag from a filled-in layout of the referenced
// schema and stores it as a new entry. The latest reference with no schema
// stored submits against the built-in fields alone.
func (s *EntryService) SubmitForm(ctx context.Context, session domain.Session, ref FormRef, sub formrender.Submission) (domain.Entry, formrender.Confirmation, error) {
	var form *domain.FormSchema

	var found domain.FormSchema
	var err error
	if ref.Latest {
		found, err = s.forms.FindLatest(ctx)
	} else {
		found, err = s.forms.FindByID(ctx, ref.ID)
	}
	switch {
	case err == nil:
		form = &found
	case errors.Is(err, repository.ErrFormNotFound) && ref.Latest:
	case errors.Is(err, repository.ErrFormNotFound):
		return domain.Entry{}, formrender.Confirmation{}, ErrFormNotFound
	default:
		return domain.Entry{}, formrender.Confirmation{}, fmt.Errorf("s.forms.Find -> %w", err)
	}

	bag, family, err := formrender.Assemble(formrender.BuildLayout(form), sub)
	if err != nil {
		return domain.Entry{}, formrender.Confirmation{}, err
	}

	input := domain.NewEntry{Data: bag, FamilyMembers: family}
	if form != nil {
		input.FormID = &form.ID
	}

	return s.CreateEntry(ctx, session, input)
}

func (s *EntryService) notify(ctx context.Context, entry domain.Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyEntry(ctx, entry); err != nil {
		zap.L().Warn("failed to send entry notification", zap.String("entry_id", entry.EntryID), zap.Error(err))
	}
}

func (s *EntryService) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	entries, err := s.entries.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.entries.FindAll -> %w", err)
	}

	return entries, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id uint) (domain.Entry, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("s.entries.FindByID -> %w", err)
	}

	return entry, nil
}

// UpdateEntryData replaces the data bag of an entry. The new bag is checked
// against the entry's form when it still has one.
func (s *EntryService) UpdateEntryData(ctx context.Context, id uint, bag domain.DataBag) (domain.Entry, error) {
	existing, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("s.entries.FindByID -> %w", err)
	}

	if existing.Form != nil {
		if err = ValidateData(*existing.Form, bag); err != nil {
			return domain.Entry{}, err
		}
	}

	updated, err := s.entries.UpdateData(ctx, id, bag)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("s.entries.UpdateData -> %w", err)
	}

	return updated, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, id uint) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.entries.Delete -> %w", err)
	}

	return nil
}
