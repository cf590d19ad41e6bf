package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
)

const recentEntriesLimit = 10

type StatsEntryRepository interface {
	FindAll(ctx context.Context) ([]domain.Entry, error)
}

type StatsFormRepository interface {
	Count(ctx context.Context) (int64, error)
}

type StatsService struct {
	entries StatsEntryRepository
	forms   StatsFormRepository
	now     func() time.Time
}

func NewStatsService(entries StatsEntryRepository, forms StatsFormRepository) *StatsService {
	return &StatsService{
		entries: entries,
		forms:   forms,
		now:     time.Now,
	}
}

// Dashboard summarises all entries. Pending payments count both Pending and
// Overdue statuses; recent entries are the latest ten, newest first.
func (s *StatsService) Dashboard(ctx context.Context) (domain.Stats, error) {
	entries, err := s.entries.FindAll(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("s.entries.FindAll -> %w", err)
	}

	forms, err := s.forms.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("s.forms.Count -> %w", err)
	}

	now := s.now().UTC()
	stats := domain.Stats{
		TotalMembers:  len(entries),
		FormsCreated:  forms,
		RecentEntries: []domain.RecentEntry{},
	}

	for _, e := range entries {
		switch e.Data.Text(formrender.FieldPaymentStatus) {
		case "Pending", "Overdue":
			stats.PendingPayments++
		}

		created := e.CreatedAt.UTC()
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.ThisMonth++
		}
	}

	for i := len(entries) - 1; i >= 0 && len(stats.RecentEntries) < recentEntriesLimit; i-- {
		stats.RecentEntries = append(stats.RecentEntries, recentEntry(entries[i]))
	}

	return stats, nil
}

func recentEntry(e domain.Entry) domain.RecentEntry {
	amount := "N/A"
	if fee, ok := e.Data.Get(formrender.FieldFees); ok {
		if n, isNum := fee.Float(); isNum && n != 0 {
			amount = "$" + fee.Text()
		}
	}

	return domain.RecentEntry{
		ID:       e.ID,
		EntryID:  e.EntryID,
		Name:     orNA(e.Data.Text(formrender.FieldMemberName)),
		Festival: orNA(e.Data.Text(formrender.FieldFestival)),
		Amount:   amount,
		Status:   orNA(e.Data.Text(formrender.FieldPaymentStatus)),
		Date:     e.CreatedAt,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
