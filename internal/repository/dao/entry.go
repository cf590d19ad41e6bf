package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietanh2810/church-members-api/internal/pkg/entryid"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryIDTaken  = errors.New("entry id already assigned")
)

const entryCounterName = "entry"

type FamilyMember struct {
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
}

type Entry struct {
	ID      uint   `gorm:"primaryKey"`
	EntryID string `gorm:"not null;uniqueIndex"`

	FormID *uint       `gorm:"index"`
	Form   *FormSchema `gorm:"foreignKey:FormID"`
	UserID *uint       `gorm:"index"`
	User   *User       `gorm:"foreignKey:UserID"`

	// Data is the member data bag as JSON text. It is kept as text because the
	// key order is significant and jsonb would discard it.
	Data          string                            `gorm:"type:text;not null"`
	FamilyMembers datatypes.JSONSlice[FamilyMember] `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Entry) TableName() string {
	return "entries"
}

// EntryCounter holds the last CUST number handed out.
type EntryCounter struct {
	Name  string `gorm:"primaryKey"`
	Value uint64 `gorm:"not null"`
}

func (EntryCounter) TableName() string {
	return "entry_counters"
}

type EntryDAO struct {
	db *gorm.DB
}

func NewEntryDAO(db *gorm.DB) *EntryDAO {
	return &EntryDAO{
		db: db,
	}
}

// Insert assigns the next entry ID and stores the entry in one transaction.
// The counter row is locked by the increment, so concurrent inserts are
// serialised and never share an ID.
func (d *EntryDAO) Insert(ctx context.Context, entry Entry) (Entry, error) {
	if entry.FamilyMembers == nil {
		entry.FamilyMembers = datatypes.JSONSlice[FamilyMember]{}
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := nextEntryNumber(tx)
		if err != nil {
			return err
		}
		entry.EntryID = entryid.Format(n)

		if err = tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEntryIDTaken
			}
			return err
		}

		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	return d.FindByID(ctx, entry.ID)
}

func nextEntryNumber(tx *gorm.DB) (uint64, error) {
	result := tx.Model(&EntryCounter{}).
		Where("name = ?", entryCounterName).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		seed, err := lastEntryNumber(tx)
		if err != nil {
			return 0, err
		}

		counter := EntryCounter{Name: entryCounterName, Value: seed + 1}
		if err = tx.Create(&counter).Error; err != nil {
			if isUniqueViolation(err) {
				return 0, ErrEntryIDTaken
			}
			return 0, err
		}

		return counter.Value, nil
	}

	var counter EntryCounter
	if err := tx.First(&counter, "name = ?", entryCounterName).Error; err != nil {
		return 0, err
	}

	return counter.Value, nil
}

// lastEntryNumber reads the number of the most recently created entry, or 0.
func lastEntryNumber(tx *gorm.DB) (uint64, error) {
	entries := []Entry{}

	result := tx.Select("entry_id").Order("created_at DESC, id DESC").Limit(1).Find(&entries)
	if result.Error != nil {
		return 0, result.Error
	}
	if len(entries) == 0 {
		return 0, nil
	}

	n, _ := entryid.Parse(entries[0].EntryID)

	return n, nil
}

// EnsureCounter seeds the entry counter from existing data when it is missing.
func (d *EntryDAO) EnsureCounter(ctx context.Context) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&EntryCounter{}).Where("name = ?", entryCounterName).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		seed, err := lastEntryNumber(tx)
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&EntryCounter{Name: entryCounterName, Value: seed}).Error
	})
}

func (d *EntryDAO) preloaded(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Preload("Form").Preload("User")
}

// FindAll returns every entry in creation order with form and user resolved.
func (d *EntryDAO) FindAll(ctx context.Context) ([]Entry, error) {
	entries := []Entry{}

	result := d.preloaded(ctx).Order("created_at, id").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

func (d *EntryDAO) FindByID(ctx context.Context, id uint) (Entry, error) {
	var entry Entry

	result := d.preloaded(ctx).First(&entry, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Entry{}, ErrEntryNotFound
		}

		return Entry{}, result.Error
	}

	return entry, nil
}

// UpdateData replaces the data bag wholesale.
func (d *EntryDAO) UpdateData(ctx context.Context, id uint, data string) (Entry, error) {
	result := d.db.WithContext(ctx).Model(&Entry{}).Where("id = ?", id).Update("data", data)
	if result.Error != nil {
		return Entry{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Entry{}, ErrEntryNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *EntryDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Entry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}
