package domain

import "time"

type FamilyMember struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

func (m FamilyMember) IsBlank() bool {
	return m.Name == "" && m.Relationship == ""
}

type Entry struct {
	ID            uint           `json:"id"`
	EntryID       string         `json:"entryId"`
	FormID        *uint          `json:"formId"`
	Form          *FormSchema    `json:"form"`
	UserID        *uint          `json:"userId"`
	User          *User          `json:"user"`
	Data          DataBag        `json:"data"`
	FamilyMembers []FamilyMember `json:"familyMembers"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// NewEntry is what a caller supplies when creating an entry. The entry ID and
// timestamps are assigned by the store.
type NewEntry struct {
	FormID        *uint
	UserID        *uint
	Data          DataBag
	FamilyMembers []FamilyMember
}

type Stats struct {
	TotalMembers    int           `json:"totalMembers"`
	PendingPayments int           `json:"pendingPayments"`
	FormsCreated    int64         `json:"formsCreated"`
	ThisMonth       int           `json:"thisMonth"`
	RecentEntries   []RecentEntry `json:"recentEntries"`
}

type RecentEntry struct {
	ID       uint      `json:"id"`
	EntryID  string    `json:"entryId"`
	Name     string    `json:"name"`
	Festival string    `json:"festival"`
	Amount   string    `json:"amount"`
	Status   string    `json:"status"`
	Date     time.Time `json:"date"`
}
