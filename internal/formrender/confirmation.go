package formrender

import (
	"strings"

	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/pkg/whatsapp"
)

type Confirmation struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

// Confirm builds the message sent to a member once their entry is saved and
// the WhatsApp link that delivers it. The link is empty when the entry has no
// phone number.
func Confirm(entry domain.Entry) Confirmation {
	msg := ConfirmationMessage(entry)

	return Confirmation{
		Message: msg,
		Link:    whatsapp.Link(entry.Data.Text(FieldPhoneNumber), msg),
	}
}

// ConfirmationMessage is plain text. Values appear exactly as entered; blank
// strings, zero numbers and false are left out of the details.
func ConfirmationMessage(entry domain.Entry) string {
	var b strings.Builder

	b.WriteString("Hello ")
	b.WriteString(entry.Data.Text(FieldMemberName))
	b.WriteString(", your church entry has been saved!\n")
	b.WriteString("Entry ID: ")
	b.WriteString(entry.EntryID)
	b.WriteString("\n\nDetails:\n")

	var lines []string
	for _, k := range entry.Data.Keys() {
		v, _ := entry.Data.Get(k)
		if !shown(v) {
			continue
		}
		lines = append(lines, k+": "+v.Text())
	}
	b.WriteString(strings.Join(lines, "\n"))

	return b.String()
}

func shown(v domain.Value) bool {
	switch v.Kind() {
	case domain.KindNumber:
		n, _ := v.Float()
		return n != 0
	case domain.KindBool:
		return v.Text() == "true"
	default:
		return !v.IsEmpty()
	}
}
