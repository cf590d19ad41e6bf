package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/church-members-api/internal/config"
	"github.com/vietanh2810/church-members-api/internal/domain"
)

func TestNew_WithoutTokenIsNop(t *testing.T) {
	n, err := New(&config.DiscordConfig{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.NotifyEntry(context.Background(), domain.Entry{}))
}

func TestNew_WithToken(t *testing.T) {
	n, err := New(&config.DiscordConfig{BotToken: "token", ChannelID: "123"})
	require.NoError(t, err)
	assert.IsType(t, &DiscordNotifier{}, n)
}

func TestDiscordNotifier_NoSession(t *testing.T) {
	n := NewDiscordNotifier(nil, "123")
	assert.Error(t, n.NotifyEntry(context.Background(), domain.Entry{}))
}

func TestEntryMessage(t *testing.T) {
	var bag domain.DataBag
	bag.Set("memberName", domain.String("Jane"))
	bag.Set("festival", domain.String("Easter"))
	bag.Set("paymentStatus", domain.String("Pending"))

	msg := entryMessage(domain.Entry{
		EntryID:       "CUST0003",
		Data:          bag,
		User:          &domain.User{Name: "Dee"},
		FamilyMembers: []domain.FamilyMember{{Name: "John"}},
	})

	assert.Equal(t, "New entry **CUST0003** for Jane (Easter, Pending)\nRecorded by Dee\nFamily members: 1", msg)
}

func TestEntryMessage_Minimal(t *testing.T) {
	assert.Equal(t, "New entry **CUST0001** for unnamed member", entryMessage(domain.Entry{EntryID: "CUST0001"}))
}
