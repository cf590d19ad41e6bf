package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/vietanh2810/church-members-api/internal/config"
	"github.com/vietanh2810/church-members-api/internal/domain"
	"github.com/vietanh2810/church-members-api/internal/formrender"
)

// Notifier announces newly saved entries to staff.
type Notifier interface {
	NotifyEntry(ctx context.Context, entry domain.Entry) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) NotifyEntry(context.Context, domain.Entry) error { return nil }

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

// New returns a Discord notifier when a bot token and channel are configured
// and Nop otherwise.
func New(conf *config.DiscordConfig) (Notifier, error) {
	if conf == nil || conf.BotToken == "" || conf.ChannelID == "" {
		return Nop{}, nil
	}

	session, err := discordgo.New("Bot " + conf.BotToken)
	if err != nil {
		return nil, fmt.Errorf("discordgo.New -> %w", err)
	}

	return NewDiscordNotifier(session, conf.ChannelID), nil
}

func (n *DiscordNotifier) NotifyEntry(ctx context.Context, entry domain.Entry) error {
	if n.session == nil {
		return errors.New("discord session is not configured")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, entryMessage(entry), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("n.session.ChannelMessageSend -> %w", err)
	}

	return nil
}

func entryMessage(entry domain.Entry) string {
	var b strings.Builder

	name := entry.Data.Text(formrender.FieldMemberName)
	if name == "" {
		name = "unnamed member"
	}
	fmt.Fprintf(&b, "New entry **%s** for %s", entry.EntryID, name)

	if festival := entry.Data.Text(formrender.FieldFestival); festival != "" {
		fmt.Fprintf(&b, " (%s", festival)
		if status := entry.Data.Text(formrender.FieldPaymentStatus); status != "" {
			fmt.Fprintf(&b, ", %s", status)
		}
		b.WriteString(")")
	}
	if entry.User != nil {
		fmt.Fprintf(&b, "\nRecorded by %s", entry.User.Name)
	}
	if n := len(entry.FamilyMembers); n > 0 {
		fmt.Fprintf(&b, "\nFamily members: %d", n)
	}

	return b.String()
}
