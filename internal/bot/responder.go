package bot

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Responder provides an abstraction for replying to a chat message.
// This interface enables testing handlers without a live Discord connection.
type Responder interface {
	// Reply sends an embed to the channel of the message.
	Reply(embed *discordgo.MessageEmbed) (*discordgo.Message, error)

	// Edit replaces the embed of a previously sent message.
	Edit(messageID string, embed *discordgo.MessageEmbed) error

	// Delete removes a message from the channel.
	Delete(messageID string) error

	// DeleteAfter removes a message from the channel once d has passed.
	DeleteAfter(messageID string, d time.Duration)

	// DirectMessage sends an embed to the author of the message.
	DirectMessage(embed *discordgo.MessageEmbed) error
}

// DiscordResponder implements Responder using a live Discord session.
type DiscordResponder struct {
	session *discordgo.Session
	message *discordgo.Message
}

var _ Responder = (*DiscordResponder)(nil)

// NewDiscordResponder creates a new DiscordResponder.
func NewDiscordResponder(s *discordgo.Session, m *discordgo.Message) *DiscordResponder {
	return &DiscordResponder{
		session: s,
		message: m,
	}
}

// Reply sends the embed to the channel via Discord API.
func (r *DiscordResponder) Reply(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return r.session.ChannelMessageSendEmbed(r.message.ChannelID, embed)
}

// Edit replaces the embed of messageID.
func (r *DiscordResponder) Edit(messageID string, embed *discordgo.MessageEmbed) error {
	_, err := r.session.ChannelMessageEditEmbed(r.message.ChannelID, messageID, embed)
	return err
}

// Delete removes messageID.
func (r *DiscordResponder) Delete(messageID string) error {
	return r.session.ChannelMessageDelete(r.message.ChannelID, messageID)
}

// DeleteAfter removes messageID after d in the background.
func (r *DiscordResponder) DeleteAfter(messageID string, d time.Duration) {
	time.AfterFunc(d, func() {
		if err := r.Delete(messageID); err != nil {
			slog.Debug("failed to delete message",
				"channel", r.message.ChannelID, "message", messageID, "error", err)
		}
	})
}

// DirectMessage sends the embed to the author's DM channel.
func (r *DiscordResponder) DirectMessage(embed *discordgo.MessageEmbed) error {
	channel, err := r.session.UserChannelCreate(r.message.Author.ID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	_, err = r.session.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

// MockResponder is a test double for Responder.
type MockResponder struct {
	mu sync.Mutex

	Replies []*discordgo.MessageEmbed
	Edits   map[string]*discordgo.MessageEmbed
	Deleted []string
	Delayed map[string]time.Duration
	Direct  []*discordgo.MessageEmbed
	Err     error
	nextID  int
}

var _ Responder = (*MockResponder)(nil)

// Reply records the embed and returns a message with a generated ID.
func (m *MockResponder) Reply(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.Replies = append(m.Replies, embed)
	m.nextID++
	return &discordgo.Message{ID: fmt.Sprintf("%d", m.nextID), Embeds: []*discordgo.MessageEmbed{embed}}, nil
}

// Edit records the edit.
func (m *MockResponder) Edit(messageID string, embed *discordgo.MessageEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Edits == nil {
		m.Edits = make(map[string]*discordgo.MessageEmbed)
	}
	m.Edits[messageID] = embed
	return m.Err
}

// Delete records the deletion.
func (m *MockResponder) Delete(messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, messageID)
	return m.Err
}

// DeleteAfter records the delay without waiting.
func (m *MockResponder) DeleteAfter(messageID string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Delayed == nil {
		m.Delayed = make(map[string]time.Duration)
	}
	m.Delayed[messageID] = d
}

// DirectMessage records the embed.
func (m *MockResponder) DirectMessage(embed *discordgo.MessageEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Direct = append(m.Direct, embed)
	return nil
}

// LastReply returns the most recent reply, or nil.
func (m *MockResponder) LastReply() *discordgo.MessageEmbed {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Replies) == 0 {
		return nil
	}
	return m.Replies[len(m.Replies)-1]
}
