// Package chats is the append-only message log plus the conversation index.
// There is no push channel: views re-poll on an interval (see Poller) to
// observe messages written by another view.
package chats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/ratelim"
	"progressgarant/utils"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrRateLimited  = errors.New("sending too fast, try again shortly")
)

// Actor identifies the non-staff side of a conversation: either a guest
// device or a registered user, never both and never staff.
type Actor struct {
	GuestID string
	UserID  string
}

// Repo reads and writes the chat and message slots. The optional limiter
// throttles sends per actor; nil means unlimited.
type Repo struct {
	store   kv.Store
	limiter *ratelim.RateLimiter
}

func New(store kv.Store, limiter *ratelim.RateLimiter) *Repo {
	return &Repo{store: store, limiter: limiter}
}

// GuestID returns the stable device id for unauthenticated chat, creating
// and persisting it on first use.
func (r *Repo) GuestID() (string, error) {
	if raw, ok := r.store.Get(globals.KeyGuestID); ok && len(raw) > 0 {
		return string(raw), nil
	}
	id := "guest-" + utils.GetUUID()
	if err := r.store.Set(globals.KeyGuestID, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}

// GetOrCreateChat returns the actor's open conversation, creating one when
// none exists. This is what gives every actor a single reused thread: a
// second call with the same actor finds the first chat again, and only a
// closed chat yields a fresh one.
func (r *Repo) GetOrCreateChat(actor Actor) (models.Chat, error) {
	if (actor.GuestID == "") == (actor.UserID == "") {
		return models.Chat{}, errors.New("actor must carry exactly one of guestId or userId")
	}

	chats := r.readChats()
	for _, c := range chats {
		if c.Status != models.ChatOpen {
			continue
		}
		if actor.GuestID != "" && c.GuestID == actor.GuestID {
			return c, nil
		}
		if actor.UserID != "" && c.UserID == actor.UserID {
			return c, nil
		}
	}

	now := time.Now()
	chat := models.Chat{
		ID:            utils.NewID(),
		GuestID:       actor.GuestID,
		UserID:        actor.UserID,
		CreatedAt:     now,
		LastMessageAt: now,
		Status:        models.ChatOpen,
	}
	next := append([]models.Chat{chat}, chats...)
	if err := kv.WriteJSON(r.store, globals.KeyChats, next); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// GetChat resolves a chat by id.
func (r *Repo) GetChat(chatID string) (models.Chat, error) {
	for _, c := range r.readChats() {
		if c.ID == chatID {
			return c, nil
		}
	}
	return models.Chat{}, ErrChatNotFound
}

// CloseChat marks a conversation closed. Closed is terminal; the next
// interaction from the same actor starts a new thread.
func (r *Repo) CloseChat(chatID string) error {
	chats := r.readChats()
	for i, c := range chats {
		if c.ID == chatID {
			chats[i].Status = models.ChatClosed
			return kv.WriteJSON(r.store, globals.KeyChats, chats)
		}
	}
	return ErrChatNotFound
}

// ListChatsForStaff returns every conversation ordered by most recent
// activity first. This is the staff inbox ordering and must be exact, not
// insertion order.
func (r *Repo) ListChatsForStaff() []models.Chat {
	chats := r.readChats()
	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
	return chats
}

// ListMessages returns a chat's messages ordered by creation time ascending.
func (r *Repo) ListMessages(chatID string) []models.ChatMessage {
	all := kv.ReadJSON(r.store, globals.KeyMessages, []models.ChatMessage(nil))
	out := make([]models.ChatMessage, 0, len(all))
	for _, m := range all {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Send appends a message and bumps the owning chat's lastMessageAt to the
// message timestamp. Whitespace-only text is a silent no-op. The message
// write lands before the chat update, so a crash in between leaves a message
// without a bumped timestamp, never the reverse.
func (r *Repo) Send(chatID, senderRole, senderID, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, nil
	}
	if _, err := r.GetChat(chatID); err != nil {
		return models.ChatMessage{}, err
	}
	if r.limiter != nil && senderID != "" && !r.limiter.Allow(senderID) {
		return models.ChatMessage{}, ErrRateLimited
	}

	msg := models.ChatMessage{
		ID:         utils.NewID(),
		ChatID:     chatID,
		SenderRole: senderRole,
		SenderID:   senderID,
		Text:       text,
		CreatedAt:  time.Now(),
	}

	all := kv.ReadJSON(r.store, globals.KeyMessages, []models.ChatMessage(nil))
	all = append(all, msg)
	if err := kv.WriteJSON(r.store, globals.KeyMessages, all); err != nil {
		return models.ChatMessage{}, err
	}

	chats := r.readChats()
	for i, c := range chats {
		if c.ID == chatID {
			chats[i].LastMessageAt = msg.CreatedAt
			break
		}
	}
	if err := kv.WriteJSON(r.store, globals.KeyChats, chats); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

// SenderLabel derives the display attribution for a message. Presentation
// only - never persisted with the message.
func SenderLabel(senderRole, senderID string, viewer *models.User) string {
	switch senderRole {
	case models.RoleManager:
		return "Менеджер"
	case models.RoleAdmin:
		return "Администратор"
	case models.RoleGuest:
		return "Гость"
	}

	if senderID != "" && viewer != nil && viewer.ID == senderID {
		fullName := strings.TrimSpace(viewer.FirstName + " " + viewer.LastName)
		if fullName != "" {
			return fmt.Sprintf("%s (Клиент)", fullName)
		}
		if viewer.Username != "" {
			return fmt.Sprintf("%s (Клиент)", viewer.Username)
		}
	}
	return "Клиент"
}

func (r *Repo) readChats() []models.Chat {
	return kv.ReadJSON(r.store, globals.KeyChats, []models.Chat(nil))
}
