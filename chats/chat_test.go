package chats

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"progressgarant/globals"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/ratelim"
)

func newTestRepo(t *testing.T) (*Repo, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	return New(store, nil), store
}

func TestGuestIDIsStable(t *testing.T) {
	r, store := newTestRepo(t)

	first, err := r.GuestID()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first, "guest-"))

	second, err := r.GuestID()
	require.NoError(t, err)
	require.Equal(t, first, second)

	// stable across repo instances too
	third, err := New(store, nil).GuestID()
	require.NoError(t, err)
	require.Equal(t, first, third)
}

func TestSingleOpenChatPerActor(t *testing.T) {
	r, _ := newTestRepo(t)

	a, err := r.GetOrCreateChat(Actor{GuestID: "guest-1"})
	require.NoError(t, err)
	b, err := r.GetOrCreateChat(Actor{GuestID: "guest-1"})
	require.NoError(t, err)
	require.Equal(t, a.ID, b.ID, "open chat is reused")

	// a different actor gets a different thread
	c, err := r.GetOrCreateChat(Actor{UserID: "user-1"})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, c.ID)

	// closing is terminal: the next interaction starts fresh
	require.NoError(t, r.CloseChat(a.ID))
	d, err := r.GetOrCreateChat(Actor{GuestID: "guest-1"})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, d.ID)
	require.Equal(t, models.ChatOpen, d.Status)
}

func TestActorMustBeExclusive(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.GetOrCreateChat(Actor{})
	require.Error(t, err)
	_, err = r.GetOrCreateChat(Actor{GuestID: "g", UserID: "u"})
	require.Error(t, err)
}

func TestMessageOrderingByTimestamp(t *testing.T) {
	r, store := newTestRepo(t)

	chat, err := r.GetOrCreateChat(Actor{GuestID: "g"})
	require.NoError(t, err)

	// written in arbitrary order, listed by createdAt ascending
	base := time.Now()
	msgs := []models.ChatMessage{
		{ID: "m3", ChatID: chat.ID, SenderRole: models.RoleGuest, Text: "three", CreatedAt: base.Add(3 * time.Second)},
		{ID: "m1", ChatID: chat.ID, SenderRole: models.RoleGuest, Text: "one", CreatedAt: base.Add(1 * time.Second)},
		{ID: "other", ChatID: "another-chat", SenderRole: models.RoleGuest, Text: "x", CreatedAt: base},
		{ID: "m2", ChatID: chat.ID, SenderRole: models.RoleManager, Text: "two", CreatedAt: base.Add(2 * time.Second)},
	}
	require.NoError(t, kv.WriteJSON(store, globals.KeyMessages, msgs))

	got := r.ListMessages(chat.ID)
	require.Len(t, got, 3)
	require.Equal(t, []string{"one", "two", "three"}, []string{got[0].Text, got[1].Text, got[2].Text})
}

func TestSendAppendsAndBumpsLastMessageAt(t *testing.T) {
	r, _ := newTestRepo(t)

	chat, err := r.GetOrCreateChat(Actor{GuestID: "g"})
	require.NoError(t, err)

	msg, err := r.Send(chat.ID, models.RoleGuest, "g", "  привет  ")
	require.NoError(t, err)
	require.Equal(t, "привет", msg.Text, "text is trimmed")
	require.NotEmpty(t, msg.ID)

	got, err := r.GetChat(chat.ID)
	require.NoError(t, err)
	require.Equal(t, msg.CreatedAt.Unix(), got.LastMessageAt.Unix())
}

func TestSendEmptyTextIsSilentNoop(t *testing.T) {
	r, _ := newTestRepo(t)

	chat, err := r.GetOrCreateChat(Actor{GuestID: "g"})
	require.NoError(t, err)

	msg, err := r.Send(chat.ID, models.RoleGuest, "g", "   \n\t ")
	require.NoError(t, err)
	require.Empty(t, msg.ID)
	require.Empty(t, r.ListMessages(chat.ID))
}

func TestSendUnknownChat(t *testing.T) {
	r, _ := newTestRepo(t)
	_, err := r.Send("no-such-chat", models.RoleGuest, "g", "hello")
	require.ErrorIs(t, err, ErrChatNotFound)
}

func TestStaffInboxOrderedByActivity(t *testing.T) {
	r, _ := newTestRepo(t)

	first, err := r.GetOrCreateChat(Actor{GuestID: "g1"})
	require.NoError(t, err)
	second, err := r.GetOrCreateChat(Actor{GuestID: "g2"})
	require.NoError(t, err)

	// activity on the older thread moves it to the top
	time.Sleep(5 * time.Millisecond)
	_, err = r.Send(first.ID, models.RoleGuest, "g1", "newest activity")
	require.NoError(t, err)

	inbox := r.ListChatsForStaff()
	require.Len(t, inbox, 2)
	require.Equal(t, first.ID, inbox[0].ID)
	require.Equal(t, second.ID, inbox[1].ID)
}

func TestSendRateLimited(t *testing.T) {
	store := kv.NewMemory()
	r := New(store, ratelim.NewRateLimiter())

	chat, err := r.GetOrCreateChat(Actor{GuestID: "g"})
	require.NoError(t, err)

	var limited bool
	for i := 0; i < 20; i++ {
		_, err := r.Send(chat.ID, models.RoleGuest, "g", "spam")
		if err != nil {
			require.ErrorIs(t, err, ErrRateLimited)
			limited = true
			break
		}
	}
	require.True(t, limited, "burst of sends should trip the limiter")
}

func TestSenderLabel(t *testing.T) {
	viewer := &models.User{ID: "u-1", Username: "bob", FirstName: "Боб", LastName: "Иванов"}

	require.Equal(t, "Менеджер", SenderLabel(models.RoleManager, "m-1", viewer))
	require.Equal(t, "Администратор", SenderLabel(models.RoleAdmin, "a-1", viewer))
	require.Equal(t, "Гость", SenderLabel(models.RoleGuest, "g-1", viewer))
	require.Equal(t, "Боб Иванов (Клиент)", SenderLabel(models.RoleUser, "u-1", viewer))
	require.Equal(t, "Клиент", SenderLabel(models.RoleUser, "someone-else", viewer))
	require.Equal(t, "Клиент", SenderLabel(models.RoleUser, "u-1", nil))

	bare := &models.User{ID: "u-2", Username: "kate"}
	require.Equal(t, "kate (Клиент)", SenderLabel(models.RoleUser, "u-2", bare))
}

func TestPollerFiresAndStops(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoller(10*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop() // idempotent
	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	require.LessOrEqual(t, ticks.Load(), settled+1, "no further polling after Stop")
}
