package orders

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"progressgarant/cart"
	"progressgarant/kv"
	"progressgarant/models"
	"progressgarant/mq"
	"progressgarant/products"
)

func newTestEnv(t *testing.T, submitter *FormClient) (*Repo, *cart.Repo) {
	t.Helper()
	store := kv.NewMemory()
	productRepo := products.New(store, kv.NewMemory(), mq.NewEmitter())
	return New(store, submitter), cart.New(store, productRepo)
}

func testFormClient(t *testing.T, status int, got *[]string) *FormClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if got != nil {
			*got = append(*got, r.PostForm.Get("subject"))
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	fc := NewFormClient()
	fc.Endpoint = srv.URL
	return fc
}

func TestListNewestFirst(t *testing.T) {
	repo, _ := newTestEnv(t, nil)

	base := time.Now()
	// appended oldest-last on purpose: the archive itself is unordered
	require.NoError(t, repo.Append(models.Order{ID: "o2", Date: base.Add(2 * time.Hour), Status: models.StatusPending}))
	require.NoError(t, repo.Append(models.Order{ID: "o1", Date: base.Add(1 * time.Hour), Status: models.StatusPending}))
	require.NoError(t, repo.Append(models.Order{ID: "o3", Date: base.Add(3 * time.Hour), Status: models.StatusPending}))

	got := repo.List()
	require.Len(t, got, 3)
	require.Equal(t, []string{"o3", "o2", "o1"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSetStatusAnyTransition(t *testing.T) {
	repo, _ := newTestEnv(t, nil)
	require.NoError(t, repo.Append(models.Order{ID: "o1", Date: time.Now(), Status: models.StatusPending}))

	// every status is reachable from every other, including backwards
	sequence := []string{
		models.StatusDelivered, models.StatusPending, models.StatusCancelled,
		models.StatusReady, models.StatusCollected, models.StatusProcessing,
		models.StatusShipped,
	}
	for _, status := range sequence {
		require.NoError(t, repo.SetStatus("o1", status))
		got, err := repo.Get("o1")
		require.NoError(t, err)
		require.Equal(t, status, got.Status)
	}

	require.Error(t, repo.SetStatus("o1", "teleported"))
	require.ErrorIs(t, repo.SetStatus("missing", models.StatusPending), ErrOrderNotFound)
}

func TestListForEmailExactMatch(t *testing.T) {
	repo, _ := newTestEnv(t, nil)

	require.NoError(t, repo.Append(models.Order{
		ID: "o1", Date: time.Now(),
		OrderData: models.OrderData{Email: "b@x.com"},
	}))
	require.NoError(t, repo.Append(models.Order{
		ID: "o2", Date: time.Now(),
		OrderData: models.OrderData{Email: "other@x.com"},
	}))

	got := repo.ListForEmail("b@x.com")
	require.Len(t, got, 1)
	require.Equal(t, "o1", got[0].ID)

	require.Empty(t, repo.ListForEmail("B@X.COM"), "match is exact, not case-folded")
}

func TestCheckoutArchivesAndClearsCart(t *testing.T) {
	var subjects []string
	fc := testFormClient(t, http.StatusOK, &subjects)
	repo, c := newTestEnv(t, fc)

	require.NoError(t, c.AddLine("3", 2))
	require.NoError(t, c.AddLine("7", 1))

	user := &models.User{ID: "u-1", Username: "bob", Email: "b@x.com", FirstName: "Боб"}
	order, err := repo.Checkout(c, models.OrderData{
		FirstName: "Боб", LastName: "Иванов", Email: "b@x.com",
		Phone: "+7 900 000-00-00", DeliveryMethod: "delivery",
		Address: "ул. Ленина, 1", PaymentMethod: "card",
	}, user)
	require.NoError(t, err)

	require.Equal(t, models.StatusPending, order.Status)
	require.Equal(t, 3, order.TotalItems)
	require.Equal(t, 980.0, order.TotalPrice) // 420*2 + 140
	require.Equal(t, "u-1", order.OrderData.UserID)

	require.Empty(t, c.Lines(), "cart cleared after checkout")
	require.Len(t, repo.List(), 1)
	require.Equal(t, []string{"Новый заказ"}, subjects)
}

func TestCheckoutRemoteFailureKeepsLocalArchive(t *testing.T) {
	fc := testFormClient(t, http.StatusInternalServerError, nil)
	repo, c := newTestEnv(t, fc)

	require.NoError(t, c.AddLine("1", 1))

	order, err := repo.Checkout(c, models.OrderData{Email: "g@x.com"}, nil)
	require.NoError(t, err, "remote failure must not surface from checkout")

	require.Len(t, repo.List(), 1)
	require.Empty(t, c.Lines())
	require.Empty(t, order.OrderData.UserID, "guest checkout carries no user id")
}

func TestCheckoutEmptyCart(t *testing.T) {
	repo, c := newTestEnv(t, nil)
	_, err := repo.Checkout(c, models.OrderData{Email: "g@x.com"}, nil)
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Empty(t, repo.List())
}

func TestWriteReceipt(t *testing.T) {
	order := models.Order{
		ID:   "1700000000000-abc",
		Date: time.Now(),
		Items: []models.CartItem{
			{Product: models.Product{ID: "3", Name: "Автоматический выключатель 16А (1P, C)", Price: 420}, Quantity: 3},
		},
		OrderData:  models.OrderData{FirstName: "Боб", LastName: "Иванов", Email: "b@x.com"},
		TotalPrice: 1260,
		TotalItems: 3,
		Status:     models.StatusPending,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReceipt(order, &buf))
	require.Greater(t, buf.Len(), 1000, "expected a non-trivial PDF")
	require.Equal(t, "%PDF", buf.String()[:4])
}

func TestWriteReceiptRunesOutsideCodepage(t *testing.T) {
	// ₽ has no Windows-1251 byte; it must degrade, not fail the receipt.
	order := models.Order{
		ID:   "1700000000001-def",
		Date: time.Now(),
		Items: []models.CartItem{
			{Product: models.Product{ID: "x", Name: "Кабель ВВГнг 3×1.5 — 100 ₽/м", Price: 100}, Quantity: 1},
		},
		OrderData:  models.OrderData{FirstName: "Гость"},
		TotalPrice: 100,
		TotalItems: 1,
		Status:     models.StatusPending,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReceipt(order, &buf))
	require.Equal(t, "%PDF", buf.String()[:4])
}

func TestCyrillicTranslation(t *testing.T) {
	got := tr("Итого: 420 руб.")
	require.NotContains(t, got, "И", "text must leave UTF-8 for the PDF fonts")
	require.Len(t, got, len([]rune("Итого: 420 руб.")), "one byte per rune in cp1251")
}
