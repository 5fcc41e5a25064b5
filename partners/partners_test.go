package partners

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"progressgarant/models"
	"progressgarant/orders"
)

func TestSubmitRelaysApplication(t *testing.T) {
	var subject, company string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		subject = r.PostForm.Get("subject")
		company = r.PostForm.Get("companyName")
	}))
	defer srv.Close()

	fc := orders.NewFormClient()
	fc.Endpoint = srv.URL

	err := Submit(fc, models.PartnerApplication{
		CompanyName:   "ООО 'Прогресс'",
		ContactPerson: "Иван Петров",
		Phone:         "+7 900 123-45-67",
		Email:         "ivan@progress.ru",
		Message:       "Хотим сотрудничать",
	})
	require.NoError(t, err)
	require.Equal(t, "Заявка на партнерство", subject)
	require.Equal(t, "ООО 'Прогресс'", company)
}

func TestSubmitValidation(t *testing.T) {
	fc := orders.NewFormClient() // never reached

	cases := []models.PartnerApplication{
		{ContactPerson: "x", Phone: "1", Email: "a@b.c"},
		{CompanyName: "x", Phone: "1", Email: "a@b.c"},
		{CompanyName: "x", ContactPerson: "y", Email: "a@b.c"},
		{CompanyName: "x", ContactPerson: "y", Phone: "1"},
		{CompanyName: "  ", ContactPerson: "y", Phone: "1", Email: "a@b.c"},
	}
	for _, app := range cases {
		require.ErrorIs(t, Submit(fc, app), ErrIncomplete)
	}
}
