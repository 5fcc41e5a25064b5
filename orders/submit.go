package orders

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"progressgarant/models"
)

// DefaultEndpoint is the third-party form relay both the checkout and the
// partner form post to.
const DefaultEndpoint = "https://api.web3forms.com/submit"

const defaultAccessKey = "83d99d26-1cd2-4c09-8c64-1395b05e31f1"

// FormClient posts flattened records as form-encoded fields to the relay.
// Our responsibility ends at constructing the payload: the caller archives
// locally regardless of the remote outcome.
type FormClient struct {
	Endpoint  string
	AccessKey string
	HTTP      *http.Client
}

func NewFormClient() *FormClient {
	return &FormClient{
		Endpoint:  DefaultEndpoint,
		AccessKey: defaultAccessKey,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// SubmitOrder flattens an order into the form fields the email template
// expects.
func (fc *FormClient) SubmitOrder(order models.Order, user *models.User) error {
	form := url.Values{}
	form.Set("access_key", fc.AccessKey)
	form.Set("subject", "Новый заказ")

	userName := "Гость"
	userEmail := "Не указан"
	if user != nil {
		if user.FirstName != "" {
			userName = user.FirstName
		} else if user.Username != "" {
			userName = user.Username
		}
		if user.Email != "" {
			userEmail = user.Email
		}
	}
	form.Set("user_name", userName)
	form.Set("user_email", userEmail)

	form.Set("order_id", order.ID)
	form.Set("order_total", strconv.FormatFloat(order.TotalPrice, 'f', -1, 64))

	var lines []string
	for _, item := range order.Items {
		lines = append(lines, fmt.Sprintf("%s × %d — %.0f ₽", item.Name, item.Quantity, item.Price*float64(item.Quantity)))
	}
	form.Set("order_items", strings.Join(lines, "\n"))

	form.Set("firstName", order.OrderData.FirstName)
	form.Set("lastName", order.OrderData.LastName)
	form.Set("email", order.OrderData.Email)
	form.Set("phone", order.OrderData.Phone)
	form.Set("deliveryMethod", order.OrderData.DeliveryMethod)
	form.Set("address", order.OrderData.Address)
	form.Set("paymentMethod", order.OrderData.PaymentMethod)
	form.Set("comment", order.OrderData.Comment)

	return fc.post(form)
}

// SubmitPartnerApplication relays the partnership form. Nothing is archived
// locally for these.
func (fc *FormClient) SubmitPartnerApplication(app models.PartnerApplication) error {
	form := url.Values{}
	form.Set("access_key", fc.AccessKey)
	form.Set("subject", "Заявка на партнерство")
	form.Set("companyName", app.CompanyName)
	form.Set("contactPerson", app.ContactPerson)
	form.Set("phone", app.Phone)
	form.Set("email", app.Email)
	form.Set("message", app.Message)
	return fc.post(form)
}

func (fc *FormClient) post(form url.Values) error {
	resp, err := fc.HTTP.PostForm(fc.Endpoint, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("form relay returned %s", resp.Status)
	}
	return nil
}
