// Package partners handles the partnership application form. Applications
// are relayed to the outbound form endpoint and kept nowhere locally.
package partners

import (
	"errors"
	"strings"

	"progressgarant/models"
	"progressgarant/orders"
)

var ErrIncomplete = errors.New("company name, contact person, phone and email are required")

// Submit validates and relays one application.
func Submit(fc *orders.FormClient, app models.PartnerApplication) error {
	app.CompanyName = strings.TrimSpace(app.CompanyName)
	app.ContactPerson = strings.TrimSpace(app.ContactPerson)
	app.Phone = strings.TrimSpace(app.Phone)
	app.Email = strings.TrimSpace(app.Email)
	if app.CompanyName == "" || app.ContactPerson == "" || app.Phone == "" || app.Email == "" {
		return ErrIncomplete
	}
	return fc.SubmitPartnerApplication(app)
}
