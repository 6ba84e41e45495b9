package view

import (
	"context"

	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/core/service"
)

// ContactList renders the contacts of the user named by the usuarioId
// query parameter, or of the session user when absent.
func (v *Views) ContactList(ctx context.Context, req service.ViewRequest) error {
	userID := req.Event.Final.Query.Get(domain.UserIDQueryParam)
	list, err := v.contacts.List(ctx, userID)
	if err != nil {
		return err
	}
	if len(list) == 0 && v.humanOutput() {
		v.printf("No contacts yet. Add one with: contacts new --name <name>\n")
		return nil
	}
	return v.render(list)
}

// ContactCreate creates a contact from the form. Without a name it only
// explains the form.
func (v *Views) ContactCreate(ctx context.Context, req service.ViewRequest) error {
	if req.Form["name"] == "" {
		v.printf("New contact: contacts new --name <name> [--email <email>] [--phone <phone>]\n")
		return nil
	}

	created, err := v.contacts.Create(ctx, domain.Contact{}.Merge(req.Form))
	if err != nil {
		return err
	}
	v.printf("Contact %s created.\n", created.ID)
	return v.render(created)
}

// ContactEdit shows the contact named by the id path variable and applies
// the form to it when one is given.
func (v *Views) ContactEdit(ctx context.Context, req service.ViewRequest) error {
	id := req.Event.Params["id"]
	current, err := v.contacts.Get(ctx, id)
	if err != nil {
		return err
	}
	if len(req.Form) == 0 {
		return v.render(current)
	}

	updated, err := v.contacts.Update(ctx, id, current.Merge(req.Form))
	if err != nil {
		return err
	}
	v.printf("Contact %s updated.\n", id)
	return v.render(updated)
}
