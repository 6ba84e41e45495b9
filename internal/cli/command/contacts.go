package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/core/service"
)

func contactFields() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Contact name"},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
		&cli.StringFlag{Name: "phone", Usage: "Phone number"},
	}
}

// ContactsCommand returns the contacts subcommand group.
func ContactsCommand() *cli.Command {
	return &cli.Command{
		Name:    "contacts",
		Aliases: []string{"ct"},
		Usage:   "Manage contacts",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List contacts",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "Owner user id (defaults to the logged-in user)",
					},
				},
				Action: contactsList,
			},
			{
				Name:   "new",
				Usage:  "Create a contact",
				Flags:  contactFields(),
				Action: contactsNew,
			},
			{
				Name:      "edit",
				Usage:     "Update a contact",
				ArgsUsage: "CONTACT_ID",
				Flags:     contactFields(),
				Action:    contactsEdit,
			},
			{
				Name:      "show",
				Aliases:   []string{"get"},
				Usage:     "Show a contact",
				ArgsUsage: "CONTACT_ID",
				Action:    contactsShow,
			},
		},
	}
}

// navigate goes to loc and reports a guard redirect as ErrNotAuthenticated.
func navigate(c *cli.Context, loc domain.Location, opts ...service.NavigateOption) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}
	ev, err := rt.Navigator.NavigateTo(c.Context, loc, opts...)
	if err != nil {
		return err
	}
	if ev.State == domain.NavRedirected {
		return domain.ErrNotAuthenticated
	}
	return nil
}

func contactsList(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}
	userID := c.String("user-id")
	if userID == "" {
		userID = rt.Session.Session().UserID
	}
	return navigate(c, domain.ContactsLocation(userID))
}

// contactForm collects the set contact flags.
func contactForm(c *cli.Context) map[string]string {
	form := map[string]string{}
	for _, name := range []string{"name", "email", "phone"} {
		if c.IsSet(name) {
			form[name] = c.String(name)
		}
	}
	return form
}

func contactsNew(c *cli.Context) error {
	form := contactForm(c)
	if form["name"] == "" {
		return domain.ErrMissingArgument.WithDetails("--name is required")
	}
	if err := navigate(c, domain.Location{Path: "/contacts/new"}, service.WithForm(form)); err != nil {
		return err
	}
	return backToList(c)
}

// backToList opens the contact list of the session user after a write.
// With json or yaml output the written contact is the only document.
func backToList(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}
	if f := rt.Format(); f == output.FormatJSON || f == output.FormatYAML {
		return nil
	}
	return navigate(c, domain.ContactsLocation(rt.Session.Session().UserID))
}

func contactID(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", domain.ErrMissingArgument.WithDetails("CONTACT_ID is required")
	}
	return c.Args().First(), nil
}

func editLocation(id string) domain.Location {
	return domain.Location{Path: "/contacts/edit/" + id}
}

func contactsEdit(c *cli.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}
	form := contactForm(c)
	if len(form) == 0 {
		return domain.ErrMissingArgument.WithDetails("nothing to change: pass --name, --email or --phone")
	}
	if err := navigate(c, editLocation(id), service.WithForm(form)); err != nil {
		return err
	}
	return backToList(c)
}

func contactsShow(c *cli.Context) error {
	id, err := contactID(c)
	if err != nil {
		return err
	}
	return navigate(c, editLocation(id))
}
