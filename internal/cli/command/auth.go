package command

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Aliases: []string{"p"},
		Usage:   "Password (prompted when omitted)",
		EnvVars: []string{"CONTACTS_PASSWORD"},
	}
}

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and open the contact list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User name",
			},
			passwordFlag(),
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}

	creds := domain.Credentials{User: c.String("user"), Password: c.String("password")}
	if creds.User == "" {
		if creds.User, err = rt.ReadLine("User: "); err != nil {
			return domain.ErrMissingArgument.WithDetails("user is required")
		}
	}
	if creds.Password == "" {
		if creds.Password, err = rt.ReadLine("Password: "); err != nil {
			return domain.ErrMissingArgument.WithDetails("password is required")
		}
	}

	spin := output.NewSpinner(rt.Err, "Logging in", Interactive(rt.Err))
	spin.Start()
	out, err := rt.Session.Login(c.Context, creds)
	if err != nil {
		spin.Fail("login failed")
		return err
	}
	spin.Success(fmt.Sprintf("logged in as %s", creds.User))

	_, err = rt.Navigator.NavigateTo(c.Context, out.Next)
	return err
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the session and return to the login view",
		Action: logout,
	}
}

func logout(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}

	out, logoutErr := rt.Session.Logout(c.Context)
	if out.WasAuthenticated {
		fmt.Fprintln(rt.Err, "Logged out.")
	} else {
		fmt.Fprintln(rt.Err, "Not logged in.")
	}
	if _, err := rt.Navigator.NavigateTo(c.Context, out.Next); err != nil {
		return err
	}
	return logoutErr
}

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Display name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Usage:    "User name",
				Required: true,
			},
			passwordFlag(),
		},
		Action: register,
	}
}

func register(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}

	user := domain.User{Name: c.String("name"), User: c.String("user"), Password: c.String("password")}
	if user.Password == "" {
		if user.Password, err = rt.ReadLine("Password: "); err != nil {
			return domain.ErrMissingArgument.WithDetails("password is required")
		}
	}

	if err := rt.Auth.Register(c.Context, user); err != nil {
		return err
	}
	fmt.Fprintf(rt.Err, "Account %s created.\n", user.User)

	_, err = rt.Navigator.NavigateTo(c.Context, domain.LoginLocation())
	return err
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the current session",
		Action: whoami,
	}
}

// Identity describes the current session.
type Identity struct {
	UserID    string     `json:"user_id" yaml:"user_id"`
	Token     string     `json:"token" yaml:"token"`
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired   bool       `json:"expired" yaml:"expired"`
}

func whoami(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}

	sess := rt.Session.Session()
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return rt.Render(identityOf(sess, time.Now()))
}

// identityOf describes sess. JWT claims are read without verification:
// the client holds no key and only displays them.
func identityOf(sess domain.Session, now time.Time) Identity {
	id := Identity{UserID: sess.UserID, Token: logger.RedactString(sess.Token)}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(sess.Token, &claims); err != nil {
		return id
	}
	id.Subject = claims.Subject
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		id.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		id.ExpiresAt = &t
		id.Expired = now.After(t)
	}
	return id
}
