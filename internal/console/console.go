// Package console is a line-oriented front end for the admin panel.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/geocoder89/adminpanel/internal/panel"
)

const (
	ansiReset = "\x1b[0m"
	// accent colours of the dark and light themes
	accentDark  = "\x1b[38;2;63;187;255m"
	accentLight = "\x1b[38;2;0;119;255m"
)

type App struct {
	panel  *panel.Panel
	reader *bufio.Reader
	out    io.Writer
	color  bool
}

// New wires a panel to in/out. The App is also the panel's Prompter.
func New(api panel.API, storage panel.Storage, in io.Reader, out io.Writer, color bool) *App {
	a := &App{reader: bufio.NewReader(in), out: out, color: color}
	a.panel = panel.New(api, storage, a)
	return a
}

// Panel exposes the underlying state, mostly for tests.
func (a *App) Panel() *panel.Panel {
	return a.panel
}

func (a *App) Alert(message string) {
	fmt.Fprintln(a.out, a.accent("! "+message))
}

func (a *App) Confirm(message string) bool {
	answer, err := readLine(a.reader, a.out, message+" [y/N]")
	if err != nil {
		return false
	}

	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (a *App) accent(s string) string {
	if !a.color {
		return s
	}

	if a.panel != nil && a.panel.Theme() == panel.ThemeLight {
		return accentLight + s + ansiReset
	}
	return accentDark + s + ansiReset
}

// Run restores any saved session and starts the prompt loop. It returns
// on EOF or "exit".
func (a *App) Run(ctx context.Context) {
	if err := a.panel.Restore(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not read saved session:", err)
	}

	if a.panel.Mode() == panel.Authenticated {
		if err := a.panel.Refresh(ctx); err != nil && a.panel.Mode() == panel.Unauthenticated {
			fmt.Fprintln(a.out, "Saved session expired, please log in.")
		}
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) status() string {
	if a.panel.Mode() == panel.Authenticated {
		return a.accent("admin")
	}
	return a.accent(a.panel.View().String())
}

func (a *App) isLoggedIn() bool {
	return a.panel.Mode() == panel.Authenticated
}

// Login and Register switch the auth view if needed and submit it.
func (a *App) Login(ctx context.Context) error {
	return a.submitAuth(ctx, panel.ViewLogin)
}

func (a *App) Register(ctx context.Context) error {
	return a.submitAuth(ctx, panel.ViewRegister)
}

func (a *App) ToggleView(ctx context.Context) error {
	a.panel.ToggleView()
	fmt.Fprintf(a.out, "Switched to %s.\n", a.panel.View())
	return nil
}

func (a *App) submitAuth(ctx context.Context, view panel.AuthView) error {
	if a.panel.View() != view {
		a.panel.ToggleView()
	}

	email, err := readLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}

	password, err := readSecret(a.reader, a.out)
	if err != nil {
		return err
	}

	if err := a.panel.SubmitAuth(ctx, email, password); err != nil {
		return err
	}

	if a.panel.Mode() == panel.Authenticated {
		fmt.Fprintln(a.out, "Logged in.")
		a.printUsers(a.panel.Visible())
	}

	return nil
}

func (a *App) Logout(ctx context.Context) error {
	err := a.panel.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	if err != nil {
		fmt.Fprintln(a.out, "Saved token could not be removed:", err)
	}
	return err
}

func (a *App) List(ctx context.Context) error {
	if err := a.panel.Refresh(ctx); err != nil {
		if a.panel.Mode() == panel.Unauthenticated {
			fmt.Fprintln(a.out, "Session expired, please log in.")
		} else {
			fmt.Fprintln(a.out, "Could not load users:", err)
		}
		return err
	}

	a.printUsers(a.panel.Visible())
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	a.panel.SetQuery(query)
	a.printUsers(a.panel.Visible())
	return nil
}

func (a *App) Add(ctx context.Context) error {
	a.panel.CancelEdit()

	name, err := readLine(a.reader, a.out, "Name")
	if err != nil {
		return err
	}
	email, err := readLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}

	a.panel.SetName(name)
	a.panel.SetEmail(email)

	return a.submitUser(ctx)
}

// Edit loads the user into the form. Empty answers keep the current value.
func (a *App) Edit(ctx context.Context, arg string) error {
	u, err := a.findUser(arg)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	a.panel.SelectForEdit(u)

	name, err := readLine(a.reader, a.out, fmt.Sprintf("Name [%s]", u.Name))
	if err != nil {
		return err
	}
	email, err := readLine(a.reader, a.out, fmt.Sprintf("Email [%s]", u.Email))
	if err != nil {
		return err
	}

	if name != "" {
		a.panel.SetName(name)
	}
	if email != "" {
		a.panel.SetEmail(email)
	}

	return a.submitUser(ctx)
}

func (a *App) submitUser(ctx context.Context) error {
	err := a.panel.SubmitUser(ctx)
	if errors.Is(err, panel.ErrIncompleteForm) {
		fmt.Fprintln(a.out, "Name and email are both required.")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Saved.")
	a.printUsers(a.panel.Visible())
	return nil
}

func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return err
	}

	if err := a.panel.Delete(ctx, id); err != nil {
		return err
	}

	a.printUsers(a.panel.Visible())
	return nil
}

func (a *App) Theme(ctx context.Context) error {
	if err := a.panel.ToggleTheme(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, a.accent("Theme: "+string(a.panel.Theme())))
	return nil
}

func (a *App) findUser(arg string) (user.User, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return user.User{}, fmt.Errorf("usage: edit <id>")
	}

	for _, u := range a.panel.Users() {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, fmt.Errorf("no user with id %d in the list, try 'list' first", id)
}

func (a *App) printUsers(users []user.User) {
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, a.accent("ID")+"\t"+a.accent("NAME")+"\t"+a.accent("EMAIL"))
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Email)
	}
	_ = tw.Flush()
}
