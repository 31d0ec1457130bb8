// Package panel holds the client-side state of the admin panel: who is
// signed in, which auth view is showing, the fetched users, the search
// query and the create/edit form. Front ends render it and forward input.
package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/adminpanel/internal/client"
	"github.com/geocoder89/adminpanel/internal/domain/user"
)

type Mode int

const (
	Unauthenticated Mode = iota
	Authenticated
)

func (m Mode) String() string {
	if m == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

type AuthView int

const (
	ViewLogin AuthView = iota
	ViewRegister
)

func (v AuthView) String() string {
	if v == ViewRegister {
		return "register"
	}
	return "login"
}

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

var (
	// ErrBusy rejects an auth submit while another is in flight.
	ErrBusy = errors.New("auth request already in flight")
	// ErrIncompleteForm is returned, without calling the API, when name or
	// email is empty.
	ErrIncompleteForm = errors.New("name and email are required")
)

const (
	msgRegistered   = "Success! Now log in."
	msgAuthFailed   = "Error"
	msgSaveFailed   = "Save failed"
	msgDeleteFailed = "Delete failed"
	msgConfirmDel   = "Delete?"
)

// API is the subset of *client.Client the panel drives.
type API interface {
	Register(ctx context.Context, email, password string) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListUsers(ctx context.Context, token string) ([]user.User, error)
	CreateUser(ctx context.Context, token string, in user.Input) (user.User, error)
	UpdateUser(ctx context.Context, token string, id int64, in user.Input) (user.User, error)
	DeleteUser(ctx context.Context, token string, id int64) error
}

// Prompter shows blocking messages to the operator.
type Prompter interface {
	Alert(message string)
	Confirm(message string) bool
}

// Form is the create/edit form. EditingID is zero in create mode.
type Form struct {
	Name      string
	Email     string
	EditingID int64
}

func (f Form) Editing() bool {
	return f.EditingID != 0
}

type Panel struct {
	api     API
	storage Storage
	ui      Prompter

	token   string
	view    AuthView
	theme   Theme
	loading bool

	users []user.User
	query string
	form  Form
}

// New returns a signed-out panel on the dark theme. Call Restore to pick
// up a saved session.
func New(api API, storage Storage, ui Prompter) *Panel {
	return &Panel{api: api, storage: storage, ui: ui, theme: ThemeDark}
}

// Restore loads the token and theme from storage. A stored token puts the
// panel straight into Authenticated; call Refresh to load the list.
func (p *Panel) Restore(ctx context.Context) error {
	tok, ok, err := p.storage.Get(ctx, keyToken)
	if err != nil {
		return fmt.Errorf("restore token: %w", err)
	}
	if ok {
		p.token = tok
	}

	th, ok, err := p.storage.Get(ctx, keyTheme)
	if err != nil {
		return fmt.Errorf("restore theme: %w", err)
	}
	if ok && Theme(th) == ThemeLight {
		p.theme = ThemeLight
	}

	return nil
}

func (p *Panel) Mode() Mode {
	if p.token == "" {
		return Unauthenticated
	}
	return Authenticated
}

func (p *Panel) View() AuthView { return p.view }
func (p *Panel) Loading() bool  { return p.loading }
func (p *Panel) Theme() Theme   { return p.theme }
func (p *Panel) Query() string  { return p.query }
func (p *Panel) Form() Form     { return p.form }

// ToggleView flips between the login and register forms.
func (p *Panel) ToggleView() {
	if p.view == ViewLogin {
		p.view = ViewRegister
	} else {
		p.view = ViewLogin
	}
}

// SubmitAuth logs in or registers depending on the current view. A
// successful login stores the token and loads the user list; a successful
// registration switches to the login view.
func (p *Panel) SubmitAuth(ctx context.Context, email, password string) error {
	if p.loading {
		return ErrBusy
	}

	p.loading = true
	defer func() { p.loading = false }()

	if p.view == ViewRegister {
		if _, err := p.api.Register(ctx, email, password); err != nil {
			p.alertAPIError(err, msgAuthFailed)
			return err
		}

		p.ui.Alert(msgRegistered)
		p.view = ViewLogin
		return nil
	}

	token, err := p.api.Login(ctx, email, password)
	if err != nil {
		p.alertAPIError(err, msgAuthFailed)
		return err
	}

	// hold the token only once it is saved
	if err := p.storage.Set(ctx, keyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	p.token = token

	return p.Refresh(ctx)
}

// Logout forgets the token locally. The server is not told. The in-memory
// session is always cleared; a failure to remove the saved token is
// returned.
func (p *Panel) Logout(ctx context.Context) error {
	p.token = ""
	p.users = nil
	p.form = Form{}

	if err := p.storage.Delete(ctx, keyToken); err != nil {
		return fmt.Errorf("forget token: %w", err)
	}
	return nil
}

// Refresh refetches the list. A rejected token logs out without an alert.
func (p *Panel) Refresh(ctx context.Context) error {
	if p.token == "" {
		return nil
	}

	users, err := p.api.ListUsers(ctx, p.token)
	if err != nil {
		if client.IsAuthError(err) {
			return errors.Join(err, p.Logout(ctx))
		}
		return err
	}

	p.users = users
	return nil
}

// Users is the fetched set, unfiltered.
func (p *Panel) Users() []user.User {
	return p.users
}

func (p *Panel) SetQuery(q string) {
	p.query = q
}

// Visible is the fetched set narrowed by the current query.
func (p *Panel) Visible() []user.User {
	return user.Filter(p.users, p.query)
}

func (p *Panel) SetName(name string)   { p.form.Name = name }
func (p *Panel) SetEmail(email string) { p.form.Email = email }

// SelectForEdit loads u into the form and switches it to edit mode.
func (p *Panel) SelectForEdit(u user.User) {
	p.form = Form{Name: u.Name, Email: u.Email, EditingID: u.ID}
}

// CancelEdit clears the form back to create mode.
func (p *Panel) CancelEdit() {
	p.form = Form{}
}

// SubmitUser creates or updates from the form, then refetches the list.
// On failure the form keeps its contents.
func (p *Panel) SubmitUser(ctx context.Context) error {
	if p.form.Name == "" || p.form.Email == "" {
		return ErrIncompleteForm
	}

	in := user.Input{Name: p.form.Name, Email: p.form.Email}

	var err error
	if p.form.Editing() {
		_, err = p.api.UpdateUser(ctx, p.token, p.form.EditingID, in)
	} else {
		_, err = p.api.CreateUser(ctx, p.token, in)
	}

	if err != nil {
		p.ui.Alert(msgSaveFailed)
		if client.IsAuthError(err) {
			return errors.Join(err, p.Logout(ctx))
		}
		return err
	}

	p.form = Form{}

	return p.Refresh(ctx)
}

// Delete asks for confirmation, deletes id and refetches. Declining is not
// an error.
func (p *Panel) Delete(ctx context.Context, id int64) error {
	if !p.ui.Confirm(msgConfirmDel) {
		return nil
	}

	if err := p.api.DeleteUser(ctx, p.token, id); err != nil {
		p.ui.Alert(msgDeleteFailed)
		if client.IsAuthError(err) {
			return errors.Join(err, p.Logout(ctx))
		}
		return err
	}

	if p.form.EditingID == id {
		p.form = Form{}
	}

	return p.Refresh(ctx)
}

// ToggleTheme flips dark/light and persists the choice. The theme only
// changes once it is saved.
func (p *Panel) ToggleTheme(ctx context.Context) error {
	next := ThemeLight
	if p.theme == ThemeLight {
		next = ThemeDark
	}

	if err := p.storage.Set(ctx, keyTheme, string(next)); err != nil {
		return fmt.Errorf("persist theme: %w", err)
	}
	p.theme = next

	return nil
}

// alertAPIError shows the server's message when there is one.
func (p *Panel) alertAPIError(err error, fallback string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		p.ui.Alert(apiErr.Message)
		return
	}
	p.ui.Alert(fallback)
}
