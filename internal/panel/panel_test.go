package panel

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/geocoder89/adminpanel/internal/client"
	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	registerFn func(ctx context.Context, email, password string) (int64, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
	listFn     func(ctx context.Context, token string) ([]user.User, error)
	createFn   func(ctx context.Context, token string, in user.Input) (user.User, error)
	updateFn   func(ctx context.Context, token string, id int64, in user.Input) (user.User, error)
	deleteFn   func(ctx context.Context, token string, id int64) error

	calls []string
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (int64, error) {
	f.calls = append(f.calls, "register")
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password)
	}
	return 1, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (string, error) {
	f.calls = append(f.calls, "login")
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return "tok", nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, token string) ([]user.User, error) {
	f.calls = append(f.calls, "list")
	if f.listFn != nil {
		return f.listFn(ctx, token)
	}
	return []user.User{}, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, token string, in user.Input) (user.User, error) {
	f.calls = append(f.calls, "create")
	if f.createFn != nil {
		return f.createFn(ctx, token, in)
	}
	return user.User{ID: 1, Name: in.Name, Email: in.Email}, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, token string, id int64, in user.Input) (user.User, error) {
	f.calls = append(f.calls, "update")
	if f.updateFn != nil {
		return f.updateFn(ctx, token, id, in)
	}
	return user.User{ID: id, Name: in.Name, Email: in.Email}, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, token string, id int64) error {
	f.calls = append(f.calls, "delete")
	if f.deleteFn != nil {
		return f.deleteFn(ctx, token, id)
	}
	return nil
}

type fakePrompter struct {
	alerts  []string
	confirm bool
}

func (f *fakePrompter) Alert(message string)        { f.alerts = append(f.alerts, message) }
func (f *fakePrompter) Confirm(message string) bool { return f.confirm }

var errForbidden = &client.APIError{Status: http.StatusForbidden, Code: "forbidden", Message: "Invalid token"}

// failingStorage wraps a MemoryStorage and fails the operations whose
// error field is set.
type failingStorage struct {
	*MemoryStorage

	getErr    error
	setErr    error
	deleteErr error
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.MemoryStorage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStorage.Set(ctx, key, value)
}

func (f *failingStorage) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStorage.Delete(ctx, key)
}

var errDiskFull = errors.New("disk full")

func loggedInPanel(t *testing.T, api *fakeAPI, ui *fakePrompter) (*Panel, *MemoryStorage) {
	t.Helper()

	ctx := context.Background()
	st := NewMemoryStorage()
	require.NoError(t, st.Set(ctx, keyToken, "tok"))

	p := New(api, st, ui)
	require.NoError(t, p.Restore(ctx))

	return p, st
}

func TestRestore_TokenAndTheme(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()
	p := New(&fakeAPI{}, st, &fakePrompter{})
	require.NoError(t, p.Restore(ctx))

	assert.Equal(t, Unauthenticated, p.Mode())
	assert.Equal(t, ThemeDark, p.Theme())
	assert.Equal(t, ViewLogin, p.View())

	require.NoError(t, st.Set(ctx, keyToken, "saved"))
	require.NoError(t, st.Set(ctx, keyTheme, "light"))

	p = New(&fakeAPI{}, st, &fakePrompter{})
	assert.Equal(t, Unauthenticated, p.Mode())

	require.NoError(t, p.Restore(ctx))
	assert.Equal(t, Authenticated, p.Mode())
	assert.Equal(t, ThemeLight, p.Theme())
}

func TestRestore_StorageError(t *testing.T) {
	st := &failingStorage{MemoryStorage: NewMemoryStorage(), getErr: errDiskFull}
	p := New(&fakeAPI{}, st, &fakePrompter{})

	require.ErrorIs(t, p.Restore(context.Background()), errDiskFull)
	assert.Equal(t, Unauthenticated, p.Mode())
}

func TestSubmitAuth_LoginSuccess(t *testing.T) {
	api := &fakeAPI{
		listFn: func(ctx context.Context, token string) ([]user.User, error) {
			assert.Equal(t, "tok", token)
			return []user.User{{ID: 1, Name: "Ann", Email: "a@x.com"}}, nil
		},
	}
	st := NewMemoryStorage()
	p := New(api, st, &fakePrompter{})

	require.NoError(t, p.SubmitAuth(context.Background(), "a@b.com", "pw123456"))

	assert.Equal(t, Authenticated, p.Mode())
	assert.False(t, p.Loading())
	assert.Len(t, p.Users(), 1)

	saved, ok, err := st.Get(context.Background(), keyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", saved)
}

func TestSubmitAuth_UnsavedTokenStaysSignedOut(t *testing.T) {
	api := &fakeAPI{}
	st := &failingStorage{MemoryStorage: NewMemoryStorage(), setErr: errDiskFull}
	p := New(api, st, &fakePrompter{})

	err := p.SubmitAuth(context.Background(), "a@b.com", "pw123456")
	require.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, Unauthenticated, p.Mode())
	assert.False(t, p.Loading())
	assert.Equal(t, []string{"login"}, api.calls)
}

func TestSubmitAuth_LoginFailureAlertsServerMessage(t *testing.T) {
	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "", &client.APIError{Status: http.StatusBadRequest, Code: "invalid_password", Message: "Invalid password"}
		},
	}
	ui := &fakePrompter{}
	p := New(api, NewMemoryStorage(), ui)

	require.Error(t, p.SubmitAuth(context.Background(), "a@b.com", "bad"))
	assert.Equal(t, Unauthenticated, p.Mode())
	assert.Equal(t, []string{"Invalid password"}, ui.alerts)

	api.loginFn = func(ctx context.Context, email, password string) (string, error) {
		return "", errors.New("connection refused")
	}
	require.Error(t, p.SubmitAuth(context.Background(), "a@b.com", "bad"))
	assert.Equal(t, msgAuthFailed, ui.alerts[1])
}

func TestSubmitAuth_RegisterSwitchesToLogin(t *testing.T) {
	ui := &fakePrompter{}
	p := New(&fakeAPI{}, NewMemoryStorage(), ui)

	p.ToggleView()
	require.Equal(t, ViewRegister, p.View())

	require.NoError(t, p.SubmitAuth(context.Background(), "a@b.com", "pw123456"))

	assert.Equal(t, ViewLogin, p.View())
	assert.Equal(t, Unauthenticated, p.Mode())
	assert.Equal(t, []string{msgRegistered}, ui.alerts)
}

func TestSubmitAuth_RejectsWhileLoading(t *testing.T) {
	var p *Panel
	var nested error

	api := &fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			assert.True(t, p.Loading())
			nested = p.SubmitAuth(ctx, email, password)
			return "tok", nil
		},
	}
	p = New(api, NewMemoryStorage(), &fakePrompter{})

	require.NoError(t, p.SubmitAuth(context.Background(), "a@b.com", "pw123456"))
	assert.ErrorIs(t, nested, ErrBusy)
	assert.False(t, p.Loading())
}

func TestRefresh_AuthErrorLogsOutSilently(t *testing.T) {
	api := &fakeAPI{
		listFn: func(ctx context.Context, token string) ([]user.User, error) {
			return nil, errForbidden
		},
	}
	ui := &fakePrompter{}
	p, st := loggedInPanel(t, api, ui)

	err := p.Refresh(context.Background())
	require.Error(t, err)

	assert.Equal(t, Unauthenticated, p.Mode())
	assert.Empty(t, ui.alerts)
	_, ok, _ := st.Get(context.Background(), keyToken)
	assert.False(t, ok)
}

func TestRefresh_OtherErrorKeepsSession(t *testing.T) {
	api := &fakeAPI{
		listFn: func(ctx context.Context, token string) ([]user.User, error) {
			return nil, &client.APIError{Status: http.StatusInternalServerError}
		},
	}
	p, _ := loggedInPanel(t, api, &fakePrompter{})

	require.Error(t, p.Refresh(context.Background()))
	assert.Equal(t, Authenticated, p.Mode())
}

func TestSubmitUser_CreateThenRefetch(t *testing.T) {
	api := &fakeAPI{}
	p, _ := loggedInPanel(t, api, &fakePrompter{})

	p.SetName("Test")
	p.SetEmail("t@x.com")
	require.NoError(t, p.SubmitUser(context.Background()))

	assert.Equal(t, []string{"create", "list"}, api.calls)
	assert.Equal(t, Form{}, p.Form())
}

func TestSubmitUser_EditMode(t *testing.T) {
	var gotID int64
	api := &fakeAPI{
		updateFn: func(ctx context.Context, token string, id int64, in user.Input) (user.User, error) {
			gotID = id
			return user.User{ID: id, Name: in.Name, Email: in.Email}, nil
		},
	}
	p, _ := loggedInPanel(t, api, &fakePrompter{})

	p.SelectForEdit(user.User{ID: 9, Name: "Test", Email: "t@x.com"})
	require.True(t, p.Form().Editing())

	p.SetName("Test Edited")
	require.NoError(t, p.SubmitUser(context.Background()))

	assert.Equal(t, int64(9), gotID)
	assert.Equal(t, []string{"update", "list"}, api.calls)
	assert.False(t, p.Form().Editing())
}

func TestSubmitUser_EmptyFieldsNeverReachAPI(t *testing.T) {
	api := &fakeAPI{}
	p, _ := loggedInPanel(t, api, &fakePrompter{})

	p.SetName("Only name")
	assert.ErrorIs(t, p.SubmitUser(context.Background()), ErrIncompleteForm)
	assert.Empty(t, api.calls)
}

func TestSubmitUser_FailureKeepsForm(t *testing.T) {
	api := &fakeAPI{
		createFn: func(ctx context.Context, token string, in user.Input) (user.User, error) {
			return user.User{}, &client.APIError{Status: http.StatusInternalServerError}
		},
	}
	ui := &fakePrompter{}
	p, _ := loggedInPanel(t, api, ui)

	p.SetName("Test")
	p.SetEmail("t@x.com")
	require.Error(t, p.SubmitUser(context.Background()))

	assert.Equal(t, Form{Name: "Test", Email: "t@x.com"}, p.Form())
	assert.Equal(t, []string{msgSaveFailed}, ui.alerts)
	assert.Equal(t, Authenticated, p.Mode())
}

func TestSubmitUser_AuthFailureAlertsAndLogsOut(t *testing.T) {
	api := &fakeAPI{
		createFn: func(ctx context.Context, token string, in user.Input) (user.User, error) {
			return user.User{}, errForbidden
		},
	}
	ui := &fakePrompter{}
	p, _ := loggedInPanel(t, api, ui)

	p.SetName("Test")
	p.SetEmail("t@x.com")
	require.Error(t, p.SubmitUser(context.Background()))

	assert.Len(t, ui.alerts, 1)
	assert.Equal(t, Unauthenticated, p.Mode())
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	api := &fakeAPI{}
	ui := &fakePrompter{confirm: false}
	p, _ := loggedInPanel(t, api, ui)

	require.NoError(t, p.Delete(context.Background(), 3))
	assert.Empty(t, api.calls)

	ui.confirm = true
	require.NoError(t, p.Delete(context.Background(), 3))
	assert.Equal(t, []string{"delete", "list"}, api.calls)
}

func TestVisible_FiltersWithoutTouchingFetchedSet(t *testing.T) {
	api := &fakeAPI{
		listFn: func(ctx context.Context, token string) ([]user.User, error) {
			return []user.User{
				{ID: 1, Name: "Bob", Email: "bob@x.com"},
				{ID: 2, Name: "Ann", Email: "ann@x.com"},
			}, nil
		},
	}
	p, _ := loggedInPanel(t, api, &fakePrompter{})
	require.NoError(t, p.Refresh(context.Background()))

	p.SetQuery("AN")
	visible := p.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Ann", visible[0].Name)
	assert.Len(t, p.Users(), 2)

	p.SetQuery("")
	assert.Len(t, p.Visible(), 2)
}

func TestLogout_ClearsState(t *testing.T) {
	p, st := loggedInPanel(t, &fakeAPI{}, &fakePrompter{})
	p.SelectForEdit(user.User{ID: 1, Name: "a", Email: "b"})

	require.NoError(t, p.Logout(context.Background()))

	assert.Equal(t, Unauthenticated, p.Mode())
	assert.Nil(t, p.Users())
	assert.Equal(t, Form{}, p.Form())
	_, ok, _ := st.Get(context.Background(), keyToken)
	assert.False(t, ok)
}

func TestLogout_ReportsStorageError(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{MemoryStorage: NewMemoryStorage()}
	require.NoError(t, st.Set(ctx, keyToken, "tok"))

	p := New(&fakeAPI{}, st, &fakePrompter{})
	require.NoError(t, p.Restore(ctx))

	st.deleteErr = errDiskFull
	require.ErrorIs(t, p.Logout(ctx), errDiskFull)
	assert.Equal(t, Unauthenticated, p.Mode())
}

func TestRefresh_AuthErrorJoinsLogoutFailure(t *testing.T) {
	ctx := context.Background()
	st := &failingStorage{MemoryStorage: NewMemoryStorage()}
	require.NoError(t, st.Set(ctx, keyToken, "tok"))

	api := &fakeAPI{
		listFn: func(ctx context.Context, token string) ([]user.User, error) {
			return nil, errForbidden
		},
	}
	p := New(api, st, &fakePrompter{})
	require.NoError(t, p.Restore(ctx))

	st.deleteErr = errDiskFull
	err := p.Refresh(ctx)

	assert.True(t, client.IsAuthError(err))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, Unauthenticated, p.Mode())
}

func TestToggleTheme_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "adminctl.db")

	st, err := OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)

	p := New(&fakeAPI{}, st, &fakePrompter{})
	require.NoError(t, p.ToggleTheme(ctx))
	assert.Equal(t, ThemeLight, p.Theme())
	require.NoError(t, st.Close())

	reopened, err := OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	restored := New(&fakeAPI{}, reopened, &fakePrompter{})
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, ThemeLight, restored.Theme())
}

func TestToggleTheme_UnsavedThemeIsNotApplied(t *testing.T) {
	st := &failingStorage{MemoryStorage: NewMemoryStorage(), setErr: errDiskFull}
	p := New(&fakeAPI{}, st, &fakePrompter{})

	require.ErrorIs(t, p.ToggleTheme(context.Background()), errDiskFull)
	assert.Equal(t, ThemeDark, p.Theme())
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "adminctl.db")

	st, err := OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)

	_, ok, err := st.Get(ctx, keyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, keyToken, "abc"))
	require.NoError(t, st.Set(ctx, keyToken, "def"))
	require.NoError(t, st.Delete(ctx, "absent"))
	require.NoError(t, st.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, keyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)

	require.NoError(t, reopened.Delete(ctx, keyToken))
	require.NoError(t, reopened.Close())

	again, err := OpenSQLiteStorage(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })

	_, ok, err = again.Get(ctx, keyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}
