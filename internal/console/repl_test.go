package console

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
)

type fakeCommands struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeCommands) isLoggedIn() bool { return f.loggedIn }

func (f *fakeCommands) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}

func (f *fakeCommands) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}

func (f *fakeCommands) ToggleView(ctx context.Context) error {
	f.calls = append(f.calls, "toggle")
	return nil
}

func (f *fakeCommands) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func (f *fakeCommands) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}

func (f *fakeCommands) Search(ctx context.Context, query string) error {
	f.calls = append(f.calls, "search")
	f.args = append(f.args, query)
	return nil
}

func (f *fakeCommands) Add(ctx context.Context) error {
	f.calls = append(f.calls, "add")
	return nil
}

func (f *fakeCommands) Edit(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "edit")
	f.args = append(f.args, arg)
	return nil
}

func (f *fakeCommands) Delete(ctx context.Context, arg string) error {
	f.calls = append(f.calls, "delete")
	f.args = append(f.args, arg)
	return nil
}

func (f *fakeCommands) Theme(ctx context.Context) error {
	f.calls = append(f.calls, "theme")
	return nil
}

func TestRunREPL_GatesCommandsOnLogin(t *testing.T) {
	input := strings.Join([]string{
		"help",
		"list",
		"toggle",
		"register",
		"login",
		"help",
		"list",
		"search Ann Smith",
		"add",
		"edit 4",
		"delete 4",
		"theme",
		"bogus",
		"logout",
		"add",
		"exit",
		"login",
	}, "\n")

	cmds := &fakeCommands{}
	var out bytes.Buffer

	runREPL(context.Background(), cmds, func() string { return "st" }, bufio.NewReader(strings.NewReader(input)), &out)

	want := []string{"toggle", "register", "login", "list", "search", "add", "edit", "delete", "theme", "logout"}
	if strings.Join(cmds.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", cmds.calls, want)
	}

	if strings.Join(cmds.args, "|") != "Ann Smith|4|4" {
		t.Fatalf("args = %v", cmds.args)
	}

	o := out.String()
	for _, s := range []string{"Commands: login", "Commands: list", "Unknown command: bogus", "Bye!"} {
		if !strings.Contains(o, s) {
			t.Fatalf("output missing %q:\n%s", s, o)
		}
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	cmds := &fakeCommands{}
	var out bytes.Buffer

	runREPL(context.Background(), cmds, func() string { return "" }, bufio.NewReader(strings.NewReader("toggle")), &out)

	if len(cmds.calls) != 1 || cmds.calls[0] != "toggle" {
		t.Fatalf("calls = %v", cmds.calls)
	}
}
