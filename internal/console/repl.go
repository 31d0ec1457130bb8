package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commands is the surface the loop dispatches to. *App satisfies it.
type commands interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	ToggleView(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
	Theme(ctx context.Context) error
}

// runREPL reads one command per line until EOF or exit. Command errors are
// reported by the commands themselves, so the loop ignores them.
func runREPL(ctx context.Context, a commands, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "adminctl %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd, rest := parts[0], strings.Join(parts[1:], " ")

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(w, "Bye!")
			return
		}

		if cmd == "help" {
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Commands: list, search <text>, add, edit <id>, delete <id>, theme, logout, exit")
			} else {
				fmt.Fprintln(w, "Commands: login, register, toggle, theme, exit")
			}
			continue
		}

		if cmd == "theme" {
			_ = a.Theme(ctx)
			continue
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "login":
				_ = a.Login(ctx)
			case "register":
				_ = a.Register(ctx)
			case "toggle":
				_ = a.ToggleView(ctx)
			default:
				fmt.Fprintln(w, "Unknown command:", cmd, "(try help)")
			}
			continue
		}

		switch cmd {
		case "l", "list":
			_ = a.List(ctx)
		case "search", "filter":
			_ = a.Search(ctx, rest)
		case "add":
			_ = a.Add(ctx)
		case "edit":
			_ = a.Edit(ctx, rest)
		case "delete", "rm":
			_ = a.Delete(ctx, rest)
		case "logout":
			_ = a.Logout(ctx)
		default:
			fmt.Fprintln(w, "Unknown command:", cmd, "(try help)")
		}
	}
}
