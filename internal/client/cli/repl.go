package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// commands is the surface the REPL dispatches to. App satisfies it.
type commands interface {
	isLoggedIn() bool
	status() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context, codes []string) error
	Remove(ctx context.Context, code string) error
	Search(ctx context.Context, name string) error
	Logout(ctx context.Context) error
}

// Run starts the read-eval-print loop on the App's input.
// It returns when the input ends, the user types exit, or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.in, a.out)
}

// Errors from commands are reported by the commands themselves.
func runREPL(ctx context.Context, c commands, in *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "explorer [%s]> ", c.status())
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			if c.isLoggedIn() {
				fmt.Fprintln(out, "Commands: list, add <code>..., remove <code>, search <name>, me, logout, exit")
			} else {
				fmt.Fprintln(out, "Commands: register, login, search <name>, exit")
			}
		case "register":
			_ = c.Register(ctx)
		case "login":
			_ = c.Login(ctx)
		case "search":
			_ = c.Search(ctx, strings.Join(args, " "))
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "me", "l", "list", "add", "rm", "remove", "logout":
			if !c.isLoggedIn() {
				fmt.Fprintln(out, "Please log in first.")
				continue
			}
			dispatchAuthed(ctx, c, cmd, args)
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

func dispatchAuthed(ctx context.Context, c commands, cmd string, args []string) {
	switch cmd {
	case "me":
		_ = c.Me(ctx)
	case "l", "list":
		_ = c.List(ctx)
	case "add":
		_ = c.Add(ctx, args)
	case "rm", "remove":
		code := ""
		if len(args) > 0 {
			code = args[0]
		}
		_ = c.Remove(ctx, code)
	case "logout":
		_ = c.Logout(ctx)
	}
}
