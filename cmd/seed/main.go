// Command seed manages the portal's credential store from the command line.
//
//	seed init                         write the default admin to an empty store
//	seed list                         print every account
//	seed add -username u -email e -name n [-role viewer] [-password p]
//	seed passwd -username u [-password p]
//
// Passwords not given as flags are read from the terminal without echo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"golang.org/x/term"

	"docportal/internal/config"
	"docportal/internal/logging"
	"docportal/internal/model"
	"docportal/internal/repository"
	"docportal/internal/service"
)

// readPassword is replaced in tests.
var readPassword = func() (string, error) {
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(pw), err
}

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, err := repository.Open(cfg)
	if err != nil {
		logger.Fatal("user repository init", zap.Error(err))
	}
	store, err := service.NewUserStore(repo, cfg.SeedUsers(), logger.Named("users"), nil)
	if err != nil {
		logger.Fatal("user store init", zap.Error(err))
	}

	if err := run(context.Background(), store, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, store service.UserStore, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: seed init|list|add|passwd [flags]")
	}

	switch args[0] {
	case "init":
		users, err := store.List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "store ready with %d account(s)\n", len(users))
		return nil
	case "list":
		return list(ctx, store, out)
	case "add":
		return add(ctx, store, args[1:], out)
	case "passwd":
		return passwd(ctx, store, args[1:], out)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func list(ctx context.Context, store service.UserStore, out io.Writer) error {
	users, err := store.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tROLE\tLAST LOGIN")
	for _, u := range users {
		last := "never"
		if u.LastLogin != nil {
			last = u.LastLogin.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, last)
	}
	return tw.Flush()
}

func add(ctx context.Context, store service.UserStore, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("username", "", "login name")
	email := fs.String("email", "", "email address")
	name := fs.String("name", "", "display name")
	role := fs.String("role", string(model.RoleViewer), "admin or viewer")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" || *name == "" {
		return errors.New("add: -username, -email and -name are required")
	}
	pw, err := passwordOrPrompt(*password, out)
	if err != nil {
		return err
	}

	user, err := store.Create(ctx, model.NewUser{
		Username: *username,
		Email:    *email,
		Password: pw,
		Name:     *name,
		Role:     model.Role(*role),
	})
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	fmt.Fprintf(out, "created %s (%s) with id %s\n", user.Username, user.Role, user.ID)
	return nil
}

func passwd(ctx context.Context, store service.UserStore, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	fs.SetOutput(out)
	username := fs.String("username", "", "username or email of the account")
	password := fs.String("password", "", "new password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		return errors.New("passwd: -username is required")
	}
	user, err := store.GetByUsernameOrEmail(ctx, *username)
	if err != nil {
		return fmt.Errorf("passwd: %w", err)
	}
	pw, err := passwordOrPrompt(*password, out)
	if err != nil {
		return err
	}

	if _, err := store.Update(ctx, user.ID, model.UserPatch{Password: model.Some(pw)}); err != nil {
		return fmt.Errorf("passwd: %w", err)
	}
	fmt.Fprintf(out, "password updated for %s\n", user.Username)
	return nil
}

func passwordOrPrompt(given string, out io.Writer) (string, error) {
	if given != "" {
		return given, nil
	}
	fmt.Fprint(out, "Password: ")
	pw, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("password must not be empty")
	}
	return pw, nil
}
