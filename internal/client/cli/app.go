package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"country_explorer/internal/client/apiclient"
	"country_explorer/internal/client/state"
	"country_explorer/internal/platform/externalapi/restcountries"
)

// lookupConcurrency bounds parallel REST Countries requests for one add.
const lookupConcurrency = 4

// CountryLookup resolves country codes and names.
type CountryLookup interface {
	Lookup(ctx context.Context, code string) (*restcountries.Country, error)
	Search(ctx context.Context, name string) ([]restcountries.Country, error)
}

// App wires the state object and the country lookup to terminal I/O.
type App struct {
	state     *state.App
	countries CountryLookup
	in        *bufio.Reader
	out       io.Writer
}

// NewApp returns an App reading from in and writing to out.
func NewApp(st *state.App, countries CountryLookup, in io.Reader, out io.Writer) *App {
	return &App{state: st, countries: countries, in: bufio.NewReader(in), out: out}
}

func (a *App) isLoggedIn() bool {
	return a.state.Snapshot().Auth.IsAuthenticated
}

func (a *App) status() string {
	s := a.state.Snapshot()
	if !s.Auth.IsAuthenticated || s.Auth.User == nil {
		return "guest"
	}
	return fmt.Sprintf("%s (%d favorites)", s.Auth.User.Username, len(s.Favorites.Favorites))
}

// Register prompts for account details and signs up.
func (a *App) Register(ctx context.Context) error {
	username, err := readLine(a.in, a.out, "Username")
	if err != nil {
		return err
	}
	email, err := readLine(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := readSecret(a.out)
	if err != nil {
		return err
	}
	if err := a.state.Register(ctx, username, email, password); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", username)
	return nil
}

// Login prompts for an email or username and a password.
func (a *App) Login(ctx context.Context) error {
	identifier, err := readLine(a.in, a.out, "Email or username")
	if err != nil {
		return err
	}
	password, err := readSecret(a.out)
	if err != nil {
		return err
	}
	if err := a.state.Login(ctx, identifier, password); err != nil {
		a.report(err)
		return err
	}
	s := a.state.Snapshot()
	fmt.Fprintf(a.out, "Logged in as %s. %d favorites.\n", s.Auth.User.Username, len(s.Favorites.Favorites))
	return nil
}

// Me prints the current profile.
func (a *App) Me(ctx context.Context) error {
	u := a.state.Snapshot().Auth.User
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s> since %s\n", u.Username, u.Email, u.CreatedAt.Format("2006-01-02"))
	return nil
}

// List refreshes and prints the favorites.
func (a *App) List(ctx context.Context) error {
	if err := a.state.LoadFavorites(ctx); err != nil {
		a.report(err)
		return err
	}
	printFavorites(a.out, a.state.Snapshot().Favorites.Favorites)
	return nil
}

// Add resolves every code through REST Countries and stores them in the given order.
func (a *App) Add(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		fmt.Fprintln(a.out, "Usage: add <country code>...")
		return nil
	}

	resolved := make([]*restcountries.Country, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, code := range codes {
		g.Go(func() error {
			c, err := a.countries.Lookup(gctx, code)
			if err != nil {
				return fmt.Errorf("%s: %w", code, err)
			}
			resolved[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.report(err)
		return err
	}

	var errs []error
	for _, c := range resolved {
		if err := a.state.AddFavorite(ctx, c.Code, c.Name, c.Flag); err != nil {
			a.report(fmt.Errorf("%s: %w", c.Code, err))
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(a.out, "Added %s %s\n", c.Flag, c.Name)
	}
	return errors.Join(errs...)
}

// Remove deletes one favorite by code.
func (a *App) Remove(ctx context.Context, code string) error {
	if code == "" {
		fmt.Fprintln(a.out, "Usage: remove <country code>")
		return nil
	}
	if err := a.state.RemoveFavorite(ctx, code); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Removed %s\n", code)
	return nil
}

// Search prints countries matching name and marks the favorites.
func (a *App) Search(ctx context.Context, name string) error {
	if name == "" {
		fmt.Fprintln(a.out, "Usage: search <name>")
		return nil
	}
	found, err := a.countries.Search(ctx, name)
	if err != nil {
		a.report(err)
		return err
	}
	printCountries(a.out, found, a.state.IsFavorite)
	return nil
}

// Logout clears the session.
func (a *App) Logout(ctx context.Context) error {
	a.state.Logout()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// report prints an error in terms of its kind.
func (a *App) report(err error) {
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		if errors.Is(err, restcountries.ErrCountryNotFound) {
			fmt.Fprintf(a.out, "Unknown country: %v\n", err)
			return
		}
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	switch apiErr.Kind {
	case apiclient.KindValidation:
		fmt.Fprintln(a.out, apiErr.Message)
		for _, f := range apiErr.Fields {
			fmt.Fprintf(a.out, "  %s %s\n", f.Field, f.Message)
		}
	case apiclient.KindConflict, apiclient.KindNotFound:
		fmt.Fprintln(a.out, apiErr.Message)
	case apiclient.KindUnauthorized:
		fmt.Fprintf(a.out, "%s. Please log in again.\n", strings.TrimSuffix(apiErr.Message, "."))
	case apiclient.KindRateLimited:
		fmt.Fprintln(a.out, "Too many attempts. Wait a minute and retry.")
	case apiclient.KindNetwork:
		fmt.Fprintln(a.out, "Cannot reach the server.")
	default:
		fmt.Fprintf(a.out, "Server error: %s\n", apiErr.Message)
	}
}
