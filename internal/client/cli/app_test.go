package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"country_explorer/internal/client/apiclient"
	"country_explorer/internal/client/state"
	"country_explorer/internal/platform/externalapi/restcountries"
)

// fakeAPI is an in-memory implementation of state.API.
type fakeAPI struct {
	mu        sync.Mutex
	token     string
	favorites []apiclient.Favorite
	addErr    *apiclient.Error
}

func (f *fakeAPI) Register(ctx context.Context, username, email, password string) apiclient.Result[apiclient.Session] {
	return apiclient.Result[apiclient.Session]{Value: apiclient.Session{Token: "tok", User: apiclient.User{ID: "u1", Username: username, Email: email}}}
}

func (f *fakeAPI) Login(ctx context.Context, identifier, password string) apiclient.Result[apiclient.Session] {
	if password != "secret123" {
		return apiclient.Result[apiclient.Session]{Err: &apiclient.Error{Kind: apiclient.KindUnauthorized, Status: 401, Message: "Invalid credentials"}}
	}
	return apiclient.Result[apiclient.Session]{Value: apiclient.Session{Token: "tok", User: apiclient.User{ID: "u1", Username: identifier}}}
}

func (f *fakeAPI) Me(ctx context.Context) apiclient.Result[apiclient.User] {
	return apiclient.Result[apiclient.User]{Value: apiclient.User{ID: "u1"}}
}

func (f *fakeAPI) ListFavorites(ctx context.Context) apiclient.Result[[]apiclient.Favorite] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return apiclient.Result[[]apiclient.Favorite]{Value: append([]apiclient.Favorite{}, f.favorites...)}
}

func (f *fakeAPI) AddFavorite(ctx context.Context, code, name, flag string) apiclient.Result[apiclient.Favorite] {
	if f.addErr != nil {
		return apiclient.Result[apiclient.Favorite]{Err: f.addErr}
	}
	fav := apiclient.Favorite{ID: code}
	fav.Country.Code, fav.Country.Name, fav.Country.Flag = code, name, flag
	f.mu.Lock()
	f.favorites = append([]apiclient.Favorite{fav}, f.favorites...)
	f.mu.Unlock()
	return apiclient.Result[apiclient.Favorite]{Value: fav}
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, code string) apiclient.Result[string] {
	return apiclient.Result[string]{Value: code}
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

// fakeCountries resolves a fixed set of codes.
type fakeCountries struct{}

var known = map[string]restcountries.Country{
	"FRA": {Code: "FRA", Name: "France", Flag: "🇫🇷", Region: "Europe"},
	"DEU": {Code: "DEU", Name: "Germany", Flag: "🇩🇪", Region: "Europe"},
	"JPN": {Code: "JPN", Name: "Japan", Flag: "🇯🇵", Region: "Asia"},
}

func (fakeCountries) Lookup(ctx context.Context, code string) (*restcountries.Country, error) {
	c, ok := known[strings.ToUpper(code)]
	if !ok {
		return nil, restcountries.ErrCountryNotFound
	}
	return &c, nil
}

func (fakeCountries) Search(ctx context.Context, name string) ([]restcountries.Country, error) {
	var out []restcountries.Country
	for _, c := range known {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("secret123"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	return NewApp(state.New(api), fakeCountries{}, strings.NewReader(input), &out), &out
}

func TestApp_LoginAndAdd(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "alice\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "tok", api.token)

	require.NoError(t, app.Add(ctx, []string{"fra", "deu", "jpn"}))

	favs := app.state.Snapshot().Favorites.Favorites
	codes := make([]string, 0, len(favs))
	for _, f := range favs {
		codes = append(codes, f.Country.Code)
	}
	assert.Equal(t, []string{"JPN", "DEU", "FRA"}, codes, "added in argument order, newest first")
	assert.Contains(t, out.String(), "Added 🇫🇷 France")
}

func TestApp_AddUnknownCountryStoresNothing(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "bob\nbob@example.com\n")
	ctx := context.Background()
	require.NoError(t, app.Register(ctx))

	err := app.Add(ctx, []string{"FRA", "XXX"})

	require.ErrorIs(t, err, restcountries.ErrCountryNotFound)
	assert.Empty(t, api.favorites)
	assert.Contains(t, out.String(), "Unknown country")
}

func TestApp_ReportConflict(t *testing.T) {
	api := &fakeAPI{addErr: &apiclient.Error{Kind: apiclient.KindConflict, Status: 400, Message: "Country already in favorites"}}
	app, out := newTestApp(t, api, "")
	ctx := context.Background()
	require.NoError(t, app.state.Login(ctx, "alice", "secret123"))

	require.Error(t, app.Add(ctx, []string{"FRA"}))

	assert.Contains(t, out.String(), "Country already in favorites")
}

func TestApp_LoginFailure(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("wrong"), nil }
	t.Cleanup(func() { readPassword = orig })

	var out bytes.Buffer
	app := NewApp(state.New(&fakeAPI{}), fakeCountries{}, strings.NewReader("alice\n"), &out)

	require.Error(t, app.Login(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "Invalid credentials. Please log in again.")
}

func TestApp_SearchMarksFavorites(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "")
	ctx := context.Background()
	require.NoError(t, app.state.Login(ctx, "alice", "secret123"))
	require.NoError(t, app.Add(ctx, []string{"JPN"}))
	out.Reset()

	require.NoError(t, app.Search(ctx, "japan"))

	assert.True(t, strings.HasPrefix(out.String(), "* "), out.String())
}
