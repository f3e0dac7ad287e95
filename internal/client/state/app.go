// Package state は認証スライスとお気に入りスライスを持つアプリケーション状態です。
// 各非同期操作はスライスを Idle → Pending → Fulfilled|Rejected の順に遷移させます。
package state

import (
	"context"
	"sync"

	"country_explorer/internal/client/apiclient"
)

// Status is the state of the last async operation on a slice.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// AuthSlice holds the current identity.
type AuthSlice struct {
	Status          Status
	IsAuthenticated bool
	User            *apiclient.User
	Err             *apiclient.Error
}

// FavoritesSlice holds the caller's favorites newest first.
type FavoritesSlice struct {
	Status    Status
	Favorites []apiclient.Favorite
	Err       *apiclient.Error
}

// Snapshot is a copy of both slices.
type Snapshot struct {
	Auth      AuthSlice
	Favorites FavoritesSlice
}

// Loading reports whether any operation is in flight.
func (s Snapshot) Loading() bool {
	return s.Auth.Status == StatusPending || s.Favorites.Status == StatusPending
}

// API is the subset of apiclient.Client the state depends on.
type API interface {
	Register(ctx context.Context, username, email, password string) apiclient.Result[apiclient.Session]
	Login(ctx context.Context, identifier, password string) apiclient.Result[apiclient.Session]
	Me(ctx context.Context) apiclient.Result[apiclient.User]
	ListFavorites(ctx context.Context) apiclient.Result[[]apiclient.Favorite]
	AddFavorite(ctx context.Context, code, name, flag string) apiclient.Result[apiclient.Favorite]
	RemoveFavorite(ctx context.Context, code string) apiclient.Result[string]
	SetToken(token string)
}

// App is the explicit application state object. It is safe for concurrent use.
type App struct {
	api API

	mu        sync.Mutex
	auth      AuthSlice
	favorites FavoritesSlice
	listeners map[int]func(Snapshot)
	nextID    int
}

// New returns an App with both slices idle.
func New(api API) *App {
	return &App{
		api:       api,
		favorites: FavoritesSlice{Favorites: []apiclient.Favorite{}},
		listeners: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

func (a *App) snapshotLocked() Snapshot {
	s := Snapshot{Auth: a.auth, Favorites: a.favorites}
	if a.auth.User != nil {
		u := *a.auth.User
		s.Auth.User = &u
	}
	s.Favorites.Favorites = append([]apiclient.Favorite(nil), a.favorites.Favorites...)
	return s
}

// Subscribe registers fn to receive a snapshot after every transition.
// The returned function removes the listener.
func (a *App) Subscribe(fn func(Snapshot)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// update applies fn under the lock and then notifies listeners outside it.
func (a *App) update(fn func()) {
	a.mu.Lock()
	fn()
	snap := a.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// Register creates an account, authenticates and refreshes favorites.
func (a *App) Register(ctx context.Context, username, email, password string) error {
	a.authPending()
	return a.authenticated(ctx, a.api.Register(ctx, username, email, password))
}

// Login authenticates by email or username and refreshes favorites.
func (a *App) Login(ctx context.Context, identifier, password string) error {
	a.authPending()
	return a.authenticated(ctx, a.api.Login(ctx, identifier, password))
}

// Restore resumes a session from a stored token.
func (a *App) Restore(ctx context.Context, token string) error {
	a.api.SetToken(token)
	a.authPending()
	res := a.api.Me(ctx)
	if !res.OK() {
		a.authRejected(res.Err)
		return res.Err
	}
	return a.authenticated(ctx, apiclient.Result[apiclient.Session]{Value: apiclient.Session{Token: token, User: res.Value}})
}

// Logout drops the token and resets both slices.
func (a *App) Logout() {
	a.api.SetToken("")
	a.update(func() {
		a.auth = AuthSlice{}
		a.favorites = FavoritesSlice{Favorites: []apiclient.Favorite{}}
	})
}

func (a *App) authPending() {
	a.update(func() {
		a.auth.Status = StatusPending
		a.auth.Err = nil
	})
}

func (a *App) authRejected(e *apiclient.Error) {
	a.api.SetToken("")
	a.update(func() {
		a.auth = AuthSlice{Status: StatusRejected, Err: e}
		a.favorites = FavoritesSlice{Favorites: []apiclient.Favorite{}}
	})
}

func (a *App) authenticated(ctx context.Context, res apiclient.Result[apiclient.Session]) error {
	if !res.OK() {
		a.authRejected(res.Err)
		return res.Err
	}
	user := res.Value.User
	a.update(func() {
		a.auth = AuthSlice{Status: StatusFulfilled, IsAuthenticated: true, User: &user}
	})
	return a.LoadFavorites(ctx)
}

// LoadFavorites replaces the favorites slice with the server list.
func (a *App) LoadFavorites(ctx context.Context) error {
	a.favoritesPending()
	res := a.api.ListFavorites(ctx)
	if !res.OK() {
		a.favoritesRejected(res.Err)
		return res.Err
	}
	a.update(func() {
		a.favorites = FavoritesSlice{Status: StatusFulfilled, Favorites: res.Value}
	})
	return nil
}

// AddFavorite stores a country and prepends the created record.
func (a *App) AddFavorite(ctx context.Context, code, name, flag string) error {
	a.favoritesPending()
	res := a.api.AddFavorite(ctx, code, name, flag)
	if !res.OK() {
		a.favoritesRejected(res.Err)
		return res.Err
	}
	a.update(func() {
		list := make([]apiclient.Favorite, 0, len(a.favorites.Favorites)+1)
		list = append(list, res.Value)
		list = append(list, a.favorites.Favorites...)
		a.favorites = FavoritesSlice{Status: StatusFulfilled, Favorites: list}
	})
	return nil
}

// RemoveFavorite deletes a favorite and filters it out by the returned code.
func (a *App) RemoveFavorite(ctx context.Context, code string) error {
	a.favoritesPending()
	res := a.api.RemoveFavorite(ctx, code)
	if !res.OK() {
		a.favoritesRejected(res.Err)
		return res.Err
	}
	a.update(func() {
		list := make([]apiclient.Favorite, 0, len(a.favorites.Favorites))
		for _, f := range a.favorites.Favorites {
			if f.Country.Code != res.Value {
				list = append(list, f)
			}
		}
		a.favorites = FavoritesSlice{Status: StatusFulfilled, Favorites: list}
	})
	return nil
}

// IsFavorite reports whether code is in the favorites slice.
func (a *App) IsFavorite(code string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range a.favorites.Favorites {
		if f.Country.Code == code {
			return true
		}
	}
	return false
}

func (a *App) favoritesPending() {
	a.update(func() {
		a.favorites.Status = StatusPending
		a.favorites.Err = nil
	})
}

// favoritesRejected keeps the current list. An unauthorized result also logs out.
func (a *App) favoritesRejected(e *apiclient.Error) {
	if e.Kind == apiclient.KindUnauthorized {
		a.api.SetToken("")
		a.update(func() {
			a.auth = AuthSlice{}
			a.favorites = FavoritesSlice{Status: StatusRejected, Favorites: []apiclient.Favorite{}, Err: e}
		})
		return
	}
	a.update(func() {
		a.favorites.Status = StatusRejected
		a.favorites.Err = e
	})
}
