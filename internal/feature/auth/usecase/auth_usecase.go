// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"country_explorer/internal/feature/auth/domain/entity"
)

const (
	// MinPasswordLength はパスワードの最低文字数を定義します。
	MinPasswordLength = 8
	// MaxPasswordBytes は bcrypt が扱える入力の上限バイト数です。
	MaxPasswordBytes = 72

	// ユーザー名は前後の空白を除いた文字数で判定します。
	MinUsernameLength = 3
	MaxUsernameLength = 30
)

// dummyHash はユーザーが存在しない場合にも bcrypt 比較を行うためのハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// ユーザー名またはメールアドレスが重複する場合、ErrUserAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername は指定されたユーザー名に一致するユーザーを取得します。
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFound を返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// TokenGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	// GenerateToken は指定されたユーザーの署名済みJWTトークンを生成します。
	GenerateToken(userID string) (string, error)
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users  UserRepository
	tokens TokenGenerator
	cost   int
	now    func() time.Time
	newID  func() (uuid.UUID, error)
}

// Option は AuthUsecase の設定を変更します。
type Option func(*AuthUsecase)

// WithBcryptCost は bcrypt のコストを変更します。テストで使用します。
func WithBcryptCost(cost int) Option {
	return func(u *AuthUsecase) { u.cost = cost }
}

// WithClock は現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *AuthUsecase) { u.now = now }
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenGenerator, opts ...Option) *AuthUsecase {
	u := &AuthUsecase{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		newID:  uuid.NewV7,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// NormalizeEmail はメールアドレスの前後空白を除去し小文字化します。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register は新規ユーザーを登録し、トークンとユーザーを返します。
// ユーザー名に "@" は使えません。ログイン時の識別子がメールアドレスと判定されるためです。
func (u *AuthUsecase) Register(ctx context.Context, username, email, password string) (string, *entity.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return "", nil, err
	}
	if len(password) < MinPasswordLength {
		return "", nil, ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", nil, ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return "", nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := u.newID()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &entity.User{
		ID:           id.String(),
		Username:     username,
		Email:        NormalizeEmail(email),
		PasswordHash: string(hashed),
		CreatedAt:    u.now().UTC(),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := u.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Login はユーザーを認証し、成功時にJWTトークンを返します。
// identifier に "@" が含まれる場合はメールアドレス、それ以外はユーザー名として検索します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, identifier, password string) (string, *entity.User, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *entity.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = u.users.FindByEmail(ctx, NormalizeEmail(identifier))
	} else {
		user, err = u.users.FindByUsername(ctx, identifier)
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return "", nil, err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// Me はトークンから解決されたユーザーIDのプロフィールを返します。
func (u *AuthUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength || strings.Contains(username, "@") {
		return ErrInvalidUsername
	}
	return nil
}
