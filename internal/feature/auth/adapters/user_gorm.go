// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"country_explorer/internal/feature/auth/domain/entity"
	"country_explorer/internal/feature/auth/usecase"
	"country_explorer/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQL と SQLite の両方で動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// ユーザー名またはメールアドレスが重複する場合、usecase.ErrUserAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if err := r.db.WithContext(ctx).Create(UserModelFromEntity(u)).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername はユーザー名でユーザーを取得します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// findOne は条件に一致するユーザーを1件取得します。
// 存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	if arg == "" {
		return nil, usecase.ErrUserNotFound
	}
	var m UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}
