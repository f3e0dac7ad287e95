// Package adapters はfavoritesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"country_explorer/internal/feature/favorites/domain/entity"
	"country_explorer/internal/feature/favorites/usecase"
	"country_explorer/internal/platform/db"
)

// favoriteGorm はFavoriteRepositoryインターフェースのGORM実装です。
type favoriteGorm struct {
	db *gorm.DB
}

var _ usecase.FavoriteRepository = (*favoriteGorm)(nil)

// NewFavoriteGorm は指定されたDB接続でfavoriteGormの新しいインスタンスを生成します。
func NewFavoriteGorm(conn *gorm.DB) *favoriteGorm {
	return &favoriteGorm{db: conn}
}

// Create はお気に入りを追加します。
// 重複判定は idx_user_country の一意制約に任せ、違反時は usecase.ErrAlreadyFavorited を返します。
func (r *favoriteGorm) Create(ctx context.Context, f *entity.Favorite) error {
	if err := r.db.WithContext(ctx).Create(FavoriteModelFromEntity(f)).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return usecase.ErrAlreadyFavorited
		}
		return err
	}
	return nil
}

// DeleteOne は DELETE ... RETURNING で対象行を削除し、削除した行を返します。
func (r *favoriteGorm) DeleteOne(ctx context.Context, userID, code string) (*entity.Favorite, error) {
	var m FavoriteModel
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND country_code = ?", userID, code).
		Delete(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, usecase.ErrFavoriteNotFound
	}
	// RETURNING 非対応のドライバーではキーのみを返す
	if m.ID == "" {
		m.UserID, m.CountryCode = userID, code
	}
	f := m.ToEntity()
	return &f, nil
}

// ListByUser はユーザーのお気に入りを作成日時の降順で返します。
// 同一時刻の場合は UUIDv7 の ID 降順で並べます。
func (r *favoriteGorm) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	var models []FavoriteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Favorite, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToEntity())
	}
	return out, nil
}

// DeleteAllByUser はユーザーのお気に入りをすべて削除します。
func (r *favoriteGorm) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&FavoriteModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
