package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"country_explorer/internal/feature/favorites/domain/entity"
	"country_explorer/internal/feature/favorites/usecase"
)

// FavoritesCollection is the MongoDB collection holding favorites.
const FavoritesCollection = "favorites"

type countryDocument struct {
	Code string `bson:"code"`
	Name string `bson:"name"`
	Flag string `bson:"flag"`
}

// favoriteDocument は favorites コレクションのドキュメント表現です。
type favoriteDocument struct {
	ID        string          `bson:"_id"`
	User      string          `bson:"user"`
	Country   countryDocument `bson:"country"`
	CreatedAt time.Time       `bson:"created_at"`
}

func (d *favoriteDocument) toEntity() entity.Favorite {
	return entity.Favorite{
		ID:     d.ID,
		UserID: d.User,
		Country: entity.Country{
			Code: d.Country.Code,
			Name: d.Country.Name,
			Flag: d.Country.Flag,
		},
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// favoriteMongo はFavoriteRepositoryインターフェースのMongoDB実装です。
type favoriteMongo struct {
	coll *mongo.Collection
}

var _ usecase.FavoriteRepository = (*favoriteMongo)(nil)

// NewFavoriteMongo は favorites コレクションを使う favoriteMongo を生成します。
func NewFavoriteMongo(db *mongo.Database) *favoriteMongo {
	return &favoriteMongo{coll: db.Collection(FavoritesCollection)}
}

// EnsureIndexes は {user, country.code} の複合一意インデックスと一覧用インデックスを作成します。
func (r *favoriteMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "country.code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("user_country_code"),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_at"),
		},
	})
	if err != nil {
		return fmt.Errorf("create favorite indexes: %w", err)
	}
	return nil
}

// Create はお気に入りを追加します。重複は一意インデックスで検出します。
func (r *favoriteMongo) Create(ctx context.Context, f *entity.Favorite) error {
	doc := favoriteDocument{
		ID:   f.ID,
		User: f.UserID,
		Country: countryDocument{
			Code: f.Country.Code,
			Name: f.Country.Name,
			Flag: f.Country.Flag,
		},
		CreatedAt: f.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrAlreadyFavorited
		}
		return err
	}
	return nil
}

// DeleteOne は FindOneAndDelete で対象を削除し、削除したドキュメントを返します。
func (r *favoriteMongo) DeleteOne(ctx context.Context, userID, code string) (*entity.Favorite, error) {
	var doc favoriteDocument
	err := r.coll.FindOneAndDelete(ctx, bson.D{
		{Key: "user", Value: userID},
		{Key: "country.code", Value: code},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrFavoriteNotFound
		}
		return nil, err
	}
	f := doc.toEntity()
	return &f, nil
}

// ListByUser は作成日時の降順、同時刻は _id の降順で返します。
func (r *favoriteMongo) ListByUser(ctx context.Context, userID string) ([]entity.Favorite, error) {
	cur, err := r.coll.Find(ctx,
		bson.D{{Key: "user", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var docs []favoriteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.Favorite, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

// DeleteAllByUser はユーザーのお気に入りをすべて削除します。
func (r *favoriteMongo) DeleteAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{{Key: "user", Value: userID}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
