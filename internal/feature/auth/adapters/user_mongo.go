package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"country_explorer/internal/feature/auth/domain/entity"
	"country_explorer/internal/feature/auth/usecase"
)

// UsersCollection is the MongoDB collection holding users.
const UsersCollection = "users"

// userDocument は users コレクションのドキュメント表現です。
type userDocument struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
type userMongo struct {
	coll *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は users コレクションを使う userMongo を生成します。
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes は username と email の一意インデックスを作成します。
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

// Create はユーザーを追加します。重複時は usecase.ErrUserAlreadyExists を返します。
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	doc := userDocument{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *userMongo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *userMongo) findOne(ctx context.Context, filter bson.D) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}
