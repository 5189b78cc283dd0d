package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filmstore/rental-system/internal/core/domain"
)

const (
	usersCollection  = "users"
	adminsCollection = "admins"
)

// IdentityRepository serves the /users and /admins collections. Records keep
// a numeric id field so existing clients can keep addressing them by number;
// new users get the next free id.
type IdentityRepository struct {
	users  *mongo.Collection
	admins *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{
		users:  db.Collection(usersCollection),
		admins: db.Collection(adminsCollection),
	}
}

func (r *IdentityRepository) List(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *IdentityRepository) Get(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) ([]domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find users by email: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *IdentityRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	next, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	created := *user
	created.ID = next
	if created.Library == nil {
		created.Library = []domain.Film{}
	}
	if _, err := r.users.InsertOne(ctx, created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

// Replace swaps the whole record for the supplied one, keyed by id. This is
// the PATCH-as-full-replace the mutation protocol relies on.
func (r *IdentityRepository) Replace(ctx context.Context, user *domain.User) error {
	res, err := r.users.ReplaceOne(ctx, bson.M{"id": user.ID}, user)
	if err != nil {
		return fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *IdentityRepository) Delete(ctx context.Context, id int) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *IdentityRepository) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	cursor, err := r.admins.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer cursor.Close(ctx)

	var admins []domain.Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, fmt.Errorf("decode admins: %w", err)
	}
	return admins, nil
}

// nextID returns one past the highest user id in the collection.
func (r *IdentityRepository) nextID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	var top struct {
		ID int `bson:"id"`
	}
	err := r.users.FindOne(ctx, bson.M{}, opts).Decode(&top)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return top.ID + 1, nil
}
