package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicstats/identity-api/internal/core/domain"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
)

// UserRepository persists user accounts. Internal ids are monotonically
// allocated from the counters collection so the public identity stays a
// small integer rather than an ObjectID.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID           int64  `bson:"_id"`
	WxOpenID     string `bson:"wx_open_id"`
	Mob          string `bson:"mob,omitempty"`
	Name         string `bson:"name,omitempty"`
	IDCardNumber string `bson:"id_card_number,omitempty"`
	Birthday     string `bson:"birthday,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID,
		WxOpenID:     mu.WxOpenID,
		Mob:          mu.Mob,
		Name:         mu.Name,
		IDCardNumber: mu.IDCardNumber,
		Birthday:     mu.Birthday,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

// CreateWithOpenID inserts a first-login user row. When a concurrent insert
// for the same openid wins the race, the unique index rejects ours and the
// existing row is returned instead, so at most one user exists per openid.
func (r *UserRepository) CreateWithOpenID(ctx context.Context, openID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Unix()
	doc := mongoUser{
		ID:        id,
		WxOpenID:  openID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByOpenID(ctx, openID)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByOpenID(ctx context.Context, openID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"wx_open_id": openID}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by openid: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toDomain(), nil
}

// PhoneBoundToOther reports whether mob belongs to a user other than userID.
func (r *UserRepository) PhoneBoundToOther(ctx context.Context, mob string, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, bson.M{"mob": mob, "_id": bson.M{"$ne": userID}})
	if err != nil {
		return false, fmt.Errorf("count users by phone: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) SetPhone(ctx context.Context, userID int64, mob string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"mob": mob, "updated_at": time.Now().UTC().Unix()}}
	res, err := r.users.UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("set phone: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateProfile sets the registration fields and returns the updated row.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, name, idCardNumber, birthday string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":           name,
		"id_card_number": idCardNumber,
		"birthday":       birthday,
		"updated_at":     time.Now().UTC().Unix(),
	}}
	res, err := r.users.UpdateByID(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, userID)
}

// EnsureIndexes creates the uniqueness constraints the identity flow relies
// on: one user per openid, and one owner per bound phone number. The phone
// index is partial so unset phones do not collide.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "wx_open_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "mob", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "mob", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
	}

	_, err := r.users.Indexes().CreateMany(ctx, indexes)
	return err
}

// nextID allocates the next user id from the counters collection.
func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": usersCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return counter.Seq, nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
