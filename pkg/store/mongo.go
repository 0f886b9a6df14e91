package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sipeed/walletbot/pkg/logger"
)

const profilesCollection = "users"

// profile is one document per chat holding its wallets in insertion order.
type profile struct {
	ChatID    int64     `bson:"_id"`
	Wallets   []Record  `bson:"wallets"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one profile document per chat.
type MongoStore struct {
	client   *mongo.Client
	profiles *mongo.Collection
}

// OpenMongo connects to uri and verifies the server answers a ping.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	logger.InfoCF("store", "Connected to MongoDB", map[string]any{
		"database": database,
	})
	return &MongoStore{
		client:   client,
		profiles: client.Database(database).Collection(profilesCollection),
	}, nil
}

func (s *MongoStore) UpsertWallet(ctx context.Context, chatID int64, record Record) error {
	now := time.Now().UTC()
	_, err := s.profiles.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$push":        bson.M{"wallets": record},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}
	return nil
}

func (s *MongoStore) ListWallets(ctx context.Context, chatID int64) ([]Record, error) {
	var p profile
	err := s.profiles.FindOne(ctx, bson.M{"_id": chatID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p.Wallets, nil
}

func (s *MongoStore) FindWallet(ctx context.Context, chatID int64, name string) (Record, bool, error) {
	records, err := s.ListWallets(ctx, chatID)
	if err != nil {
		return Record{}, false, err
	}
	for _, r := range records {
		if r.Name == name {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// DeleteWallet pulls the first record named name by its id, so duplicates
// sharing the name stay in place.
func (s *MongoStore) DeleteWallet(ctx context.Context, chatID int64, name string) (bool, error) {
	target, found, err := s.FindWallet(ctx, chatID, name)
	if err != nil || !found {
		return false, err
	}

	res, err := s.profiles.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$pull": bson.M{"wallets": bson.M{"id": target.ID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("delete wallet: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
