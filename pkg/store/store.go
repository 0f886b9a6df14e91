package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable is returned when the backing database cannot be reached
	ErrUnavailable = errors.New("wallet store unavailable")
)

// Record is one named wallet in a chat's profile. Names are not unique;
// lookups by name return the oldest match.
type Record struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	EthAddress string    `json:"eth_address" bson:"eth_address"`
	BscAddress string    `json:"bsc_address" bson:"bsc_address"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Store persists wallet records per chat. Profiles are created lazily by
// the first UpsertWallet.
type Store interface {
	// UpsertWallet appends record to the chat's profile, creating the
	// profile when it does not exist yet.
	UpsertWallet(ctx context.Context, chatID int64, record Record) error
	// ListWallets returns the chat's records in insertion order.
	ListWallets(ctx context.Context, chatID int64) ([]Record, error)
	// FindWallet returns the first record named name.
	FindWallet(ctx context.Context, chatID int64, name string) (Record, bool, error)
	// DeleteWallet removes the first record named name and reports whether
	// one matched.
	DeleteWallet(ctx context.Context, chatID int64, name string) (bool, error)
	Close(ctx context.Context) error
}

// Names returns the record names in order.
func Names(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names
}
