package session

import (
	"context"
	"errors"
	"time"
)

// Kind names what a chat's next message is expected to answer.
type Kind string

const (
	AwaitingName             Kind = "wallet-name-for-create"
	AwaitingBalanceSelection Kind = "wallet-selection-for-balance"
	AwaitingDeleteSelection  Kind = "wallet-selection-for-delete"
)

var ErrUnknownKind = errors.New("unknown prompt kind")

// Valid reports whether k is one of the known prompt kinds.
func (k Kind) Valid() bool {
	switch k {
	case AwaitingName, AwaitingBalanceSelection, AwaitingDeleteSelection:
		return true
	}
	return false
}

// Prompt is the single pending question for a chat.
type Prompt struct {
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// Table maps chat ids to their pending prompt. A chat has at most one
// prompt; Set replaces any previous one and Take consumes it atomically.
type Table interface {
	Set(ctx context.Context, chatID int64, p Prompt) error
	// Take removes and returns the chat's prompt, if any.
	Take(ctx context.Context, chatID int64) (Prompt, bool, error)
	// Clear drops the chat's prompt without answering it.
	Clear(ctx context.Context, chatID int64) error
	Close() error
}
