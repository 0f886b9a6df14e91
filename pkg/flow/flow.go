// Package flow implements the per-chat conversation state machine of the
// wallet bot: menu commands, multi-step prompts and their continuations.
package flow

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/logger"
	"github.com/sipeed/walletbot/pkg/metrics"
	"github.com/sipeed/walletbot/pkg/session"
	"github.com/sipeed/walletbot/pkg/store"
	"github.com/sipeed/walletbot/pkg/wallet"
)

const ParseModeHTML = "HTML"

// Inbound is one text message received from a chat.
type Inbound struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

// Reply is one outbound message. Keyboard rows replace the chat's reply
// keyboard; RemoveKeyboard hides it.
type Reply struct {
	ChatID         int64
	Text           string
	ParseMode      string
	Keyboard       [][]string
	RemoveKeyboard bool
}

// Messenger delivers replies to a chat.
type Messenger interface {
	Send(ctx context.Context, reply Reply) error
}

// KeyGenerator creates wallet key material.
type KeyGenerator interface {
	GenerateRandomWallet(path string) (*wallet.KeyMaterial, error)
	DeriveFromPrivateKey(privateKeyHex string) (*wallet.KeyMaterial, error)
}

// BalanceQuerier returns native balances in the chain's smallest unit.
type BalanceQuerier interface {
	GetNativeBalance(ctx context.Context, chainID int64, address common.Address) (*big.Int, error)
}

// Controller routes inbound messages. Handling is serialised per chat and
// concurrent across chats.
type Controller struct {
	messenger Messenger
	keys      KeyGenerator
	balances  BalanceQuerier
	store     store.Store
	sessions  session.Table

	ethereum       config.EVMChain
	bsc            config.EVMChain
	exposeErrors   bool
	balanceTimeout time.Duration
	timeLayout     string

	locks *chatLocks
	now   func() time.Time
}

func NewController(cfg *config.Config, messenger Messenger, keys KeyGenerator, balances BalanceQuerier, st store.Store, sessions session.Table) *Controller {
	chains := cfg.ChainList()
	return &Controller{
		messenger:      messenger,
		keys:           keys,
		balances:       balances,
		store:          st,
		sessions:       sessions,
		ethereum:       chains[0],
		bsc:            chains[1],
		exposeErrors:   cfg.Bot.ExposeErrors,
		balanceTimeout: cfg.BalanceTimeout(),
		timeLayout:     cfg.Bot.TimeLayout,
		locks:          newChatLocks(),
		now:            time.Now,
	}
}

// Handle processes one inbound message. Failures of collaborators are
// reported to the chat; the returned error is a delivery failure.
func (c *Controller) Handle(ctx context.Context, in Inbound) error {
	unlock := c.locks.Lock(in.ChatID)
	defer unlock()

	if cmd := Classify(in.Text); cmd != CmdNone {
		metrics.MessagesHandled.WithLabelValues(cmd.String()).Inc()
		logger.DebugCF("flow", "Command", map[string]any{
			"chat_id": in.ChatID,
			"command": cmd.String(),
		})
		return c.runCommand(ctx, in, cmd)
	}

	prompt, ok, err := c.sessions.Take(ctx, in.ChatID)
	if err != nil {
		logger.ErrorCF("flow", "Session lookup failed", map[string]any{
			"chat_id": in.ChatID,
			"error":   err.Error(),
		})
		metrics.MessagesHandled.WithLabelValues("session_error").Inc()
		return c.send(ctx, in.ChatID, msgUnavailable, mainMenu())
	}
	if ok {
		metrics.MessagesHandled.WithLabelValues(string(prompt.Kind)).Inc()
		switch prompt.Kind {
		case session.AwaitingName:
			return c.finishCreate(ctx, in)
		case session.AwaitingBalanceSelection:
			return c.finishBalance(ctx, in)
		case session.AwaitingDeleteSelection:
			return c.finishDelete(ctx, in)
		}
	}

	if IsAddress(in.Text) {
		metrics.MessagesHandled.WithLabelValues("address").Inc()
		return c.lookupAddress(ctx, in)
	}

	metrics.MessagesHandled.WithLabelValues("hint").Inc()
	return c.send(ctx, in.ChatID, msgHint, nil)
}

// runCommand drops any pending prompt before running cmd; commands that ask
// a question register a fresh one.
func (c *Controller) runCommand(ctx context.Context, in Inbound, cmd Command) error {
	if err := c.sessions.Clear(ctx, in.ChatID); err != nil {
		logger.WarnCF("flow", "Failed to clear pending prompt", map[string]any{
			"chat_id": in.ChatID,
			"error":   err.Error(),
		})
	}

	switch cmd {
	case CmdStart:
		return c.send(ctx, in.ChatID, msgWelcome, mainMenu())
	case CmdGenerateEthereum:
		return c.generate(ctx, in.ChatID, c.ethereum, "")
	case CmdGenerateBSC:
		return c.generate(ctx, in.ChatID, c.bsc, bscDerivationPath)
	case CmdCreate:
		return c.startCreate(ctx, in)
	case CmdCheckBalances:
		return c.startBalance(ctx, in)
	case CmdDelete:
		return c.startDelete(ctx, in)
	case CmdExit:
		return c.send(ctx, in.ChatID, msgExit, mainMenu())
	}
	return nil
}

func (c *Controller) await(ctx context.Context, chatID int64, kind session.Kind) error {
	err := c.sessions.Set(ctx, chatID, session.Prompt{Kind: kind, CreatedAt: c.now()})
	if err != nil {
		logger.ErrorCF("flow", "Failed to register prompt", map[string]any{
			"chat_id": chatID,
			"kind":    string(kind),
			"error":   err.Error(),
		})
		return err
	}
	metrics.PromptsRegistered.WithLabelValues(string(kind)).Inc()
	return nil
}

func (c *Controller) send(ctx context.Context, chatID int64, text string, keyboard [][]string) error {
	return c.messenger.Send(ctx, Reply{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeHTML,
		Keyboard:  keyboard,
	})
}

func (c *Controller) sendRemovingKeyboard(ctx context.Context, chatID int64, text string) error {
	return c.messenger.Send(ctx, Reply{
		ChatID:         chatID,
		Text:           text,
		ParseMode:      ParseModeHTML,
		RemoveKeyboard: true,
	})
}
