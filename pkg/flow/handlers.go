package flow

import (
	"context"
	"errors"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/sipeed/walletbot/pkg/blockchain"
	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/logger"
	"github.com/sipeed/walletbot/pkg/metrics"
	"github.com/sipeed/walletbot/pkg/session"
	"github.com/sipeed/walletbot/pkg/store"
)

const bscDerivationPath = "m/44'/60'/0'/0/0"

// balanceTarget is one address to look up on one chain.
type balanceTarget struct {
	chain   config.EVMChain
	address common.Address
}

// generate replies with a one-off wallet that is not stored.
func (c *Controller) generate(ctx context.Context, chatID int64, chain config.EVMChain, path string) error {
	km, err := c.keys.GenerateRandomWallet(path)
	if err != nil {
		return c.generateFailed(ctx, chatID, err)
	}
	metrics.WalletsCreated.WithLabelValues("false").Inc()
	return c.send(ctx, chatID, renderGenerated(chain, km, c.now().Format(c.timeLayout)), mainMenu())
}

func (c *Controller) startCreate(ctx context.Context, in Inbound) error {
	if err := c.await(ctx, in.ChatID, session.AwaitingName); err != nil {
		return c.send(ctx, in.ChatID, msgUnavailable, mainMenu())
	}
	return c.sendRemovingKeyboard(ctx, in.ChatID, msgAskName)
}

// finishCreate uses the message text verbatim as the wallet name. Both
// addresses come from one private key.
func (c *Controller) finishCreate(ctx context.Context, in Inbound) error {
	name := in.Text

	km, err := c.keys.GenerateRandomWallet("")
	if err != nil {
		return c.generateFailed(ctx, in.ChatID, err)
	}
	bsc, err := c.keys.DeriveFromPrivateKey(km.PrivateKey)
	if err != nil {
		return c.generateFailed(ctx, in.ChatID, err)
	}

	record := store.Record{
		ID:         uuid.NewString(),
		Name:       name,
		EthAddress: km.Address.Hex(),
		BscAddress: bsc.Address.Hex(),
		CreatedAt:  c.now().UTC(),
	}
	if err := c.store.UpsertWallet(ctx, in.ChatID, record); err != nil {
		metrics.WalletsCreated.WithLabelValues("false").Inc()
		return c.storeFailed(ctx, in.ChatID, "upsert", err)
	}
	metrics.WalletsCreated.WithLabelValues("true").Inc()
	logger.InfoCF("flow", "Wallet created", map[string]any{
		"chat_id": in.ChatID,
		"id":      record.ID,
		"eth":     record.EthAddress,
	})

	text := renderCreated(c.ethereum, c.bsc, record, km.PrivateKey, km.Mnemonic, c.now().Format(c.timeLayout))
	return c.send(ctx, in.ChatID, text, mainMenu())
}

func (c *Controller) generateFailed(ctx context.Context, chatID int64, err error) error {
	logger.ErrorCF("flow", "Wallet generation failed", map[string]any{
		"chat_id": chatID,
		"error":   err.Error(),
	})
	return c.send(ctx, chatID, msgGenerateFailed, mainMenu())
}

func (c *Controller) startBalance(ctx context.Context, in Inbound) error {
	records, err := c.store.ListWallets(ctx, in.ChatID)
	if err != nil {
		return c.storeFailed(ctx, in.ChatID, "list", err)
	}
	if len(records) == 0 {
		return c.send(ctx, in.ChatID, msgNoWalletsForBalance, mainMenu())
	}
	if err := c.await(ctx, in.ChatID, session.AwaitingBalanceSelection); err != nil {
		return c.send(ctx, in.ChatID, msgUnavailable, mainMenu())
	}
	return c.send(ctx, in.ChatID, msgSelectForBalance, selectionMenu(store.Names(records)))
}

func (c *Controller) finishBalance(ctx context.Context, in Inbound) error {
	record, found, err := c.store.FindWallet(ctx, in.ChatID, in.Text)
	if err != nil {
		return c.storeFailed(ctx, in.ChatID, "find", err)
	}
	if !found {
		return c.send(ctx, in.ChatID, renderNotFound(in.Text), mainMenu())
	}

	lines := c.queryBalances(ctx, []balanceTarget{
		{chain: c.ethereum, address: common.HexToAddress(record.EthAddress)},
		{chain: c.bsc, address: common.HexToAddress(record.BscAddress)},
	})
	return c.send(ctx, in.ChatID, renderBalances(record.Name, lines), mainMenu())
}

// lookupAddress queries both chains for an address typed by the user,
// without touching the store.
func (c *Controller) lookupAddress(ctx context.Context, in Inbound) error {
	addr := common.HexToAddress(in.Text)
	lines := c.queryBalances(ctx, []balanceTarget{
		{chain: c.ethereum, address: addr},
		{chain: c.bsc, address: addr},
	})
	return c.send(ctx, in.ChatID, renderBalances(in.Text, lines), nil)
}

// queryBalances looks the targets up in order and renders one line per
// chain. A failing chain does not stop the others.
func (c *Controller) queryBalances(ctx context.Context, targets []balanceTarget) []string {
	ctx, cancel := context.WithTimeout(ctx, c.balanceTimeout)
	defer cancel()

	lines := make([]string, 0, len(targets))
	for _, t := range targets {
		raw, err := c.balances.GetNativeBalance(ctx, t.chain.ChainID, t.address)
		if err != nil {
			qerr := &QueryError{Chain: t.chain.Name, Err: err}
			logger.WarnCF("flow", "Balance query failed", map[string]any{
				"chain":    t.chain.Name,
				"chain_id": strconv.FormatInt(t.chain.ChainID, 10),
				"address":  t.address.Hex(),
				"error":    err.Error(),
			})
			lines = append(lines, renderBalanceError(t.chain, c.describe(qerr)))
			continue
		}
		lines = append(lines, renderBalance(t.chain, blockchain.FormatUnits(raw, t.chain.Decimals, 5)))
	}
	return lines
}

// describe turns a query failure into user-facing text.
func (c *Controller) describe(err error) string {
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		return msgGenericFailure
	}
	if c.exposeErrors {
		return qerr.Err.Error()
	}
	return "could not fetch " + qerr.Chain + " balance, please try again later"
}

func (c *Controller) startDelete(ctx context.Context, in Inbound) error {
	records, err := c.store.ListWallets(ctx, in.ChatID)
	if err != nil {
		return c.storeFailed(ctx, in.ChatID, "list", err)
	}
	if len(records) == 0 {
		return c.send(ctx, in.ChatID, msgNoWalletsForDelete, mainMenu())
	}
	if err := c.await(ctx, in.ChatID, session.AwaitingDeleteSelection); err != nil {
		return c.send(ctx, in.ChatID, msgUnavailable, mainMenu())
	}
	return c.send(ctx, in.ChatID, msgSelectForDelete, selectionMenu(store.Names(records)))
}

// finishDelete confirms even when no record matched; the miss is only logged.
func (c *Controller) finishDelete(ctx context.Context, in Inbound) error {
	deleted, err := c.store.DeleteWallet(ctx, in.ChatID, in.Text)
	if err != nil {
		return c.storeFailed(ctx, in.ChatID, "delete", err)
	}
	metrics.WalletsDeleted.WithLabelValues(strconv.FormatBool(deleted)).Inc()
	if !deleted {
		logger.WarnCF("flow", "Delete matched no wallet", map[string]any{
			"chat_id": in.ChatID,
			"name":    in.Text,
		})
	}
	return c.send(ctx, in.ChatID, renderDeleted(in.Text), mainMenu())
}

func (c *Controller) storeFailed(ctx context.Context, chatID int64, op string, err error) error {
	logger.ErrorCF("flow", "Wallet store failed", map[string]any{
		"chat_id": chatID,
		"op":      op,
		"error":   err.Error(),
	})
	return c.send(ctx, chatID, msgUnavailable, mainMenu())
}
