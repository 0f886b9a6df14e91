package flow

import (
	"fmt"
	"html"
	"strings"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/store"
	"github.com/sipeed/walletbot/pkg/wallet"
)

const (
	msgWelcome = "Welcome to the Crypto Wallet Bot! Here's what I can do for you:\n\n" +
		"1. <b>Create Wallet</b>: generate a named wallet and save its ETH and BSC addresses.\n" +
		"2. <b>Check Balances</b>: pick a saved wallet, or send any 0x address.\n" +
		"3. <b>Delete Wallet</b>: remove a saved wallet.\n" +
		"4. <b>Generate Ethereum / BSC Wallet</b>: a one-off wallet that is not saved.\n\n" +
		"Enjoy exploring the world of crypto wallets!"

	msgAskName             = "Please enter a name for your new wallet:"
	msgSelectForBalance    = "Select a wallet to check its balances:"
	msgSelectForDelete     = "Select the wallet you want to delete:"
	msgNoWalletsForBalance = "You have no saved wallets yet. Tap <b>Create Wallet</b>, or send any 0x address to check its balances."
	msgNoWalletsForDelete  = "You have no saved wallets to delete."
	msgExit                = "You have exited the current operation."
	msgHint                = "I did not understand that. Send /start to see the menu."
	msgUnavailable         = "⚠️ Wallet storage is unavailable right now, please try again later."
	msgGenerateFailed      = "⚠️ Could not generate a wallet, please try again."
	msgGenericFailure      = "something went wrong"
)

const keyWarning = "⚠️ The private key and mnemonic are not stored. Save them somewhere safe now."

func renderGenerated(chain config.EVMChain, km *wallet.KeyMaterial, created string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is a new %s wallet generated:\n\n", html.EscapeString(chain.Label))
	fmt.Fprintf(&b, "📝 <b>%s Wallet</b>: <code>%s</code>\n\n", html.EscapeString(chain.Label), km.Address.Hex())
	fmt.Fprintf(&b, "🔐 <b>Private Key</b>: <code>%s</code>\n\n", km.PrivateKey)
	fmt.Fprintf(&b, "🧩 <b>Mnemonic</b>: <code>%s</code>\n\n", html.EscapeString(km.Mnemonic))
	fmt.Fprintf(&b, "🗓️ <b>Creation Date</b>: <i>%s</i>\n\n", html.EscapeString(created))
	b.WriteString(keyWarning)
	return b.String()
}

func renderCreated(eth, bsc config.EVMChain, record store.Record, privateKey, mnemonic, created string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Wallet <b>%s</b> created:\n\n", html.EscapeString(record.Name))
	fmt.Fprintf(&b, "📝 <b>%s Wallet</b>: <code>%s</code>\n", html.EscapeString(eth.Label), record.EthAddress)
	fmt.Fprintf(&b, "📝 <b>%s Wallet</b>: <code>%s</code>\n\n", html.EscapeString(bsc.Label), record.BscAddress)
	fmt.Fprintf(&b, "🔐 <b>Private Key</b>: <code>%s</code>\n\n", privateKey)
	fmt.Fprintf(&b, "🧩 <b>Mnemonic</b>: <code>%s</code>\n\n", html.EscapeString(mnemonic))
	fmt.Fprintf(&b, "🗓️ <b>Creation Date</b>: <i>%s</i>\n\n", html.EscapeString(created))
	b.WriteString(keyWarning)
	return b.String()
}

func renderBalance(chain config.EVMChain, amount string) string {
	return fmt.Sprintf("<b>%s Balance:</b> %s %s", html.EscapeString(chain.Label), amount, html.EscapeString(chain.Currency))
}

func renderBalanceError(chain config.EVMChain, reason string) string {
	return fmt.Sprintf("<b>%s Balance:</b> ⚠️ %s", html.EscapeString(chain.Label), html.EscapeString(reason))
}

func renderBalances(subject string, lines []string) string {
	return fmt.Sprintf("💵 Balances for %s:\n\n%s", html.EscapeString(subject), strings.Join(lines, "\n"))
}

func renderNotFound(name string) string {
	return fmt.Sprintf("❌ Wallet <b>%s</b> not found.", html.EscapeString(name))
}

func renderDeleted(name string) string {
	return fmt.Sprintf("🗑️ Wallet <b>%s</b> deleted.", html.EscapeString(name))
}
