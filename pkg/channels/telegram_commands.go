package channels

import (
	"context"

	"github.com/mymmrac/telego"
)

// botCommands is the slash-command menu shown by Telegram clients. Every
// other action is reached through the reply keyboard.
var botCommands = []telego.BotCommand{
	{Command: "start", Description: "Show the wallet menu"},
}

func (c *TelegramChannel) registerCommands(ctx context.Context) error {
	return c.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: botCommands,
	})
}
