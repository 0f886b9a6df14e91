package channels

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"

	"github.com/sipeed/walletbot/pkg/config"
	"github.com/sipeed/walletbot/pkg/flow"
	"github.com/sipeed/walletbot/pkg/logger"
	"github.com/sipeed/walletbot/pkg/metrics"
)

// InboundHandler consumes messages received by a channel.
type InboundHandler interface {
	Handle(ctx context.Context, in flow.Inbound) error
}

// TelegramChannel receives updates by long polling and sends flow replies.
type TelegramChannel struct {
	bot     *telego.Bot
	config  config.TelegramConfig
	limiter *rate.Limiter
	wg      sync.WaitGroup
}

// NewTelegramChannel creates the bot client. No network calls are made.
func NewTelegramChannel(cfg config.TelegramConfig) (*TelegramChannel, error) {
	opts := []telego.BotOption{
		telego.WithLogger(&telegoLogger{token: cfg.Token}),
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram proxy: %w", err)
		}
		opts = append(opts, telego.WithHTTPClient(&http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}))
	}

	bot, err := telego.NewBot(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramChannel{
		bot:     bot,
		config:  cfg,
		limiter: newSendLimiter(cfg.SendRate, cfg.SendBurst),
	}, nil
}

func newSendLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Run polls for updates until ctx is done, handing each message to handler
// on its own goroutine. It waits for in-flight handlers before returning.
func (c *TelegramChannel) Run(ctx context.Context, handler InboundHandler) error {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe: %w", err)
	}
	if err := c.registerCommands(ctx); err != nil {
		logger.WarnCF("telegram", "Failed to register bot commands", map[string]any{
			"error": err.Error(),
		})
	}

	updates, err := c.bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("telegram long polling: %w", err)
	}

	logger.InfoCF("telegram", "Telegram bot connected", map[string]any{
		"username": me.Username,
	})

	defer c.wg.Wait()
	for update := range updates {
		in, ok := inboundFromUpdate(update)
		if !ok {
			continue
		}
		if !isAllowed(c.config.AllowFrom, in.UserID, in.Username) {
			logger.DebugCF("telegram", "Message rejected by allowlist", map[string]any{
				"user_id": in.UserID,
			})
			continue
		}

		c.wg.Add(1)
		go func(in flow.Inbound) {
			defer c.wg.Done()
			if err := handler.Handle(ctx, in); err != nil {
				logger.ErrorCF("telegram", "Failed to handle message", map[string]any{
					"chat_id": in.ChatID,
					"error":   err.Error(),
				})
			}
		}(in)
	}

	logger.InfoC("telegram", "Telegram bot stopped")
	return nil
}

// Send implements flow.Messenger.
func (c *TelegramChannel) Send(ctx context.Context, reply flow.Reply) error {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.MessagesSent.WithLabelValues("throttled").Inc()
		return err
	}

	_, err := c.bot.SendMessage(ctx, sendParams(reply))
	if err != nil {
		metrics.MessagesSent.WithLabelValues("error").Inc()
		return fmt.Errorf("telegram send: %w", err)
	}
	metrics.MessagesSent.WithLabelValues("ok").Inc()
	return nil
}

func sendParams(reply flow.Reply) *telego.SendMessageParams {
	params := &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: reply.ChatID},
		Text:      reply.Text,
		ParseMode: reply.ParseMode,
	}

	switch {
	case reply.RemoveKeyboard:
		params.ReplyMarkup = tu.ReplyKeyboardRemove()
	case len(reply.Keyboard) > 0:
		rows := make([][]telego.KeyboardButton, 0, len(reply.Keyboard))
		for _, labels := range reply.Keyboard {
			row := make([]telego.KeyboardButton, 0, len(labels))
			for _, label := range labels {
				row = append(row, tu.KeyboardButton(label))
			}
			rows = append(rows, row)
		}
		params.ReplyMarkup = tu.Keyboard(rows...).WithResizeKeyboard()
	}
	return params
}

func inboundFromUpdate(update telego.Update) (flow.Inbound, bool) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return flow.Inbound{}, false
	}

	in := flow.Inbound{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
	}
	if msg.From != nil {
		in.UserID = msg.From.ID
		in.Username = msg.From.Username
	}
	return in, true
}

// isAllowed matches a sender against the allowlist by numeric id or
// username (with or without "@"). An empty list allows everyone.
func isAllowed(allow []string, userID int64, username string) bool {
	if len(allow) == 0 {
		return true
	}
	id := strconv.FormatInt(userID, 10)
	for _, entry := range allow {
		entry = strings.TrimSpace(entry)
		if entry == id {
			return true
		}
		if username != "" && strings.EqualFold(strings.TrimPrefix(entry, "@"), username) {
			return true
		}
	}
	return false
}

// telegoLogger routes telego's logs to the component logger with the bot
// token redacted.
type telegoLogger struct {
	token string
}

func (l *telegoLogger) redact(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.token != "" {
		msg = strings.ReplaceAll(msg, l.token, "BOT_TOKEN")
	}
	return msg
}

func (l *telegoLogger) Debugf(format string, args ...any) {
	logger.DebugC("telego", l.redact(format, args...))
}

func (l *telegoLogger) Errorf(format string, args ...any) {
	logger.ErrorC("telego", l.redact(format, args...))
}
