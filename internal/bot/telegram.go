// Package bot bridges Telegram chats to the image ingestion pipeline and
// the downstream agent. It downloads photo attachments, runs them through
// the pipeline, hands the composed prompt to the agent, relays the answer,
// and releases the staged file once the agent has consumed it.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/snapstage/snapstage/internal/agent"
	"github.com/snapstage/snapstage/internal/config"
	"github.com/snapstage/snapstage/internal/imaging"
	"github.com/snapstage/snapstage/internal/quickactions"
)

const (
	telegramMaxMessageLength = 4096
	maxActionSuggestions     = 8
)

// Bot is the Telegram front end.
type Bot struct {
	api             *tgbotapi.BotAPI
	pipeline        *imaging.Pipeline
	runner          agent.Runner
	actions         *quickactions.Manager
	allowedChats    map[int64]struct{}
	downloadTimeout time.Duration
	keyboardColumns int
	client          *http.Client
	logger          *slog.Logger
}

// New creates a Bot connected to the Telegram API.
func New(log *slog.Logger, cfg config.TelegramConfig, columns int, pipeline *imaging.Pipeline, runner agent.Runner, actions *quickactions.Manager) (*Bot, error) {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	allowed := make(map[int64]struct{}, len(cfg.AllowedChatIDs))
	for _, id := range cfg.AllowedChatIDs {
		allowed[id] = struct{}{}
	}

	timeout := time.Duration(cfg.DownloadTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Bot{
		api:             api,
		pipeline:        pipeline,
		runner:          runner,
		actions:         actions,
		allowedChats:    allowed,
		downloadTimeout: timeout,
		keyboardColumns: columns,
		client:          &http.Client{Timeout: timeout},
		logger:          log.With(slog.String("adapter", "telegram")),
	}, nil
}

// Start begins consuming updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	b.logger.Info("telegram bot started", slog.String("username", b.api.Self.UserName))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				b.handleUpdate(ctx, update)
			}
		}
	}()
}

// Shutdown stops the update stream.
func (b *Bot) Shutdown() {
	b.api.StopReceivingUpdates()
	b.logger.Info("telegram bot stopped")
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if !b.chatAllowed(msg.Chat.ID) {
		b.logger.Debug("ignoring message from disallowed chat", slog.Int64("chat_id", msg.Chat.ID))
		return
	}
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

// handlePhoto runs one image through download, pipeline, and agent. The
// staged file is released here, after the agent has read it; the pipeline
// itself never deletes what it staged.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	photo := pickPhoto(msg.Photo)
	if photo.FileID == "" {
		return
	}

	data, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("photo download failed", slog.Any("error", err))
		b.reply(msg.Chat.ID, msg.MessageID, "Could not download the image, please try again.")
		return
	}

	caption := imaging.NewCaption(msg.Caption)
	result, err := b.pipeline.Process(ctx, data, caption)
	if err != nil {
		if errors.Is(err, imaging.ErrRejected) {
			b.reply(msg.Chat.ID, msg.MessageID, "Image rejected: "+rejectionReason(err))
			return
		}
		b.logger.Error("image processing failed", slog.Any("error", err))
		b.reply(msg.Chat.ID, msg.MessageID, "Failed to process the image.")
		return
	}
	defer func() {
		if !b.pipeline.Cleanup(result.StagedPath) {
			b.logger.Warn("staged file not released", slog.String("path", result.StagedPath))
		}
	}()

	answer, err := b.runner.Run(ctx, result.Prompt)
	if err != nil {
		b.logger.Error("agent run failed", slog.Any("error", err))
		b.reply(msg.Chat.ID, msg.MessageID, "The agent could not analyze the image.")
		return
	}
	b.reply(msg.Chat.ID, msg.MessageID, answer)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	if cmd := commandForButton(text); cmd != "" {
		text = cmd
	}

	switch {
	case text == "/start":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Send me a screenshot, diagram, or mockup and I'll have the agent analyze it.")
		reply.ReplyMarkup = mainKeyboard()
		b.send(reply)
	case text == "/actions":
		suggestions := b.actions.Suggestions(maxActionSuggestions)
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Quick actions:")
		reply.ReplyMarkup = actionsKeyboard(suggestions, b.keyboardColumns)
		b.send(reply)
	case text == "/status":
		b.reply(msg.Chat.ID, msg.MessageID, fmt.Sprintf("Online as @%s. Send an image to analyze it.", b.api.Self.UserName))
	case text == "/menu":
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Use the keyboard below, or just send an image.")
		reply.ReplyMarkup = mainKeyboard()
		b.send(reply)
	case strings.HasPrefix(text, "/"):
		b.reply(msg.Chat.ID, msg.MessageID, "Unknown command. Send an image or use /actions.")
	default:
		answer, err := b.runner.Run(ctx, text)
		if err != nil {
			b.logger.Error("agent run failed", slog.Any("error", err))
			b.reply(msg.Chat.ID, msg.MessageID, "The agent could not answer that.")
			return
		}
		b.reply(msg.Chat.ID, msg.MessageID, answer)
	}
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	if !b.chatAllowed(query.Message.Chat.ID) {
		return
	}

	id, ok := parseActionCallback(query.Data)
	if !ok {
		return
	}
	action, ok := b.actions.Get(id)
	if !ok {
		b.logger.Warn("unknown quick action", slog.String("action_id", id))
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "Unknown action")); err != nil {
			b.logger.Warn("callback ack failed", slog.Any("error", err))
		}
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, action.Name)); err != nil {
		b.logger.Warn("callback ack failed", slog.Any("error", err))
	}

	answer, err := b.runner.Run(ctx, action.Command)
	if err != nil {
		b.logger.Error("quick action failed", slog.String("action_id", id), slog.Any("error", err))
		b.reply(query.Message.Chat.ID, 0, "The agent could not run that action.")
		return
	}
	b.reply(query.Message.Chat.ID, 0, answer)
}

// downloadFile fetches the attachment bytes from Telegram. The read is
// capped just above the validation limit so an oversized file surfaces as
// a "too large" rejection instead of an unbounded buffer.
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.downloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("download attachment status: %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, imaging.MaxImageBytes+1))
}

func (b *Bot) chatAllowed(chatID int64) bool {
	if len(b.allowedChats) == 0 {
		return true
	}
	_, ok := b.allowedChats[chatID]
	return ok
}

// reply sends text to the chat, split into Telegram-sized chunks. A zero
// replyTo sends without quoting.
func (b *Bot) reply(chatID int64, replyTo int, text string) {
	if strings.TrimSpace(text) == "" {
		text = "(empty response)"
	}
	for i, chunk := range splitMessage(text, telegramMaxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if i == 0 && replyTo != 0 {
			msg.ReplyToMessageID = replyTo
		}
		b.send(msg)
	}
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("send message failed", slog.Int64("chat_id", msg.ChatID), slog.Any("error", err))
	}
}

// pickPhoto selects the richest rendition from a Telegram photo set.
func pickPhoto(items []tgbotapi.PhotoSize) tgbotapi.PhotoSize {
	if len(items) == 0 {
		return tgbotapi.PhotoSize{}
	}
	best := items[0]
	for _, item := range items[1:] {
		if item.FileSize > best.FileSize {
			best = item
			continue
		}
		if item.FileSize == best.FileSize && item.Width*item.Height > best.Width*best.Height {
			best = item
		}
	}
	return best
}

// splitMessage cuts text into chunks of at most limit runes, preferring
// newline boundaries.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = append(chunks, string(runes))
			break
		}
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	return chunks
}

func rejectionReason(err error) string {
	return strings.TrimPrefix(err.Error(), imaging.ErrRejected.Error()+": ")
}
