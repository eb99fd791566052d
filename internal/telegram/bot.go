package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"portfolioStatsBot/internal/config"
	"portfolioStatsBot/internal/finance"
	"portfolioStatsBot/internal/openai"
	"portfolioStatsBot/internal/storage"
)

type Bot struct {
	api   *tgbotapi.BotAPI
	store *storage.Store
	h     *Handlers
}

func NewBot(cfg config.Config, db storage.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(cfg.WebhookPublicURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	zap.L().Info("telegram: webhook set", zap.String("url", cfg.WebhookPublicURL), zap.String("bot", api.Self.UserName))

	var commentator *openai.Commentator
	if cfg.OpenAIKey != "" {
		commentator = openai.NewCommentator(cfg.OpenAIKey)
	} else {
		zap.L().Info("telegram: OPENAI_API_KEY not set, commentary disabled")
	}

	s := storage.NewStore(db)
	analyzer := finance.NewAnalyzer(finance.NewProvider(nil), cfg.Benchmark)
	h := NewHandlers(api, s, analyzer, commentator)

	return &Bot{api: api, store: s, h: h}, nil
}

// Webhook HTTP handler (registered at /telegram/webhook)
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "bad update", http.StatusBadRequest)
		return
	}
	if update.Message == nil {
		zap.L().Debug("webhook: non-message update received", zap.Int("update_id", update.UpdateID))
		w.WriteHeader(http.StatusOK)
		return
	}
	zap.L().Debug("webhook: message",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text))
	go b.h.HandleMessage(update.Message)
	w.WriteHeader(http.StatusOK)
}
