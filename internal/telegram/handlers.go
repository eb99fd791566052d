package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"portfolioStatsBot/internal/analytics"
	"portfolioStatsBot/internal/finance"
	"portfolioStatsBot/internal/openai"
	"portfolioStatsBot/internal/storage"
)

var (
	// /perf DDMMYYYY SYM [W] [SYM W ...] AMOUNT
	rePerf = regexp.MustCompile(`^/perf(?:@[\w_]+)?(?:\s+.*)?$`)
	// /stock SYMBOL
	reStock = regexp.MustCompile(`^/stock(?:@[\w_]+)?\s+([A-Za-z0-9\.^_=+-]+)$`)
	// /usage [days]
	reUsage = regexp.MustCompile(`^/usage(?:@[\w_]+)?(?:\s+(\d+))?$`)
	// /help
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

const (
	defaultUsageDays = 7
	maxUsageDays     = 90
	perfTimeout      = 90 * time.Second
)

const perfUsage = "Usage: /perf DDMMYYYY SYMBOL [WEIGHT] [SYMBOL WEIGHT ...] AMOUNT\n" +
	"e.g. /perf 02012024 AAPL 0.5 MSFT 0.5 10000 or /perf 02012024 SPY 5000"

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type analyzer interface {
	Run(ctx context.Context, req finance.PortfolioRequest) (*finance.Result, error)
	Stock(ctx context.Context, symbol string) (*finance.StockResult, error)
	Benchmark() string
}

type commenter interface {
	Comment(ctx context.Context, r *analytics.Report) (string, error)
}

type Handlers struct {
	api      sender
	store    *storage.Store
	analyzer analyzer
	comment  commenter // nil when no OpenAI key is configured
	now      func() time.Time
}

func NewHandlers(api sender, store *storage.Store, a analyzer, c *openai.Commentator) *Handlers {
	h := &Handlers{api: api, store: store, analyzer: a, now: time.Now}
	if c != nil {
		h.comment = c
	}
	return h
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	if m == nil || m.Chat == nil {
		return
	}
	txt := strings.TrimSpace(m.Text)
	switch {
	case rePerf.MatchString(txt):
		h.record(m, "/perf", finance.CategoryPortfolio)
		req, err := finance.ParseWeightedPortfolio(txt)
		if err != nil {
			h.reply(m.Chat.ID, "Couldn’t read that portfolio: "+err.Error()+"\n\n"+perfUsage)
			return
		}
		h.reply(m.Chat.ID, "Crunching numbers…")
		h.handlePerf(m.Chat.ID, req)

	case reStock.MatchString(txt):
		h.record(m, "/stock", finance.CategoryStock)
		g := reStock.FindStringSubmatch(txt)
		h.handleStock(m.Chat.ID, g[1])

	case reUsage.MatchString(txt):
		h.record(m, "/usage", finance.CategoryUsage)
		days := defaultUsageDays
		if g := reUsage.FindStringSubmatch(txt); len(g) == 2 && g[1] != "" {
			days, _ = strconv.Atoi(g[1])
			if days < 1 {
				days = 1
			}
			if days > maxUsageDays {
				days = maxUsageDays
			}
		}
		h.handleUsage(m.Chat.ID, days)

	case reHelp.MatchString(txt):
		h.record(m, "/help", finance.CategoryHelp)
		h.handleHelp(m.Chat.ID)
	}
}

func (h *Handlers) record(m *tgbotapi.Message, command, category string) {
	var userID int64
	if m.From != nil {
		userID = m.From.ID
	}
	ts := int64(m.Date)
	if ts == 0 {
		ts = h.now().Unix()
	}
	if err := h.store.SaveUsage(m.Chat.ID, userID, command, category, ts); err != nil {
		zap.L().Warn("db: failed to record usage", zap.String("command", command), zap.Error(err))
	}
}

func (h *Handlers) handlePerf(chatID int64, req finance.PortfolioRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), perfTimeout)
	defer cancel()

	res, err := h.analyzer.Run(ctx, req)
	if err != nil {
		zap.L().Warn("portfolio: run failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.reply(chatID, perfErrorText(err))
		return
	}
	r := res.Report

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "portfolio.png", Bytes: res.Chart})
	photo.Caption = finance.ReportText(r)
	h.send(photo)
	h.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "statistics.png", Bytes: res.StatsTable}))
	h.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "values.png", Bytes: res.ValueTable}))

	if ws := r.Warnings(); len(ws) > 0 {
		lines := make([]string, len(ws))
		for i, w := range ws {
			lines[i] = w.String()
		}
		h.reply(chatID, strings.Join(lines, "\n"))
	}

	if h.comment == nil {
		return
	}
	text, err := h.comment.Comment(ctx, r)
	if err != nil {
		zap.L().Warn("openai: commentary failed", zap.String("report_id", r.ID().String()), zap.Error(err))
		return
	}
	if text != "" {
		h.reply(chatID, text)
	}
}

func perfErrorText(err error) string {
	switch {
	case errors.Is(err, analytics.ErrMissingData):
		return "Couldn’t find price data: " + err.Error()
	case errors.Is(err, analytics.ErrInsufficientHistory):
		return "Not enough price history for that start date, try an earlier one."
	case errors.Is(err, analytics.ErrInvalidWeights):
		return "Weights must add up to something positive.\n\n" + perfUsage
	case errors.Is(err, context.DeadlineExceeded):
		return "Market data took too long to arrive, please try again."
	default:
		return "Portfolio analysis failed: " + err.Error()
	}
}

func (h *Handlers) handleStock(chatID int64, sym string) {
	ctx, cancel := context.WithTimeout(context.Background(), perfTimeout)
	defer cancel()
	res, err := h.analyzer.Stock(ctx, sym)
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Couldn’t fetch %s: %v", strings.ToUpper(sym), err))
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: res.Performance.Symbol + ".png", Bytes: res.Chart})
	photo.Caption = finance.StockText(res.Performance)
	h.send(photo)
}

func (h *Handlers) handleUsage(chatID int64, days int) {
	since := h.now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	stats, err := h.store.UsageByCategory(since)
	if err != nil {
		h.reply(chatID, "Usage stats failed: "+err.Error())
		return
	}
	h.reply(chatID, finance.FormatUsageStatsText(stats, days))
	if len(stats) == 0 {
		return
	}
	if img, err := finance.MakeUsageChart(stats, days); err == nil {
		h.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "usage.png", Bytes: img}))
	} else {
		zap.L().Warn("usage: pie chart failed", zap.Error(err))
	}
	series, err := h.store.UsageTimeSeries(since, int64(finance.UsageBucket(days)/time.Second))
	if err != nil {
		zap.L().Warn("usage: time series failed", zap.Error(err))
		return
	}
	if img, err := finance.MakeUsageTimeSeriesChart(series, days); err == nil {
		h.send(tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "usage_over_time.png", Bytes: img}))
	}
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /perf DDMMYYYY SYMBOL [WEIGHT] [SYMBOL WEIGHT ...] AMOUNT - Backtest a buy-and-hold portfolio from the start date: value chart, statistics and value tables\n" +
		"- /stock SYMBOL - One share over the past year\n" +
		"- /usage [days] - Bot usage over the last N days (default: 7, max: 90)\n" +
		"\nWeights that don't add up to 1 are rescaled. Beta is measured against " + h.analyzer.Benchmark() + ". " +
		"Figures describe past performance only."
	h.reply(chatID, help)
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		zap.L().Warn("telegram: send failed", zap.Error(err))
	}
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}
