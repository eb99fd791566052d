package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"portfolioStatsBot/internal/analytics"
)

const commentaryModel = "gpt-4"

// maxCommentBytes keeps a reply inside one telegram message
const maxCommentBytes = 3500

const systemPrompt = `You describe the historical performance of a stock portfolio to a retail audience.
Only talk about what already happened in the numbers you are given: growth, consistency of returns,
sensitivity to the market, income from dividends, and the largest drawdown.
Never forecast prices, never recommend buying, selling or holding anything, and never suggest other tickers.
Write at most five short bullet points in plain text. No links.`

// Commentator turns a report into a short plain-language description.
type Commentator struct {
	cli oa.Client
}

func NewCommentator(apiKey string, opts ...option.RequestOption) *Commentator {
	client := oa.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Commentator{cli: client}
}

// Comment asks the model to describe r. It never sees raw prices, only the
// formatted statistics.
func (c *Commentator) Comment(ctx context.Context, r *analytics.Report) (string, error) {
	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: commentaryModel,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(buildPrompt(r)),
		},
		MaxTokens: oa.Int(400), // one telegram message
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return sanitize(resp.Choices[0].Message.Content), nil
}

func buildPrompt(r *analytics.Report) string {
	var b strings.Builder
	b.WriteString("Portfolio holdings and weights:\n")
	for _, a := range r.Weighting() {
		fmt.Fprintf(&b, "- %s: %.1f%%\n", a.Symbol, a.Weight*100)
	}
	fmt.Fprintf(&b, "Period: %s to %s\n", r.Start().Format("2006-01-02"), r.End().Format("2006-01-02"))
	fmt.Fprintf(&b, "Invested: %s, final value: %s\n", analytics.FormatUSD(r.InitialValue()), analytics.FormatUSD(r.FinalValue()))
	fmt.Fprintf(&b, "Total return: %s\n", analytics.FormatPercent(r.TotalReturn()))
	fmt.Fprintf(&b, "Maximum drawdown: %s\n", analytics.FormatPercent(r.MaxDrawdown()))
	for _, s := range r.Stats() {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Value)
	}
	if ws := r.Warnings(); len(ws) > 0 {
		b.WriteString("Data caveats:\n")
		for _, w := range ws {
			b.WriteString("- " + w.String() + "\n")
		}
	}
	b.WriteString("\nDescribe how this portfolio behaved over the period.")
	return b.String()
}

var (
	reMarkdownImg = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`) // ![alt](url)
	reURL         = regexp.MustCompile(`https?://\S+`)
)

// sanitize strips links and images and caps the reply length
func sanitize(text string) string {
	text = reMarkdownImg.ReplaceAllString(text, "")
	text = reURL.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if len(text) > maxCommentBytes {
		cut := maxCommentBytes
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
