package finance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolioStatsBot/internal/analytics"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// Provider fetches daily bars and issuer metadata from Yahoo Finance.
type Provider struct {
	client   *http.Client
	scheme   string
	hosts    []string
	backoffs []time.Duration
}

// NewProvider returns a provider talking to the public Yahoo hosts.
func NewProvider(client *http.Client) *Provider {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Provider{
		client:   client,
		scheme:   "https",
		hosts:    []string{"query1.finance.yahoo.com", "query2.finance.yahoo.com"},
		backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
	}
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// getJSON requests path on every host in turn, retrying with backoff, and
// decodes the first usable JSON body into out.
func (p *Provider) getJSON(ctx context.Context, symbol, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt < len(p.backoffs)+1; attempt++ {
		for _, host := range p.hosts {
			addr := fmt.Sprintf("%s://%s%s", p.scheme, host, path)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
			if err != nil {
				return err
			}
			req.Header.Set("User-Agent", userAgent)
			req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
			req.Header.Set("Accept-Language", "en-US,en;q=0.9")
			req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s", strings.ToUpper(symbol)))
			resp, err := p.client.Do(req)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				lastErr = err
				continue
			}
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read yahoo response: %w", readErr)
				continue
			}
			if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
				lastErr = fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
				continue
			}
			if resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("%w: yahoo has no symbol %s", analytics.ErrMissingData, symbol)
			}
			if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
				continue
			}
			if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
				lastErr = fmt.Errorf("yahoo returned non-json body: %s", preview(body))
				continue
			}
			if err := json.Unmarshal(body, out); err != nil {
				lastErr = fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
				continue
			}
			return nil
		}
		zap.L().Debug("yahoo: retrying", zap.String("symbol", symbol), zap.Int("attempt", attempt+1), zap.Error(lastErr))
		if attempt < len(p.backoffs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.backoffs[attempt]):
			}
		}
	}
	return lastErr
}

// FetchDaily fetches daily closes for symbol from start (inclusive) to end (exclusive).
func (p *Provider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (analytics.PriceSeries, error) {
	q := url.Values{}
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	path := "/v8/finance/chart/" + url.PathEscape(strings.ToUpper(symbol)) + "?" + q.Encode()

	var yc yahooChartResp
	if err := p.getJSON(ctx, symbol, path, &yc); err != nil {
		return nil, err
	}
	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no data found for ticker %s", analytics.ErrMissingData, symbol)
	}
	res := yc.Chart.Result[0]
	s := toDailySeries(res.Timestamp, res.Indicators.Quote[0].Close, res.Meta.GmtOffset)
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: no data found for ticker %s", analytics.ErrMissingData, symbol)
	}
	return s, nil
}

// errNoQuote is returned when the quote endpoint knows nothing about a symbol
var errNoQuote = errors.New("no quote result")
