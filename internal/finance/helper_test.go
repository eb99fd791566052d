package finance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

var day0 = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// fakeYahoo serves chart and quote bodies keyed by symbol; unknown symbols 404.
type fakeYahoo struct {
	charts map[string]string
	quotes map[string]string
	mu     sync.Mutex
	hits   map[string]int
}

func (f *fakeYahoo) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeYahoo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var sym, body string
	var ok bool
	switch {
	case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
		sym = strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		body, ok = f.charts[sym]
	case r.URL.Path == "/v7/finance/quote":
		sym = r.URL.Query().Get("symbols")
		body, ok = f.quotes[sym]
		if !ok {
			body, ok = `{"quoteResponse":{"result":[],"error":null}}`, true
		}
	}
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func newTestProvider(t *testing.T, h http.Handler) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return &Provider{client: srv.Client(), scheme: "http", hosts: []string{u.Host}}
}

// chartBody builds a v8 chart body with one 09:30 New York bar per day from day0.
func chartBody(t *testing.T, sym string, closes ...float64) string {
	t.Helper()
	ts := make([]int64, len(closes))
	for i := range closes {
		ts[i] = day0.AddDate(0, 0, i).Add(13*time.Hour + 30*time.Minute).Unix()
	}
	body := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":      map[string]any{"symbol": sym, "currency": "USD", "gmtoffset": -14400, "timezone": "EDT"},
				"timestamp": ts,
				"indicators": map[string]any{
					"quote": []any{map[string]any{"close": closes}},
				},
			}},
			"error": nil,
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func quoteBody(name string, yield float64) string {
	b, _ := json.Marshal(map[string]any{
		"quoteResponse": map[string]any{
			"result": []any{map[string]any{"longName": name, "trailingAnnualDividendYield": yield}},
		},
	})
	return string(b)
}
