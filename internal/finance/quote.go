package finance

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"portfolioStatsBot/internal/analytics"
)

const (
	quoteNamePath  = "$.quoteResponse.result[0].longName"
	quoteYieldPath = "$.quoteResponse.result[0].trailingAnnualDividendYield"
)

// FetchMetadata fetches the issuer record of symbol from the v7 quote endpoint.
// A missing dividend yield is not an error: DividendYield stays nil.
func (p *Provider) FetchMetadata(ctx context.Context, symbol string) (analytics.Metadata, error) {
	sym := strings.ToUpper(symbol)
	path := "/v7/finance/quote?symbols=" + url.QueryEscape(sym)

	var jobj any
	if err := p.getJSON(ctx, symbol, path, &jobj); err != nil {
		return analytics.Metadata{Symbol: sym}, err
	}
	if results, err := jsonpath.Get("$.quoteResponse.result", jobj); err != nil {
		return analytics.Metadata{Symbol: sym}, fmt.Errorf("%s: %w", sym, errNoQuote)
	} else if list, ok := results.([]any); !ok || len(list) == 0 {
		return analytics.Metadata{Symbol: sym}, fmt.Errorf("%s: %w", sym, errNoQuote)
	}

	meta := analytics.Metadata{Symbol: sym}
	if name, ok := lookupString(jobj, quoteNamePath); ok {
		meta.Name = name
	}
	if y, ok := lookupFloat(jobj, quoteYieldPath); ok {
		meta.DividendYield = &y
	}
	return meta, nil
}

func lookupFloat(jobj any, path string) (float64, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, false
	}
	// jsonpath may wrap a single answer in a list
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	return val, ok
}

func lookupString(jobj any, path string) (string, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", false
	}
	val, ok := jval.(string)
	return val, ok
}
