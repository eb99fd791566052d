package finance

// yahooChartResp is the v8 chart body: exchange offset, bar timestamps and
// nullable closes. Everything else Yahoo sends is ignored.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				GmtOffset int    `json:"gmtoffset"`
				Timezone  string `json:"timezone"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}
