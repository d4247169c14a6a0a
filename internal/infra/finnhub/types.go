package finnhub

// quoteResponse is the /quote payload. Finnhub answers HTTP 200 with an
// all-zero body for symbols it does not know.
type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// profileResponse is the /stock/profile2 payload (subset).
type profileResponse struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Logo     string `json:"logo"`
}

// tradeMessage is one websocket frame on the trade channel.
type tradeMessage struct {
	Type string `json:"type"` // "trade", "ping", "error"
	Msg  string `json:"msg,omitempty"`
	Data []struct {
		Symbol    string  `json:"s"`
		Price     float64 `json:"p"`
		Timestamp int64   `json:"t"` // Unix milliseconds
		Volume    float64 `json:"v"`
	} `json:"data"`
}

// subscribeMessage is the outbound subscription request.
type subscribeMessage struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}
