package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"paper_trade/internal/domain"
	"paper_trade/internal/infra"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

const (
	maxRetries  = 10
	readTimeout = 60 * time.Second
)

// StreamWorker maintains the Finnhub trade websocket and forwards last-trade
// updates for the watchlist. Ticks only feed the market display cache; the
// ledger always trades on a fresh REST quote.
type StreamWorker struct {
	wsURL     string
	apiKey    string
	symbols   []string
	ticks     chan<- domain.Tick
	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewStreamWorker creates a stream worker for the given watchlist symbols.
func NewStreamWorker(wsURL, apiKey string, symbols []string, ticks chan<- domain.Tick) *StreamWorker {
	return &StreamWorker{
		wsURL:   wsURL,
		apiKey:  apiKey,
		symbols: symbols,
		ticks:   ticks,
	}
}

// Connect starts the websocket connection loop.
func (w *StreamWorker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *StreamWorker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Finnhub stream connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *StreamWorker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, w.wsURL+"?token="+w.apiKey, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.SetStreamConnected(true)

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return err
	}

	slog.Info("Finnhub stream connected", slog.Int("subs", len(w.symbols)))
	return nil
}

func (w *StreamWorker) subscribe() error {
	for _, symbol := range w.symbols {
		msg := subscribeMessage{Type: "subscribe", Symbol: symbol}
		b, _ := json.Marshal(msg)
		if err := w.threadSafeWrite(websocket.TextMessage, b); err != nil {
			return err
		}
	}
	return nil
}

func (w *StreamWorker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(msgType, data)
}

func (w *StreamWorker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		if w.conn == nil {
			w.mu.RUnlock()
			return
		}
		w.conn.SetReadDeadline(time.Now().Add(readTimeout))
		w.mu.RUnlock()

		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *StreamWorker) handleMessage(msg []byte) {
	var resp tradeMessage
	if json.Unmarshal(msg, &resp) != nil {
		return
	}

	switch resp.Type {
	case "trade":
	case "ping":
		b, _ := json.Marshal(map[string]string{"type": "pong"})
		w.threadSafeWrite(websocket.TextMessage, b)
		return
	default:
		return
	}

	for _, trade := range resp.Data {
		tick := domain.Tick{
			Symbol: trade.Symbol,
			Price:  decimal.NewFromFloat(trade.Price),
			At:     time.UnixMilli(trade.Timestamp),
		}
		infra.GlobalMetrics.RecordStreamTick()

		select {
		case w.ticks <- tick:
		default: // DROP
		}
	}
}

func (w *StreamWorker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
	infra.GlobalMetrics.SetStreamConnected(false)
}

// IsConnected reports whether the websocket is currently up.
func (w *StreamWorker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

// Disconnect stops the connection loop and closes the socket.
func (w *StreamWorker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}
