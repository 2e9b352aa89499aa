package relay

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductInfo is the storefront description injected into the system
// instruction at connect time.
const ProductInfo = `
Product: Green Mask Stick
Price: PKR 720
Description: The viral deep-cleaning solution. Contains organic green tea extract, kaolin clay, vitamin E.
Features: Rotating head for mess-free application, dissolves blackheads, controls oil, balances pH. 7-Day return policy. Cash on Delivery only.
Usage: Spin out paste, apply evenly, leave for 10 minutes, rinse.
`

// SystemInstruction assembles the sales-assistant prompt for the
// current cart quantity. It is fixed for the lifetime of a session; a
// mid-session quantity change is not re-injected.
func SystemInstruction(quantity int) string {
	return fmt.Sprintf(`You are a helpful sales assistant for the Green Mask Stick.
Current product info: %s.
Current user cart quantity: %d.
Currency is PKR.
When the user wants to add items, use the update_order_quantity tool. Confirm the action to the user verbally.
If the user asks to checkout or buy, use the ask_checkout tool.
Be concise, friendly, and enthusiastic. Speak in a natural, conversational tone.
The user can speak to you to order.
`, strings.TrimSpace(ProductInfo), quantity)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The storefront page is the only intended caller.
	CheckOrigin: func(*http.Request) bool { return true },
}

// browserEvent is one JSON message to the page: scheduled playback
// audio, a cart quantity change, a checkout request, or an error.
type browserEvent struct {
	Type     string  `json:"type"`
	Start    float64 `json:"start,omitempty"`
	Data     string  `json:"data,omitempty"` // base64 PCM16 at the playback rate
	Quantity int     `json:"quantity,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// browserConn serializes writes to the page websocket; playback audio
// and cart events come from different goroutines.
type browserConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (b *browserConn) send(ev browserEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn.WriteJSON(ev)
}

// PlayAudio implements Sink: a scheduled buffer goes to the page with
// its start time, and the page plays it at exactly that offset.
func (b *browserConn) PlayAudio(pcm []float32, start float64) error {
	return b.send(browserEvent{
		Type:  "audio",
		Start: start,
		Data:  base64.StdEncoding.EncodeToString(Float32ToPCM16(pcm)),
	})
}

// HandlerConfig groups dependencies for the voice relay endpoint.
type HandlerConfig struct {
	SessionConfig Config
	Logger        *zap.Logger
}

// Register registers the voice relay websocket endpoint.
func Register(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/api/voice", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			cfg.Logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
		if err != nil {
			quantity = 1
		}
		serveVoice(c.Request.Context(), conn, quantity, cfg)
	})
}

// serveVoice runs one relay session for one page connection.
func serveVoice(ctx context.Context, conn *websocket.Conn, quantity int, cfg HandlerConfig) {
	browser := &browserConn{conn: conn}

	cart := NewCart(quantity,
		func(q int) { _ = browser.send(browserEvent{Type: "quantity", Quantity: q}) },
		func() { _ = browser.send(browserEvent{Type: "checkout"}) },
	)
	dispatcher := NewDispatcher()
	RegisterCartTools(dispatcher, cart)

	sessCfg := cfg.SessionConfig
	sessCfg.SystemInstruction = SystemInstruction(cart.Quantity())
	session := NewSession(sessCfg, dispatcher, browser, cfg.Logger)

	if err := session.Connect(ctx); err != nil {
		cfg.Logger.Warn("voice session connect failed", zap.Error(err))
		_ = browser.send(browserEvent{Type: "error", Message: "connect failed"})
		return
	}
	defer session.Disconnect()

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Capture pump: binary frames from the page are raw float32
		// samples; everything else is ignored.
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				session.Disconnect()
				return nil
			}
			if msgType != websocket.BinaryMessage {
				continue
			}
			if err := session.WriteAudio(Float32FromBytes(data)); err != nil {
				return nil
			}
		}
	})
	g.Go(func() error {
		// Session lifetime: when the upstream side ends for any reason,
		// close the page socket so the capture pump unblocks too.
		<-session.Done()
		_ = conn.Close()
		return nil
	})
	_ = g.Wait()
}
