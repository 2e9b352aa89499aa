package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultEndpoint is the streaming speech endpoint.
const DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1alpha.GenerativeService.BidiGenerateContent"

// Model and voice the storefront assistant uses.
const (
	DefaultModel = "models/gemini-2.0-flash-exp"
	DefaultVoice = "Puck"
)

// State of a voice session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	}
	return "unknown"
}

var (
	// ErrMissingAPIKey aborts Connect before any resource is acquired.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrNotActive rejects audio writes outside the Active state.
	ErrNotActive = errors.New("session not active")
)

// Sink receives the relay's scheduled playback audio. Start times are
// seconds on the session clock.
type Sink interface {
	PlayAudio(pcm []float32, start float64) error
}

// Config for a Session.
type Config struct {
	Endpoint          string
	APIKey            string
	Model             string
	Voice             string
	SystemInstruction string
}

// Session is one live streaming connection: captured audio chunks go
// out, playback audio and tool calls come in. The read loop handles
// each inbound message to completion before reading the next, so a
// tool-call batch is always fully answered before any later message is
// seen.
type Session struct {
	cfg        Config
	dispatcher *Dispatcher
	sink       Sink
	log        *zap.Logger

	mu      sync.Mutex // guards state, conn, started, done
	state   State
	conn    *websocket.Conn
	started time.Time
	done    chan struct{}

	writeMu sync.Mutex // serializes writes: audio chunks and tool responses share the conn
	audioMu sync.Mutex // guards the chunker against a concurrent Reset

	chunker *ChunkBuffer
	sched   Scheduler
}

// NewSession builds an Idle session. Zero-valued config fields fall
// back to the storefront defaults.
func NewSession(cfg Config, dispatcher *Dispatcher, sink Sink, log *zap.Logger) *Session {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	s := &Session{
		cfg:        cfg,
		dispatcher: dispatcher,
		sink:       sink,
		log:        log,
	}
	s.chunker = NewChunkBuffer(chunkSamples, s.sendChunk)
	return s
}

// State reports the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when an active session returns to Idle. It is nil
// before Connect succeeds.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Connect dials the speech endpoint and sends the one-time setup
// message. Connection errors are logged by the caller and never retried
// automatically; the user reconnects manually.
func (s *Session) Connect(ctx context.Context) error {
	if s.cfg.APIKey == "" {
		return ErrMissingAPIKey
	}

	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("connect: session is %s", s.state)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	url := s.cfg.Endpoint + "?key=" + s.cfg.APIKey
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		s.toIdle()
		return fmt.Errorf("dial speech endpoint: %w", err)
	}

	if err := conn.WriteJSON(s.setupMessage()); err != nil {
		conn.Close()
		s.toIdle()
		return fmt.Errorf("send setup: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateActive
	s.started = time.Now()
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.readLoop(conn)
	return nil
}

func (s *Session) toIdle() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}

func (s *Session) setupMessage() SetupMessage {
	msg := SetupMessage{Setup: LiveConfig{
		Model: s.cfg.Model,
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"audio"},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: &VoiceConfig{
					PrebuiltVoiceConfig: &PrebuiltVoiceConfig{VoiceName: s.cfg.Voice},
				},
			},
		},
		Tools: toolCatalog(),
	}}
	if s.cfg.SystemInstruction != "" {
		msg.Setup.SystemInstruction = &Content{Parts: []Part{{Text: s.cfg.SystemInstruction}}}
	}
	return msg
}

func toolCatalog() []Tool {
	return []Tool{{FunctionDeclarations: []FunctionDeclaration{
		{
			Name:        ToolUpdateQuantity,
			Description: "Update the quantity of the product (Green Mask Stick) in the cart.",
			Parameters: &Schema{
				Type: "object",
				Properties: map[string]Schema{
					"quantity": {Type: "number", Description: "The new total quantity."},
				},
				Required: []string{"quantity"},
			},
		},
		{
			Name:        ToolAskCheckout,
			Description: "User wants to checkout or buy the items.",
			Parameters:  &Schema{Type: "object"},
		},
	}}}
}

// WriteAudio feeds captured samples into the outbound chunker. Samples
// are mono float32 at the capture rate.
func (s *Session) WriteAudio(samples []float32) error {
	if s.State() != StateActive {
		return ErrNotActive
	}
	s.audioMu.Lock()
	s.chunker.Write(samples)
	s.audioMu.Unlock()
	return nil
}

func (s *Session) sendChunk(chunk []float32) {
	msg := RealtimeInputMessage{RealtimeInput: RealtimeInput{MediaChunks: []MediaChunk{{
		MimeType: fmt.Sprintf("audio/pcm;rate=%d", CaptureSampleRate),
		Data:     base64.StdEncoding.EncodeToString(Float32ToPCM16(chunk)),
	}}}}
	if err := s.writeJSON(msg); err != nil {
		s.log.Warn("send audio chunk failed", zap.Error(err))
	}
}

func (s *Session) writeJSON(v any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotActive
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(v)
}

func (s *Session) readLoop(conn *websocket.Conn) {
	defer s.Disconnect()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("speech connection closed", zap.Error(err))
			}
			return
		}
		s.handleMessage(data)
	}
}

// handleMessage processes one inbound message to completion. Malformed
// payloads are logged and dropped; the session continues.
func (s *Session) handleMessage(data []byte) {
	var msg ServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warn("malformed server message", zap.Error(err))
		return
	}
	switch {
	case msg.ServerContent != nil:
		s.handleServerContent(msg.ServerContent)
	case msg.ToolCall != nil:
		s.handleToolCall(msg.ToolCall)
	}
}

func (s *Session) handleServerContent(content *ServerContent) {
	if content.ModelTurn == nil {
		return
	}
	for _, part := range content.ModelTurn.Parts {
		if part.InlineData == nil || !strings.HasPrefix(part.InlineData.MimeType, "audio/pcm") {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			s.log.Warn("bad audio payload", zap.Error(err))
			continue
		}
		pcm := PCM16ToFloat32(raw)
		start := s.sched.Schedule(s.now(), Duration(len(pcm)))
		if err := s.sink.PlayAudio(pcm, start); err != nil {
			s.log.Warn("playback sink failed", zap.Error(err))
		}
	}
}

// handleToolCall answers every call in the batch with one correlated
// response each, sent as a single toolResponse message before the read
// loop touches the next inbound message.
func (s *Session) handleToolCall(call *ToolCall) {
	responses := s.dispatcher.Dispatch(call.FunctionCalls)
	msg := ToolResponseMessage{ToolResponse: ToolResponse{FunctionResponses: responses}}
	if err := s.writeJSON(msg); err != nil {
		s.log.Warn("send tool response failed", zap.Error(err))
	}
}

// now is the session clock: seconds since Connect.
func (s *Session) now() float64 {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	return time.Since(started).Seconds()
}

// Disconnect stops the session and releases the connection. It is safe
// to call repeatedly; the explicit user action, the remote-close path
// and handler teardown all converge here so neither the connection nor
// the capture pipeline can leak.
func (s *Session) Disconnect() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	conn := s.conn
	done := s.done
	s.conn = nil
	s.state = StateIdle
	s.mu.Unlock()

	s.audioMu.Lock()
	s.chunker.Reset()
	s.audioMu.Unlock()
	s.sched.Reset()

	if conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
	if done != nil {
		close(done)
	}
}
