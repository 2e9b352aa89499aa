// Package relay implements the realtime voice session: a bidirectional
// streaming relay between the storefront page's audio pipeline and the
// generative speech endpoint, plus the two storefront tool calls the
// model can make against page state.
package relay

// Wire messages for the BidiGenerateContent streaming protocol. Only
// the subset the relay speaks is modeled; field shapes follow the
// service's JSON contract.

// SetupMessage is sent exactly once, first, after the connection opens.
type SetupMessage struct {
	Setup LiveConfig `json:"setup"`
}

// LiveConfig declares the model, output modality, voice, system
// instructions and tool catalog for the session.
type LiveConfig struct {
	Model             string            `json:"model"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
}

type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

type SpeechConfig struct {
	VoiceConfig *VoiceConfig `json:"voiceConfig,omitempty"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig *PrebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries one base64 PCM16 audio payload.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

type FunctionDeclaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

// RealtimeInputMessage streams one captured audio chunk upstream.
type RealtimeInputMessage struct {
	RealtimeInput RealtimeInput `json:"realtimeInput"`
}

type RealtimeInput struct {
	MediaChunks []MediaChunk `json:"mediaChunks"`
}

type MediaChunk struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ToolResponseMessage answers one received tool-call batch: exactly one
// correlated entry per call, in a single message.
type ToolResponseMessage struct {
	ToolResponse ToolResponse `json:"toolResponse"`
}

type ToolResponse struct {
	FunctionResponses []FunctionResponse `json:"functionResponses"`
}

type FunctionResponse struct {
	ID       string         `json:"id"`
	Response map[string]any `json:"response"`
}

// ServerMessage is the envelope for everything the service sends. At
// most one of the fields is set on a message the relay acts on;
// anything else is ignored.
type ServerMessage struct {
	ServerContent *ServerContent `json:"serverContent,omitempty"`
	ToolCall      *ToolCall      `json:"toolCall,omitempty"`
}

type ServerContent struct {
	TurnComplete bool       `json:"turnComplete,omitempty"`
	Interrupted  bool       `json:"interrupted,omitempty"`
	ModelTurn    *ModelTurn `json:"modelTurn,omitempty"`
}

type ModelTurn struct {
	Parts []Part `json:"parts"`
}

type ToolCall struct {
	FunctionCalls []FunctionCall `json:"functionCalls"`
}

type FunctionCall struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}
