package websocket

import (
	"encoding/json"
	"time"

	"booklog-backend/domain/layout"
	knowledge "booklog-backend/domain/services"
)

// Server to client message types
const (
	MessageTypeConnected    = "CONNECTION_ESTABLISHED"
	MessageTypeGraph        = "GRAPH"
	MessageTypeFrame        = "FRAME"
	MessageTypeBooksChanged = "BOOKS_CHANGED"
	MessageTypeError        = "ERROR"
)

// Client to server command types
const (
	CommandDragStart = "drag_start"
	CommandDragMove  = "drag_move"
	CommandDragEnd   = "drag_end"
	CommandZoom      = "zoom"
	CommandPan       = "pan"
	CommandResize    = "resize"
)

// Message is the envelope of everything the server pushes
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Command is a pointer or viewport event from the browser. Coordinates are screen
// pixels relative to the drawing surface.
type Command struct {
	Type   string  `json:"type"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Mode   string  `json:"mode,omitempty"`
}

// GraphPayload is sent whenever the session loads a new graph
type GraphPayload struct {
	Nodes        []knowledge.GraphNode  `json:"nodes"`
	Edges        []knowledge.GraphEdge  `json:"edges"`
	Stats        knowledge.GraphStats   `json:"stats"`
	Presentation layout.Presentation `json:"presentation"`
}

// ErrorPayload reports a rejected command or a failed rebuild
type ErrorPayload struct {
	Message string `json:"message"`
	Command string `json:"command,omitempty"`
}

func encodeMessage(messageType string, data interface{}) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: time.Now().Unix(),
	})
}
