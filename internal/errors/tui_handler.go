package errors

import (
	"sync"
	"time"
)

// TUIHandler stores alerts as toasts for display in the TUI footer.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	max      int
	now      func() time.Time
	onAlert  func(msg Message)
}

// Message is a single toast.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// MessageType classifies a toast for styling.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// String returns the lowercase name of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeInfo:
		return "info"
	case MessageTypeSuccess:
		return "success"
	default:
		return "unknown"
	}
}

const defaultMaxToasts = 50

// NewTUIHandler creates a handler that calls onAlert for every new toast.
// onAlert may be nil.
func NewTUIHandler(onAlert func(msg Message)) *TUIHandler {
	return &TUIHandler{
		messages: make([]Message, 0),
		max:      defaultMaxToasts,
		now:      time.Now,
		onAlert:  onAlert,
	}
}

func (h *TUIHandler) Error(msg string) {
	h.addMessage(msg, MessageTypeError)
}

func (h *TUIHandler) Warning(msg string) {
	h.addMessage(msg, MessageTypeWarning)
}

func (h *TUIHandler) Info(msg string) {
	h.addMessage(msg, MessageTypeInfo)
}

func (h *TUIHandler) Success(msg string) {
	h.addMessage(msg, MessageTypeSuccess)
}

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	message := Message{
		Text:      msg,
		Type:      msgType,
		Timestamp: h.now(),
	}
	h.messages = append(h.messages, message)
	if len(h.messages) > h.max {
		h.messages = h.messages[len(h.messages)-h.max:]
	}
	onAlert := h.onAlert
	h.mu.Unlock()

	// Called outside the lock so the callback may read the handler.
	if onAlert != nil {
		onAlert(message)
	}
}

// GetLatest returns the most recent toast.
func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// Active returns the latest toast if it is younger than ttl.
func (h *TUIHandler) Active(ttl time.Duration) (Message, bool) {
	msg, ok := h.GetLatest()
	if !ok {
		return Message{}, false
	}
	if h.now().Sub(msg.Timestamp) > ttl {
		return Message{}, false
	}
	return msg, true
}

// Clear drops all stored toasts.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = make([]Message, 0)
}

// GetAll returns a copy of the stored toasts, oldest first.
func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
