package dto

import "encoding/json"

// Inbound frame types (client to server).
const (
	FrameSendMessage = "send_message"
	FrameGetMessages = "get_messages"
	FrameGetUsers    = "get_users"
)

// Outbound event types (server to client).
const (
	EventChatMessage    = "chat_message"
	EventMessageHistory = "message_history"
	EventUsers          = "users"
	EventConversations  = "past_conversations"
	EventMessageDeleted = "message_deleted"
	EventError          = "error"
)

// ClientFrame is the envelope for everything a client sends over the socket.
type ClientFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerEvent is the envelope for everything the server pushes.
type ServerEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type SendMessagePayload struct {
	Text      string                   `json:"text"`
	Recipient string                   `json:"recipient"`
	Media     []MediaAttachmentPayload `json:"media"`
}

// HistoryRequestPayload asks for one conversation. An empty peer means the
// broadcast channel.
type HistoryRequestPayload struct {
	Peer string `json:"peer"`
}

type HistoryPayload struct {
	Peer     string            `json:"peer"`
	Messages []MessageResponse `json:"messages"`
}

type MessageDeletedPayload struct {
	Id string `json:"id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
