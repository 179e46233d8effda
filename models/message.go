package models

import "time"

// SenderType identifies who authored a message.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderStaff    SenderType = "staff"
	SenderSystem   SenderType = "system"
)

// Message is a single chat message. Messages are immutable and ordered by CreatedAt.
type Message struct {
	ID             string     `bson:"id" json:"id"`
	ConversationID string     `bson:"conversation_id" json:"conversationId"`
	SenderType     SenderType `bson:"sender_type" json:"senderType"`
	Text           string     `bson:"text" json:"text"`
	CreatedAt      time.Time  `bson:"created_at" json:"createdAt"`
}

// Conversation groups messages from one customer on one channel.
type Conversation struct {
	ID              string `bson:"id" json:"id"`
	ChannelType     string `bson:"channel_type" json:"channelType"`
	CustomerRef     string `bson:"customer_ref" json:"customerRef"`
	LastMessageText string `bson:"last_message_text" json:"lastMessageText"`
}
