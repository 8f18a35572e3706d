package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message of a tutor transcript.
type ChatTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Subject   Subject   `json:"subject,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
}

// AiConversation holds the whole transcript for one subject. It is
// overwritten on every turn.
type AiConversation struct {
	ID        uint           `gorm:"primaryKey" json:"-"`
	UserID    string         `gorm:"size:128;not null;uniqueIndex:idx_conversation_subject" json:"user_id"`
	Subject   Subject        `gorm:"size:32;not null;uniqueIndex:idx_conversation_subject" json:"subject"`
	Messages  datatypes.JSON `json:"messages"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AiConversation) TableName() string {
	return "ai_conversations"
}

// Turns decodes the stored transcript. An empty column is an empty transcript.
func (c *AiConversation) Turns() ([]ChatTurn, error) {
	if len(c.Messages) == 0 {
		return []ChatTurn{}, nil
	}
	var turns []ChatTurn
	if err := json.Unmarshal(c.Messages, &turns); err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []ChatTurn{}
	}
	return turns, nil
}

// SetTurns encodes turns into the Messages column.
func (c *AiConversation) SetTurns(turns []ChatTurn) error {
	if turns == nil {
		turns = []ChatTurn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	c.Messages = datatypes.JSON(data)
	return nil
}
