package domain

import "time"

type UserID string
type ConversationID string
type TurnID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Timestamp = time.Time
