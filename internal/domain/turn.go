package domain

// Turn is one message exchange unit in a conversation. Turns are immutable
// once stored and ordered by CreatedAt within their conversation.
type Turn struct {
	ID             TurnID
	UserID         UserID
	ConversationID ConversationID
	Role           Role
	Text           string
	CreatedAt      Timestamp
}

// ConversationSummary is one entry of a user's conversation picker: the
// conversation id, a short label derived from its first user turn, and the
// timestamp of its most recent activity.
type ConversationSummary struct {
	ID           ConversationID
	Label        string
	LastActivity Timestamp
}

// LabelMaxLen bounds the conversation label preview, in runes.
const LabelMaxLen = 40

// Label derives a conversation label from the first user turn's text,
// truncated to LabelMaxLen runes with an ellipsis when longer.
func Label(firstUserText string) string {
	runes := []rune(firstUserText)
	if len(runes) <= LabelMaxLen {
		return firstUserText
	}
	return string(runes[:LabelMaxLen]) + "…"
}
