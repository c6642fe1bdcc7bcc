package domain

// Message is the role-tagged unit sent to the completion API.
type Message struct {
	Role    Role
	Content string
}
