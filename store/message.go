package store

type MessageRole string

const (
	MessageRoleUser      MessageRole = "USER"
	MessageRoleAssistant MessageRole = "ASSISTANT"
)

// AssistantMessage is one persisted turn record of a conversation.
// ProductIDs carries the up-to-three products attached for display; Action
// is the raw action token emitted for the turn, empty when none.
type AssistantMessage struct {
	ID         int32
	UID        string
	SessionUID string
	Role       MessageRole
	Content    string
	ProductIDs []int32
	Action     string
	CreatedTs  int64
}

type FindAssistantMessage struct {
	ID         *int32
	UID        *string
	SessionUID *string
}

type DeleteAssistantMessage struct {
	ID         *int32
	SessionUID *string
}
