package models

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of an assistant conversation kept in the local store
type ChatMessage struct {
	ID        int64  `json:"id"`
	StudentID int    `json:"student_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
