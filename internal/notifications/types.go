package notifications

import "time"

// notification type constants
const (
	TypeFetchFailed  = "fetch_failed"
	TypeDeleteFailed = "delete_failed"
	TypeExportEmpty  = "export_empty"
	TypeWithdrawal   = "withdrawal"
	TypeReward       = "reward"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRequest struct {
	UserID string
	Type   string
	Title  string
	Body   string
}
