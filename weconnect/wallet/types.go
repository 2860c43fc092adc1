package wallet

import (
	"errors"
	"time"
)

var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrWithdrawalsDisabled = errors.New("withdrawals are not enabled")
)

// transaction kinds
const (
	KindDeposit    = "deposit"
	KindWithdrawal = "withdrawal"
	KindReward     = "reward"
)

// transaction statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Balance struct {
	UserID   string  `json:"user_id"`
	Diamonds int64   `json:"diamonds"`
	Earnings float64 `json:"earnings"`
}

type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	Amount    float64   `json:"amount"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type WithdrawRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Recipient string  `json:"recipient" binding:"required"`
}
