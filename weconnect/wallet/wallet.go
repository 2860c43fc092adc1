// Package wallet tracks each user's diamond and earnings balance and
// handles withdrawals through the payment gateway.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/weconnect/server/internal/logger"
	"codeberg.org/weconnect/server/internal/payments"
)

type Service struct {
	db      *pgxpool.Pool
	gateway *payments.Client
}

func NewService(db *pgxpool.Pool, gateway *payments.Client) *Service {
	return &Service{db: db, gateway: gateway}
}

// returns the user's balance; users with no wallet row yet get a zero balance
func (s *Service) Balance(ctx context.Context, userID string) (*Balance, error) {
	var b Balance

	err := s.db.QueryRow(ctx, queryGetBalance, userID).Scan(&b.UserID, &b.Diamonds, &b.Earnings)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Balance{UserID: userID}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &b, nil
}

// adds diamonds and earnings to the user's balance and records a
// transaction, atomically
func (s *Service) Credit(ctx context.Context, userID string, diamonds int64, earnings float64, kind, reference string) (*Balance, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var b Balance
	err = tx.QueryRow(ctx, queryUpsertBalance, userID, diamonds, earnings).
		Scan(&b.UserID, &b.Diamonds, &b.Earnings)
	if err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	var t Transaction
	err = tx.QueryRow(ctx, queryInsertTransaction, userID, kind, earnings, reference, StatusCompleted).
		Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Reference, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit credit: %w", err)
	}

	return &b, nil
}

// Withdraw deducts earnings and pushes a transfer through the gateway.
// The deduction commits before the gateway call so a crash can never pay
// out unreserved funds; a gateway failure refunds the deduction.
func (s *Service) Withdraw(ctx context.Context, userID string, req *WithdrawRequest) (*Transaction, error) {
	if s.gateway == nil || !s.gateway.Enabled() {
		return nil, ErrWithdrawalsDisabled
	}

	reference := uuid.NewString()

	transaction, err := s.reserve(ctx, userID, req.Amount, reference)
	if err != nil {
		return nil, err
	}

	// amount is in major units; the gateway wants subunits
	_, err = s.gateway.InitiateTransfer(ctx, int64(req.Amount*100), req.Recipient, "wallet withdrawal", reference)
	if err != nil {
		s.refund(ctx, userID, req.Amount, reference)
		return nil, fmt.Errorf("gateway transfer failed: %w", err)
	}

	if err := s.markStatus(ctx, reference, userID, StatusCompleted); err != nil {
		// the money moved; log and report the completed withdrawal anyway
		logger.ErrorErr(err, "failed to mark withdrawal completed", "reference", reference)
	}

	transaction.Status = StatusCompleted

	return transaction, nil
}

// reserve deducts the amount and records a pending withdrawal in one
// database transaction, holding a row lock while checking funds
func (s *Service) reserve(ctx context.Context, userID string, amount float64, reference string) (*Transaction, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var b Balance
	err = tx.QueryRow(ctx, queryGetBalanceForUpdate, userID).Scan(&b.UserID, &b.Diamonds, &b.Earnings)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInsufficientFunds
	}

	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}

	if b.Earnings < amount {
		return nil, ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, queryDeductEarnings, userID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct earnings: %w", err)
	}

	var t Transaction
	err = tx.QueryRow(ctx, queryInsertTransaction, userID, KindWithdrawal, amount, reference, StatusPending).
		Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Reference, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal: %w", err)
	}

	return &t, nil
}

func (s *Service) refund(ctx context.Context, userID string, amount float64, reference string) {
	if _, err := s.db.Exec(ctx, queryUpsertBalance, userID, 0, amount); err != nil {
		logger.ErrorErr(err, "failed to refund withdrawal",
			"user_id", userID,
			"reference", reference,
		)
		return
	}

	if err := s.markStatus(ctx, reference, userID, StatusFailed); err != nil {
		logger.ErrorErr(err, "failed to mark withdrawal failed", "reference", reference)
	}
}

func (s *Service) markStatus(ctx context.Context, reference, userID, status string) error {
	_, err := s.db.Exec(ctx, queryUpdateTransactionStatus, reference, userID, status)
	return err
}

func (s *Service) Transactions(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.Query(ctx, queryListTransactions, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	defer rows.Close()

	transactions := make([]Transaction, 0)

	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Reference, &t.Status, &t.CreatedAt)
		if err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}
