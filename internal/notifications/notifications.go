package notifications

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/weconnect/server/internal/logger"
)

type Service struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Notification, error) {
	var n Notification

	err := s.db.QueryRow(
		ctx,
		queryCreate,
		req.UserID,
		req.Type,
		req.Title,
		req.Body,
	).Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&n.Body,
		&n.Read,
		&n.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return &n, nil
}

// best-effort variant for notifications raised while handling another
// failure; a broken notification insert must never mask the original error
func (s *Service) Notify(ctx context.Context, userID, notifType, title, body string) {
	_, err := s.Create(ctx, &CreateRequest{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	})

	if err != nil {
		logger.ErrorErr(err, "failed to create notification",
			"user_id", userID,
			"type", notifType,
		)
	}
}

func (s *Service) ListForUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := queryListForUser
	if unreadOnly {
		query = queryListUnreadForUser
	}

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	defer rows.Close()

	notifications := make([]Notification, 0)

	for rows.Next() {
		var n Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Title,
			&n.Body,
			&n.Read,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, notificationID, userID string) error {
	_, err := s.db.Exec(ctx, queryMarkRead, notificationID, userID)
	return err
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, queryMarkAllRead, userID)
	return err
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, queryUnreadCount, userID).Scan(&count)
	return count, err
}
