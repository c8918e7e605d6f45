package chat

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/PetBoardingService/internal/domain"
	"github.com/m04kA/PetBoardingService/pkg/dbmetrics"
	"github.com/m04kA/PetBoardingService/pkg/psqlbuilder"
)

// Repository диалоги поддержки и сообщения
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOpenByUser открытый диалог пользователя
func (r *Repository) GetOpenByUser(ctx context.Context, userID int64) (*domain.ChatConversation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_id", "status", "last_message_at", "created_at").
		From("chat_conversations").
		Where(squirrel.Eq{"user_id": userID, "status": domain.ChatOpen}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenByUser - build select query: %v", ErrBuildQuery, err)
	}

	var (
		c           domain.ChatConversation
		lastMessage sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.UserID, &c.Status, &lastMessage, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpenByUser - scan conversation: %v", ErrScanRow, err)
	}
	if lastMessage.Valid {
		c.LastMessageAt = &lastMessage.Time
	}
	return &c, nil
}

// CreateConversation открывает новый диалог.
// Повторный вызов возвращает уже открытый диалог (уникальный индекс по user_id).
func (r *Repository) CreateConversation(ctx context.Context, userID int64) (*domain.ChatConversation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chat_conversations").
		Columns("user_id", "status").
		Values(userID, domain.ChatOpen).
		Suffix("ON CONFLICT (user_id) WHERE status = 'open' DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateConversation - build insert query: %v", ErrBuildQuery, err)
	}

	c := domain.ChatConversation{UserID: userID, Status: domain.ChatOpen}
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return r.GetOpenByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: CreateConversation - execute insert: %v", ErrExecQuery, err)
	}
	return &c, nil
}

// AddMessage добавляет сообщение и сдвигает last_message_at диалога
func (r *Repository) AddMessage(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chat_messages").
		Columns("conversation_id", "sender_id", "sender_role", "body").
		Values(m.ConversationID, m.SenderID, m.SenderRole, m.Body).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddMessage - build insert query: %v", ErrBuildQuery, err)
	}
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: AddMessage - execute insert: %v", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Update("chat_conversations").
		Set("last_message_at", m.CreatedAt).
		Where(squirrel.Eq{"id": m.ConversationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: AddMessage - build update query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: AddMessage - touch conversation: %v", ErrExecQuery, err)
	}

	return m, nil
}

// ListMessages сообщения диалога в хронологическом порядке
func (r *Repository) ListMessages(ctx context.Context, conversationID int64, limit int) ([]domain.ChatMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "conversation_id", "sender_id", "sender_role", "body", "created_at").
		From("chat_messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.SenderRole, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListMessages - scan message: %v", ErrScanRow, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMessages - rows error: %v", ErrScanRow, err)
	}
	return messages, nil
}
