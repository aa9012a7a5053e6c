package message

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medoffice/medoffice/internal/platform/apperr"
	"github.com/medoffice/medoffice/internal/platform/db"
)

type messageRepoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &messageRepoPG{pool: pool}
}

const messageCols = `id, sender_id, recipient_id, content, is_read, created_at`

func (r *messageRepoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO message (id, sender_id, recipient_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING is_read, created_at`,
		m.ID, m.SenderID, m.RecipientID, m.Content,
	).Scan(&m.Read, &m.CreatedAt)
	if _, ok := db.ForeignKeyViolation(err); ok {
		return apperr.NotFound("recipient")
	}
	if err != nil {
		return fmt.Errorf("message create: %w", err)
	}
	return nil
}

func (r *messageRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := scanMessage(db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+messageCols+` FROM message WHERE id = $1`, id))
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("message")
	}
	if err != nil {
		return nil, fmt.Errorf("message get by id: %w", err)
	}
	return m, nil
}

func (r *messageRepoPG) Conversation(ctx context.Context, a, b uuid.UUID) ([]*Message, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `SELECT `+messageCols+` FROM message
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at, id`, a, b)
	if err != nil {
		return nil, fmt.Errorf("message conversation: %w", err)
	}
	defer rows.Close()

	var items []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("message conversation: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *messageRepoPG) SetRead(ctx context.Context, id uuid.UUID, read bool) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE message SET is_read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return fmt.Errorf("message set read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("message")
	}
	return nil
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// directoryPG reads participants straight from app_user.
type directoryPG struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) Directory {
	return &directoryPG{pool: pool}
}

func (d *directoryPG) ByUsername(ctx context.Context, username string) (*Participant, error) {
	return d.one(ctx, `SELECT id, username, role FROM app_user WHERE username = $1`, username)
}

func (d *directoryPG) ByID(ctx context.Context, id uuid.UUID) (*Participant, error) {
	return d.one(ctx, `SELECT id, username, role FROM app_user WHERE id = $1`, id)
}

func (d *directoryPG) one(ctx context.Context, query string, arg interface{}) (*Participant, error) {
	var p Participant
	err := db.Conn(ctx, d.pool).QueryRow(ctx, query, arg).Scan(&p.ID, &p.Username, &p.Role)
	if db.IsNoRows(err) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	return &p, nil
}

func (d *directoryPG) All(ctx context.Context) ([]*Participant, error) {
	rows, err := db.Conn(ctx, d.pool).Query(ctx, `SELECT id, username, role FROM app_user ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()

	var items []*Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.Username, &p.Role); err != nil {
			return nil, fmt.Errorf("user list: %w", err)
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}
