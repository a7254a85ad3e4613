package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voicecart/voicecart/store"
)

func (d *DB) CreateAssistantMessage(ctx context.Context, create *store.AssistantMessage) (*store.AssistantMessage, error) {
	productIDs, err := json.Marshal(create.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product ids: %w", err)
	}

	fields := []string{"uid", "session_uid", "role", "content", "product_ids", "action"}
	args := []any{create.UID, create.SessionUID, string(create.Role), create.Content, string(productIDs), create.Action}

	stmt := `INSERT INTO assistant_message (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create assistant message: %w", err)
	}

	return create, nil
}

func (d *DB) ListAssistantMessages(ctx context.Context, find *store.FindAssistantMessage) ([]*store.AssistantMessage, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.SessionUID != nil {
		where, args = append(where, "session_uid = "+placeholder(len(args)+1)), append(args, *find.SessionUID)
	}

	query := `SELECT id, uid, session_uid, role, content, product_ids, action, created_ts
		FROM assistant_message WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistant messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.AssistantMessage, 0)
	for rows.Next() {
		message := &store.AssistantMessage{}
		var role, productIDs string
		if err := rows.Scan(
			&message.ID,
			&message.UID,
			&message.SessionUID,
			&role,
			&message.Content,
			&productIDs,
			&message.Action,
			&message.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assistant message: %w", err)
		}
		message.Role = store.MessageRole(role)
		if err := json.Unmarshal([]byte(productIDs), &message.ProductIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product ids: %w", err)
		}
		list = append(list, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assistant messages: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteAssistantMessage(ctx context.Context, delete *store.DeleteAssistantMessage) error {
	where, args := []string{"1 = 1"}, []any{}

	if delete.ID != nil {
		where, args = append(where, "id = ?"), append(args, *delete.ID)
	}
	if delete.SessionUID != nil {
		where, args = append(where, "session_uid = ?"), append(args, *delete.SessionUID)
	}

	stmt := `DELETE FROM assistant_message WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to delete assistant message: %w", err)
	}
	return nil
}
