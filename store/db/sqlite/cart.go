package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/voicecart/voicecart/store"
)

func (d *DB) UpsertCartItem(ctx context.Context, upsert *store.UpsertCartItem) (*store.CartItem, error) {
	stmt := `INSERT INTO cart_item (session_uid, product_id, quantity)
		VALUES (?, ?, 1)
		ON CONFLICT (session_uid, product_id) DO UPDATE SET quantity = cart_item.quantity + 1
		RETURNING id, session_uid, product_id, quantity, created_ts`

	item := &store.CartItem{}
	if err := d.db.QueryRowContext(ctx, stmt, upsert.SessionUID, upsert.ProductID).Scan(
		&item.ID,
		&item.SessionUID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return item, nil
}

func (d *DB) ListCartItems(ctx context.Context, find *store.FindCartItem) ([]*store.CartItem, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.SessionUID != nil {
		where, args = append(where, "session_uid = "+placeholder(len(args)+1)), append(args, *find.SessionUID)
	}
	if find.ProductID != nil {
		where, args = append(where, "product_id = "+placeholder(len(args)+1)), append(args, *find.ProductID)
	}

	query := `SELECT id, session_uid, product_id, quantity, created_ts
		FROM cart_item WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CartItem, 0)
	for rows.Next() {
		item := &store.CartItem{}
		if err := rows.Scan(&item.ID, &item.SessionUID, &item.ProductID, &item.Quantity, &item.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		list = append(list, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateCartItem(ctx context.Context, update *store.UpdateCartItem) error {
	stmt := `UPDATE cart_item SET quantity = ? WHERE session_uid = ? AND product_id = ?`
	if _, err := d.db.ExecContext(ctx, stmt, update.Quantity, update.SessionUID, update.ProductID); err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (d *DB) DeleteCartItem(ctx context.Context, delete *store.DeleteCartItem) error {
	where, args := []string{"session_uid = ?"}, []any{delete.SessionUID}

	if delete.ProductID != nil {
		where, args = append(where, "product_id = ?"), append(args, *delete.ProductID)
	}

	stmt := `DELETE FROM cart_item WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}
