package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/voicecart/voicecart/store"
)

func (d *DB) CreateProduct(ctx context.Context, create *store.Product) (*store.Product, error) {
	fields := []string{"name", "description", "category", "price", "discount", "rating", "reviews", "stock", "image_url"}
	args := []any{create.Name, create.Description, create.Category, create.Price, discountValue(create.Discount), create.Rating, create.Reviews, create.Stock, create.ImageURL}

	stmt := `INSERT INTO product (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return create, nil
}

func (d *DB) ListProducts(ctx context.Context, find *store.FindProduct) ([]*store.Product, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Category != nil {
		where, args = append(where, "LOWER(category) = LOWER("+placeholder(len(args)+1)+")"), append(args, *find.Category)
	}
	if find.Term != nil {
		pattern := "%" + strings.ToLower(*find.Term) + "%"
		where = append(where, "(LOWER(name) LIKE "+placeholder(len(args)+1)+" OR LOWER(description) LIKE "+placeholder(len(args)+2)+" OR LOWER(category) LIKE "+placeholder(len(args)+3)+")")
		args = append(args, pattern, pattern, pattern)
	}
	if find.Discounted != nil && *find.Discounted {
		where = append(where, "discount IS NOT NULL")
	}

	query := `SELECT id, name, description, category, price, discount, rating, reviews, stock, image_url, created_ts
		FROM product WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Product, 0)
	for rows.Next() {
		product := &store.Product{}
		var discount sql.NullInt32
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Category,
			&product.Price,
			&discount,
			&product.Rating,
			&product.Reviews,
			&product.Stock,
			&product.ImageURL,
			&product.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if discount.Valid {
			value := discount.Int32
			product.Discount = &value
		}
		list = append(list, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateProduct(ctx context.Context, update *store.UpdateProduct) error {
	set, args := []string{}, []any{}

	if update.Price != nil {
		set, args = append(set, "price = "+placeholder(len(args)+1)), append(args, *update.Price)
	}
	if update.Discount != nil {
		set, args = append(set, "discount = "+placeholder(len(args)+1)), append(args, *update.Discount)
	}
	if update.Stock != nil {
		set, args = append(set, "stock = "+placeholder(len(args)+1)), append(args, *update.Stock)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE product SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (d *DB) DeleteProduct(ctx context.Context, delete *store.DeleteProduct) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM product WHERE id = ?", delete.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func discountValue(discount *int32) any {
	if discount == nil {
		return nil
	}
	return *discount
}
