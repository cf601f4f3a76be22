package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const uniqueViolation = "23505"

var _ port.ProductsRepository = (*ProductsRepository)(nil)

// ProductsRepository stores each product as a JSONB document next to the
// columns it is filtered by. seq keeps insertion order.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) ListProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "ProductsRepository.ListProducts"

	query, args := listQuery(q)
	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ps := []domain.Product{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p, err := unmarshalProduct(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// likeEscaper makes a search term match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func listQuery(q domain.ProductQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Category != "" {
		where = append(where, "category = "+arg(string(q.Category)))
	}
	if q.Trending {
		where = append(where, "is_trending")
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		n := arg("%" + likeEscaper.Replace(s) + "%")
		where = append(where, fmt.Sprintf(
			`(name ILIKE %[1]s ESCAPE '\' OR description ILIKE %[1]s ESCAPE '\' OR EXISTS (`+
				`SELECT 1 FROM jsonb_array_elements_text(data->'tags') AS tag `+
				`WHERE tag ILIKE %[1]s ESCAPE '\'))`, n,
		))
	}

	var b strings.Builder
	b.WriteString("SELECT data FROM products")
	if len(where) != 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY seq")
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + arg(q.Limit))
	}
	return b.String(), args
}

func (r ProductsRepository) ReadProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductsRepository.ReadProduct"

	query := `SELECT data FROM products WHERE id = $1;`

	var data []byte
	err := r.sqldb.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %q: %w", op, id, port.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := unmarshalProduct(data)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r ProductsRepository) CreateProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "ProductsRepository.CreateProduct"

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (
			id, category, subcategory, is_trending, name, description, data
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`

	_, err = r.sqldb.ExecContext(ctx, query,
		p.ID, string(p.Category), p.Subcategory, p.IsTrending,
		p.Name, p.Description, data,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %q: %w", op, p.ID, port.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r ProductsRepository) UpdateProduct(
	ctx context.Context, p domain.Product,
) error {
	const op = "ProductsRepository.UpdateProduct"

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE products SET
			category = $2,
			subcategory = $3,
			is_trending = $4,
			name = $5,
			description = $6,
			data = $7,
			updated_at = now()
		WHERE id = $1;`

	res, err := r.sqldb.ExecContext(ctx, query,
		p.ID, string(p.Category), p.Subcategory, p.IsTrending,
		p.Name, p.Description, data,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOne(res, op, p.ID)
}

func (r ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductsRepository.DeleteProduct"

	res, err := r.sqldb.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affectedOne(res, op, id)
}

// UpdateStock rewrites one variant's stock under a row lock.
func (r ProductsRepository) UpdateStock(
	ctx context.Context, productID string, su domain.StockUpdate,
) (p domain.Product, updateErr error) {
	const op = "ProductsRepository.UpdateStock"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if updateErr == nil {
			if err := tx.Commit(); err != nil {
				p = domain.Product{}
				updateErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	var data []byte
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM products WHERE id = $1 FOR UPDATE;`, productID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %q: %w", op, productID, port.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err = unmarshalProduct(data)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	i := slices.IndexFunc(p.Variants, func(v domain.ProductVariant) bool {
		return v.ID == su.VariantID
	})
	if i < 0 {
		return domain.Product{}, fmt.Errorf(
			"%s: variant %q: %w", op, su.VariantID, port.ErrNotFound,
		)
	}
	p.Variants[i].Stock = su.Stock

	if data, err = json.Marshal(p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE products SET data = $2, updated_at = now() WHERE id = $1;`,
		productID, data,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func affectedOne(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %q: %w", op, id, port.ErrNotFound)
	}
	return nil
}

func unmarshalProduct(data []byte) (domain.Product, error) {
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
