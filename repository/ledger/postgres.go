// repository/ledger/postgres.go
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FuseKota/omen-manage/model"
)

type postgresRepo struct {
	db *sql.DB
}

// NewPostgres returns the production ledger backed by the rentals and
// sales tables. rental_no carries a UNIQUE constraint; the allocation
// race surfaces as ErrDuplicateNumber instead of a silent double-assign.
func NewPostgres(db *sql.DB) Repo { return &postgresRepo{db: db} }

func (r *postgresRepo) AppendRental(ctx context.Context, rec *model.RentalRecord) error {
	const q = `
		INSERT INTO rentals
			(rental_no, customer_name, item_name, category, deposit, start_time, staff, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q,
		rec.RentalNo, rec.CustomerName, rec.ItemName, string(rec.Category),
		rec.Deposit, rec.StartTime, rec.Staff, rec.Note,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *postgresRepo) MaxRentalNumber(ctx context.Context) (int64, error) {
	const q = `SELECT COALESCE(MAX(rental_no), 0) FROM rentals`
	var max int64
	err := r.db.QueryRowContext(ctx, q).Scan(&max)
	return max, err
}

const rentalColumns = `
	rental_no, customer_name, item_name, category, deposit, start_time,
	end_time, used_minutes, plan, fee, refund, returnable, staff, note`

func (r *postgresRepo) FindOpenByNumber(ctx context.Context, no int64) (*model.RentalRecord, error) {
	const q = `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE rental_no = $1`
	rec, err := scanRental(r.db.QueryRowContext(ctx, q, no))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !rec.Open() {
		return nil, ErrAlreadyClosed
	}
	return rec, nil
}

func (r *postgresRepo) FindOpenByName(ctx context.Context, substr string) ([]model.RentalRecord, error) {
	// position() sidesteps LIKE wildcard escaping; match is case-sensitive.
	const q = `
		SELECT ` + rentalColumns + `
		FROM rentals
		WHERE end_time IS NULL
		AND position($1 in customer_name) > 0
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, substr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RentalRecord
	for rows.Next() {
		rec, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *postgresRepo) CloseRental(ctx context.Context, no int64, endTime time.Time, usedMinutes int, plan string, fee, refund int, returnable model.Returnable) error {
	// The end_time IS NULL guard is what keeps a double return from both
	// succeeding; the loser falls through to the existence check below.
	const q = `
		UPDATE rentals
		SET end_time = $2,
			used_minutes = $3,
			plan = $4,
			fee = $5,
			refund = $6,
			returnable = $7
		WHERE rental_no = $1
		AND end_time IS NULL`
	res, err := r.db.ExecContext(ctx, q, no, endTime, usedMinutes, plan, fee, refund, string(returnable))
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff > 0 {
		return nil
	}

	const exists = `SELECT EXISTS (SELECT 1 FROM rentals WHERE rental_no = $1)`
	var found bool
	if err := r.db.QueryRowContext(ctx, exists, no).Scan(&found); err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return ErrAlreadyClosed
}

func (r *postgresRepo) AppendSales(ctx context.Context, rows []SaleRow) error {
	const q = `
		INSERT INTO sales
			(sold_date, sold_time, category, product_name, quantity, unit_price, subtotal, staff, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, s := range rows {
		if _, err = tx.ExecContext(ctx, q,
			s.Date, s.Time, string(s.Category), s.ProductName,
			s.Quantity, s.UnitPrice, s.Subtotal, s.Staff, s.Note,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRental(row rowScanner) (*model.RentalRecord, error) {
	var (
		rec         model.RentalRecord
		category    string
		endTime     sql.NullTime
		usedMinutes sql.NullInt64
		plan        sql.NullString
		fee, refund sql.NullInt64
		returnable  sql.NullString
	)
	err := row.Scan(
		&rec.RentalNo, &rec.CustomerName, &rec.ItemName, &category,
		&rec.Deposit, &rec.StartTime,
		&endTime, &usedMinutes, &plan, &fee, &refund, &returnable,
		&rec.Staff, &rec.Note,
	)
	if err != nil {
		return nil, err
	}
	rec.Category = model.Category(category)
	if endTime.Valid {
		t := endTime.Time
		rec.EndTime = &t
	}
	if usedMinutes.Valid {
		m := int(usedMinutes.Int64)
		rec.UsedMinutes = &m
	}
	if plan.Valid && plan.String != "" {
		p := model.Plan(plan.String)
		rec.Plan = &p
	}
	if fee.Valid {
		f := int(fee.Int64)
		rec.Fee = &f
	}
	if refund.Valid {
		rf := int(refund.Int64)
		rec.Refund = &rf
	}
	if returnable.Valid {
		rec.Returnable = model.Returnable(returnable.String)
	}
	return &rec, nil
}
