package memberships

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcotuliovd/betimfc-v0/internal/auth"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Subscribe records the membership and moves the profile to the new tier in
// one transaction.
func (r *Repo) Subscribe(ctx context.Context, m membership.Membership) (membership.Membership, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return membership.Membership{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx, `
		UPDATE user_profiles SET membership_type=$1, updated_at=NOW() WHERE id=$2
	`, string(m.Plan), m.UserID)
	if err != nil {
		return membership.Membership{}, err
	}
	if ct.RowsAffected() == 0 {
		return membership.Membership{}, auth.ErrUserNotFound
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO memberships (user_id, plan_type, price, start_date, end_date, status, payment_method)
		VALUES ($1,$2,$3::numeric,$4,$5,$6,$7)
		RETURNING id, created_at
	`, m.UserID, string(m.Plan), m.Price.StringFixed(2), m.StartDate, m.EndDate, string(m.Status), m.PaymentMethod,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return membership.Membership{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return membership.Membership{}, err
	}
	return m, nil
}
