package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marcotuliovd/betimfc-v0/internal/domain/membership"
	"github.com/marcotuliovd/betimfc-v0/internal/domain/user"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

const uniqueViolation = "23505"

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_profiles (id, email, name, phone, cpf, birth_date, password_hash, membership_type, receive_news)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,NULLIF($7,''),$8,$9)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Name, u.Phone, u.CPF, u.BirthDate, u.PasswordHash, string(u.MembershipType), u.ReceiveNews,
	).Scan(&u.CreatedAt, &u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return user.User{}, ErrEmailTaken
	}
	return u, err
}

const selectUser = `
	SELECT id, email, name, COALESCE(phone,''), COALESCE(cpf,''), birth_date,
	       COALESCE(password_hash,''), membership_type, receive_news, created_at, updated_at
	FROM user_profiles
`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+" WHERE email=$1", email))
}

func (r *UserRepo) ByID(ctx context.Context, id string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUser+" WHERE id=$1", id))
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var tier string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.CPF, &u.BirthDate,
		&u.PasswordHash, &tier, &u.ReceiveNews, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	u.MembershipType = membership.Parse(tier)
	return u, nil
}

// ActiveMembership returns the most recent active, unexpired membership, or
// nil when the user has none.
func (r *UserRepo) ActiveMembership(ctx context.Context, userID string) (*membership.Membership, error) {
	var (
		m    membership.Membership
		plan string
		stat string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, plan_type, price, start_date, end_date, status, COALESCE(payment_method,''), created_at
		FROM memberships
		WHERE user_id=$1 AND status='active' AND end_date > NOW()
		ORDER BY end_date DESC
		LIMIT 1
	`, userID).Scan(&m.ID, &m.UserID, &plan, &m.Price, &m.StartDate, &m.EndDate, &stat, &m.PaymentMethod, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Plan = membership.Parse(plan)
	m.Status = membership.Status(stat)
	return &m, nil
}
