package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	goGate "github.com/MrEthical07/goGate"
)

// DefaultQuery is the lookup statement used by [NewPrincipalProvider].
// It expects the conventional users table; deployments with a different
// schema supply their own statement via
// [NewPrincipalProviderWithQuery]. The statement takes one parameter,
// the email, and must yield columns id, name, email, password in that
// order.
const DefaultQuery = `SELECT id, name, email, password FROM users WHERE email = $1`

// Querier is the slice of pgx this package needs. Both *pgxpool.Pool
// and a single *pgx.Conn satisfy it, as do pgxmock pools in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PrincipalProvider reads principals from PostgreSQL.
type PrincipalProvider struct {
	db    Querier
	query string
}

// NewPrincipalProvider returns a provider using [DefaultQuery].
func NewPrincipalProvider(db Querier) *PrincipalProvider {
	return NewPrincipalProviderWithQuery(db, DefaultQuery)
}

// NewPrincipalProviderWithQuery returns a provider with a custom lookup
// statement.
func NewPrincipalProviderWithQuery(db Querier, query string) *PrincipalProvider {
	return &PrincipalProvider{
		db:    db,
		query: query,
	}
}

// GetByEmail fetches the single principal stored under email.
//
// Zero rows return [goGate.ErrPrincipalNotFound]. More than one row
// returns [goGate.ErrDuplicatePrincipal] without scanning further: the
// table's uniqueness invariant is broken and no row can be trusted.
// Transport failures are wrapped with [goGate.ErrLookup].
func (p *PrincipalProvider) GetByEmail(ctx context.Context, email string) (*goGate.Principal, error) {
	rows, err := p.db.Query(ctx, p.query, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", goGate.ErrLookup, err)
	}
	defer rows.Close()

	var principal *goGate.Principal
	for rows.Next() {
		if principal != nil {
			return nil, fmt.Errorf("%w: email %q", goGate.ErrDuplicatePrincipal, email)
		}

		var (
			id, rowEmail, secretHash string
			name                     pgtype.Text
		)
		if err := rows.Scan(&id, &name, &rowEmail, &secretHash); err != nil {
			return nil, fmt.Errorf("%w: %v", goGate.ErrLookup, err)
		}

		principal = &goGate.Principal{
			ID:         id,
			Email:      rowEmail,
			Name:       name.String,
			SecretHash: secretHash,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", goGate.ErrLookup, err)
	}

	if principal == nil {
		return nil, goGate.ErrPrincipalNotFound
	}

	return principal, nil
}
