package auth

import (
	"context"
	"database/sql"
)

var _ AccountStore = (*PGStore)(nil)

// PGStore implements AccountStore using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const accountColumns = `id, full_name, role, phone, avatar_url, is_active, created_at, updated_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (*Account, error) {
	var (
		a      Account
		phone  sql.NullString
		avatar sql.NullString
	)
	if err := row.Scan(&a.ID, &a.FullName, &a.Role, &phone, &avatar, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Phone = phone.String
	a.AvatarURL = avatar.String
	return &a, nil
}

func (s *PGStore) Find(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *PGStore) List(ctx context.Context) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+accountColumns+` from accounts order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Upsert re-asserts role and full name on conflict: the provider-side signup
// trigger may have already created the row with defaults, and the invite's
// intended values win.
func (s *PGStore) Upsert(ctx context.Context, account *Account) error {
	_, err := s.db.ExecContext(ctx,
		`insert into accounts(id, full_name, role, is_active) values($1,$2,$3,$4)
		 on conflict (id) do update
		 set full_name = excluded.full_name, role = excluded.role, updated_at = now()`,
		account.ID, account.FullName, account.Role, account.Active,
	)
	return err
}

func (s *PGStore) UpdateProfile(ctx context.Context, id string, patch ProfileUpdate) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`update accounts
		 set full_name  = coalesce($2, full_name),
		     phone      = coalesce($3, phone),
		     avatar_url = coalesce($4, avatar_url),
		     updated_at = now()
		 where id=$1
		 returning `+accountColumns,
		id, patch.FullName, patch.Phone, patch.AvatarURL,
	)
	return scanAccount(row)
}

func (s *PGStore) UpdateRole(ctx context.Context, id string, role Role) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`update accounts set role=$2, updated_at=now() where id=$1 returning `+accountColumns,
		id, role,
	)
	return scanAccount(row)
}

func (s *PGStore) SetActive(ctx context.Context, id string, active bool) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`update accounts set is_active=$2, updated_at=now() where id=$1 returning `+accountColumns,
		id, active,
	)
	return scanAccount(row)
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from accounts where id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
