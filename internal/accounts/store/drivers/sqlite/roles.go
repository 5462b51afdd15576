package sqlite

import (
	"context"

	"github.com/marinoscar/accountd/internal/accounts/domain"
)

type rolesRepo struct {
	db dbtx
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM roles WHERE id = ?`, id,
	).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM roles WHERE name = ?`, name,
	).Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return role, nil
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoles(rows)
}

func (r *rolesRepo) ListRolesForAccount(ctx context.Context, accountID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN role_assignments ra ON ra.role_id = r.id
		WHERE ra.account_id = ?
		ORDER BY r.name ASC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRoles(rows)
}

func (r *rolesRepo) ListPermissionsForAccount(ctx context.Context, accountID string) ([]string, error) {
	// DISTINCT gives the union semantics: duplicates across roles collapse.
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN role_assignments ra ON ra.role_id = rp.role_id
		WHERE ra.account_id = ?
		ORDER BY p.name ASC`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (r *rolesRepo) ListPermissionsForRole(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = ?
		ORDER BY p.name ASC`,
		roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStrings(rows)
}

func (r *rolesRepo) AssignRole(ctx context.Context, accountID, roleID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_assignments (account_id, role_id) VALUES (?, ?)`,
		accountID, roleID,
	)
	return mapConflict(err)
}

func (r *rolesRepo) UnassignRole(ctx context.Context, accountID, roleID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM role_assignments WHERE account_id = ? AND role_id = ?`,
		accountID, roleID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

type rowScanner interface {
	Next() bool
	Scan(...any) error
	Err() error
}

func collectRoles(rows rowScanner) ([]domain.Role, error) {
	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func collectStrings(rows rowScanner) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
