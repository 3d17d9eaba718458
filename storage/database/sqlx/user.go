// Package sqlxrepos implements the core repositories on PostgreSQL
// through sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           int      `db:"id"`
	FirstName    string   `db:"nombre"`
	LastName     string   `db:"apellido"`
	Document     string   `db:"documento"`
	Email        string   `db:"email"`
	PasswordHash []byte   `db:"contrasena"`
	IsActive     bool     `db:"activo"`
	RoleID       null.Int `db:"rol_id"`
}

func (r userRow) toModel() user.User {
	active := r.IsActive
	usr := user.User{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Document:     r.Document,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsActive:     &active,
	}
	if r.RoleID.Valid {
		id := r.RoleID.Int
		usr.RoleID = &id
	}
	return usr
}

const userColumns = "id, nombre, apellido, documento, email, contrasena, activo, rol_id"

func (repo *userRepository) CheckUserUniqueness(ctx context.Context, document, email string, excludedUsers ...user.User) error {
	exclIDs := make([]int, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}
	// a zero-valued id can never match a stored row
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		"SELECT documento, email FROM usuario WHERE (documento = ? OR lower(email) = lower(?)) AND id NOT IN (?)",
		document, email, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var rows []struct {
		Document string `db:"documento"`
		Email    string `db:"email"`
	}
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, row := range rows {
		if document != "" && row.Document == document {
			return user.ErrDocumentExists
		}
		if email != "" && strings.EqualFold(row.Email, email) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	var roleID null.Int
	if usr.RoleID != nil {
		roleID = null.IntFrom(*usr.RoleID)
	}
	active := usr.IsActive == nil || *usr.IsActive

	err := repo.db.QueryRowxContext(ctx,
		`INSERT INTO usuario (nombre, apellido, documento, email, contrasena, activo, rol_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		usr.FirstName, usr.LastName, usr.Document, usr.Email, usr.PasswordHash, active, roleID,
	).Scan(&usr.ID)
	if err != nil {
		return user.User{}, wrapUserConstraint(err)
	}
	usr.IsActive = &active
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM usuario ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+userColumns+" FROM usuario WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toModel(), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, "SELECT "+userColumns+" FROM usuario WHERE lower(email) = lower($1)", email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user by email")
	}
	return row.toModel(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}
	// only save set fields
	if usr.FirstName == "" {
		usr.FirstName = orig.FirstName
	}
	if usr.LastName == "" {
		usr.LastName = orig.LastName
	}
	if usr.Email == "" {
		usr.Email = orig.Email
	}
	if usr.PasswordHash == nil {
		usr.PasswordHash = orig.PasswordHash
	}
	if usr.RoleID == nil {
		usr.RoleID = orig.RoleID
	}
	if isActive == nil {
		isActive = orig.IsActive
	}

	var roleID null.Int
	if usr.RoleID != nil {
		roleID = null.IntFrom(*usr.RoleID)
	}
	_, err = repo.db.ExecContext(ctx,
		`UPDATE usuario SET nombre = $1, apellido = $2, email = $3, contrasena = $4, activo = $5, rol_id = $6
		 WHERE id = $7`,
		usr.FirstName, usr.LastName, usr.Email, usr.PasswordHash, isActive, roleID, usr.ID,
	)
	if err != nil {
		return user.User{}, wrapUserConstraint(err)
	}
	usr.Document = orig.Document
	usr.IsActive = isActive
	return usr, nil
}

func (repo *userRepository) DeleteUser(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM usuario WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo *userRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM usuario"); err != nil {
		return 0, errors.Wrap(err, "counting users")
	}
	return count, nil
}

func (repo *userRepository) CountUsersByRole(ctx context.Context, roleID int) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM usuario WHERE rol_id = $1", roleID); err != nil {
		return 0, errors.Wrap(err, "counting role users")
	}
	return count, nil
}

// roles

type roleRow struct {
	ID       int    `db:"id"`
	Name     string `db:"nombre"`
	IsActive bool   `db:"activo"`
}

func (r roleRow) toModel() user.Role {
	active := r.IsActive
	return user.Role{ID: r.ID, Name: r.Name, IsActive: &active}
}

func (repo *userRepository) loadRolePermissions(ctx context.Context, roles []user.Role) error {
	if len(roles) == 0 {
		return nil
	}
	roleIDs := make([]int, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID)
	}

	query, args, err := sqlx.In(
		`SELECT rp.rol_id, p.id, p.nombre FROM rol_permiso rp
		 JOIN permiso p ON p.id = rp.permiso_id
		 WHERE rp.rol_id IN (?) ORDER BY p.id`, roleIDs)
	if err != nil {
		return errors.Wrap(err, "building permissions query")
	}

	rows, err := repo.db.QueryxContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, "querying role permissions")
	}
	defer func() { _ = rows.Close() }()

	byRole := make(map[int][]user.Permission, len(roles))
	for rows.Next() {
		var roleID int
		var perm user.Permission
		if err = rows.Scan(&roleID, &perm.ID, &perm.Name); err != nil {
			return errors.Wrap(err, "scanning role permission")
		}
		byRole[roleID] = append(byRole[roleID], perm)
	}
	if err = rows.Err(); err != nil {
		return errors.Wrap(err, "reading role permissions")
	}

	for i := range roles {
		roles[i].Permissions = byRole[roles[i].ID]
	}
	return nil
}

func (repo *userRepository) CreateRole(ctx context.Context, role user.Role, permissionIDs []int) (user.Role, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return user.Role{}, errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	active := role.IsActive == nil || *role.IsActive
	if err = tx.QueryRowxContext(ctx,
		"INSERT INTO rol (nombre, activo) VALUES ($1, $2) RETURNING id", role.Name, active,
	).Scan(&role.ID); err != nil {
		return user.Role{}, wrapRoleConstraint(err)
	}
	role.IsActive = &active

	if err = insertRolePermissions(ctx, tx, role.ID, permissionIDs); err != nil {
		return user.Role{}, err
	}
	if err = tx.Commit(); err != nil {
		return user.Role{}, errors.Wrap(err, "committing tx")
	}
	return repo.GetRoleByID(ctx, role.ID)
}

func insertRolePermissions(ctx context.Context, tx *sqlx.Tx, roleID int, permissionIDs []int) error {
	for _, pid := range permissionIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO rol_permiso (rol_id, permiso_id) VALUES ($1, $2)", roleID, pid,
		); err != nil {
			if isFKViolation(err) {
				return user.ErrPermNotFound
			}
			return errors.Wrap(err, "inserting role permission")
		}
	}
	return nil
}

func (repo *userRepository) FilterRoles(ctx context.Context, filter user.RoleQueryFilter, page core.Pagination) ([]user.Role, int, error) {
	where, args := "", []interface{}{}
	if filter.Search != "" {
		where = " WHERE nombre ILIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}

	var total int
	if err := repo.db.GetContext(ctx, &total, repo.db.Rebind("SELECT COUNT(*) FROM rol"+where), args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting roles")
	}

	query := "SELECT id, nombre, activo FROM rol" + where + " ORDER BY id"
	if !page.All {
		page.Clean()
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset())
	}

	var rows []roleRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying roles")
	}
	roles := make([]user.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.toModel())
	}
	if err := repo.loadRolePermissions(ctx, roles); err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (repo *userRepository) GetRoleByID(ctx context.Context, id int) (user.Role, error) {
	var row roleRow
	if err := repo.db.GetContext(ctx, &row, "SELECT id, nombre, activo FROM rol WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return user.Role{}, user.ErrRoleNotFound
		}
		return user.Role{}, errors.Wrap(err, "getting role")
	}
	roles := []user.Role{row.toModel()}
	if err := repo.loadRolePermissions(ctx, roles); err != nil {
		return user.Role{}, err
	}
	return roles[0], nil
}

func (repo *userRepository) GetRoleByName(ctx context.Context, name string) (user.Role, error) {
	var row roleRow
	if err := repo.db.GetContext(ctx, &row, "SELECT id, nombre, activo FROM rol WHERE lower(nombre) = lower($1)", name); err != nil {
		if err == sql.ErrNoRows {
			return user.Role{}, user.ErrRoleNotFound
		}
		return user.Role{}, errors.Wrap(err, "getting role by name")
	}
	roles := []user.Role{row.toModel()}
	if err := repo.loadRolePermissions(ctx, roles); err != nil {
		return user.Role{}, err
	}
	return roles[0], nil
}

func (repo *userRepository) UpdateRole(ctx context.Context, role user.Role, isActive *bool) (user.Role, error) {
	orig, err := repo.GetRoleByID(ctx, role.ID)
	if err != nil {
		return user.Role{}, err
	}
	if role.Name == "" {
		role.Name = orig.Name
	}
	if isActive == nil {
		isActive = orig.IsActive
	}
	if _, err = repo.db.ExecContext(ctx,
		"UPDATE rol SET nombre = $1, activo = $2 WHERE id = $3", role.Name, isActive, role.ID,
	); err != nil {
		return user.Role{}, wrapRoleConstraint(err)
	}
	return repo.GetRoleByID(ctx, role.ID)
}

func (repo *userRepository) SetRolePermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM rol_permiso WHERE rol_id = $1", roleID); err != nil {
		return errors.Wrap(err, "clearing role permissions")
	}
	if err = insertRolePermissions(ctx, tx, roleID, permissionIDs); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "committing tx")
}

func (repo *userRepository) DeleteRole(ctx context.Context, id int) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM rol WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting role")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrRoleNotFound
	}
	return nil
}

func (repo *userRepository) QueryAllPermissions(ctx context.Context) ([]user.Permission, error) {
	var perms []user.Permission
	rows, err := repo.db.QueryxContext(ctx, "SELECT id, nombre FROM permiso ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "querying permissions")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var perm user.Permission
		if err = rows.Scan(&perm.ID, &perm.Name); err != nil {
			return nil, errors.Wrap(err, "scanning permission")
		}
		perms = append(perms, perm)
	}
	return perms, rows.Err()
}

// constraint mapping

func pqErr(err error) (*pq.Error, bool) {
	cause, ok := errors.Cause(err).(*pq.Error)
	return cause, ok
}

func isUniqueViolation(err error) bool {
	e, ok := pqErr(err)
	return ok && e.Code == "23505"
}

func isFKViolation(err error) bool {
	e, ok := pqErr(err)
	return ok && e.Code == "23503"
}

func wrapUserConstraint(err error) error {
	if e, ok := pqErr(err); ok && e.Code == "23505" {
		switch {
		case strings.Contains(e.Constraint, "documento"):
			return user.ErrDocumentExists
		case strings.Contains(e.Constraint, "email"):
			return user.ErrEmailExists
		}
	}
	return errors.Wrap(err, "saving user")
}

func wrapRoleConstraint(err error) error {
	if isUniqueViolation(err) {
		return user.ErrRoleNameExists
	}
	return errors.Wrap(err, "saving role")
}
