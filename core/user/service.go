package user

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/classlog/core"
)

var (
	// errors
	ErrNotFound       = errors.New("usuario no encontrado")
	ErrEmailExists    = errors.New("ya existe un usuario con ese email")
	ErrDocumentExists = errors.New("ya existe un usuario con ese documento")
	ErrBadCredentials = errors.New("credenciales inválidas")
	ErrDeactivated    = errors.New("cuenta desactivada")
	ErrNoRoleAssigned = errors.New("usuario sin rol asignado")
	ErrUserProtected  = errors.New("el usuario administrador no puede ser eliminado")
	ErrRoleNotFound   = errors.New("rol no encontrado")
	ErrRoleNameExists = errors.New("ya existe un rol con ese nombre")
	ErrRoleProtected  = errors.New("el rol Administrador no puede ser modificado ni eliminado")
	ErrRoleInUse      = errors.New("no se puede eliminar el rol porque tiene usuarios asociados")
	ErrPermNotFound   = errors.New("permiso no encontrado")
)

type (
	Repository interface {
		// users
		CheckUserUniqueness(ctx context.Context, document, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		DeleteUser(ctx context.Context, id int) error
		CountUsers(ctx context.Context) (int, error)
		CountUsersByRole(ctx context.Context, roleID int) (int, error)

		// roles; Get* return the Role loaded with its permission set
		CreateRole(ctx context.Context, role Role, permissionIDs []int) (Role, error)
		FilterRoles(ctx context.Context, filter RoleQueryFilter, page core.Pagination) ([]Role, int, error)
		GetRoleByID(ctx context.Context, id int) (Role, error)
		GetRoleByName(ctx context.Context, name string) (Role, error)
		UpdateRole(ctx context.Context, role Role, isActive *bool) (Role, error)
		// SetRolePermissions replaces the role's permission associations.
		SetRolePermissions(ctx context.Context, roleID int, permissionIDs []int) error
		// DeleteRole removes the role and cascades its permission associations.
		DeleteRole(ctx context.Context, id int) error

		// permissions
		QueryAllPermissions(ctx context.Context) ([]Permission, error)
	}

	ServiceInterface interface {
		CheckUniqueness(document, email string, exclUsers ...User) error
		Create(ctx context.Context, nu NewUser) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
		GetByID(ctx context.Context, id int) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id int, uu UpdateUser) (User, error)
		Delete(ctx context.Context, id int) error
		Count(ctx context.Context) (int, error)

		Authenticate(ctx context.Context, email, password string) (User, error)
		GetIdentity(ctx context.Context, userID int) (Identity, error)

		CreateRole(ctx context.Context, nr NewRole) (Role, error)
		FilterRoles(ctx context.Context, filter RoleQueryFilter, page core.Pagination) ([]Role, int, error)
		GetRole(ctx context.Context, id int) (Role, error)
		GetRoleByName(ctx context.Context, name string) (Role, error)
		EditRole(ctx context.Context, id int, ur UpdateRole) (Role, error)
		SetRoleState(ctx context.Context, id int, active bool) (Role, error)
		DeleteRole(ctx context.Context, id int) error

		QueryAllPermissions(ctx context.Context) ([]Permission, error)
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

func (svc *Service) CheckUniqueness(document, email string, exclUsers ...User) error {
	if err := svc.repo.CheckUserUniqueness(context.Background(), document, email, exclUsers...); err != nil {
		var field string
		switch err {
		case ErrDocumentExists:
			field = "documento"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	active := true
	usr := User{
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Document:  nu.Document,
		Email:     nu.Email,
		IsActive:  &active,
		RoleID:    nu.RoleID,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id int, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		FirstName: uu.FirstName,
		LastName:  uu.LastName,
		Email:     uu.Email,
		RoleID:    uu.RoleID,
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

// Delete removes a user. The bootstrap admin user can never be deleted.
func (svc *Service) Delete(ctx context.Context, id int) error {
	if id == AdminUserID {
		return ErrUserProtected
	}
	return svc.repo.DeleteUser(ctx, id)
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountUsers(ctx)
}

// Authenticate resolves the user for a login attempt. A user without a
// role may not log in; inactive accounts are rejected.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrBadCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(password); err != nil {
		return User{}, ErrBadCredentials
	}
	if usr.IsActive != nil && !*usr.IsActive {
		return User{}, ErrDeactivated
	}
	if usr.RoleID == nil {
		return User{}, ErrNoRoleAssigned
	}
	return usr, nil
}

// GetIdentity resolves a user ID (from a verified token) to the full
// Identity: the User, its Role and the Role's permission set.
func (svc *Service) GetIdentity(ctx context.Context, userID int) (Identity, error) {
	usr, err := svc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	if usr.RoleID == nil {
		return NewIdentity(usr, nil), nil
	}
	role, err := svc.repo.GetRoleByID(ctx, *usr.RoleID)
	if err != nil {
		if errors.Cause(err) == ErrRoleNotFound {
			return NewIdentity(usr, nil), nil
		}
		return Identity{}, errors.Wrap(err, "loading role")
	}
	return NewIdentity(usr, &role), nil
}

func (svc *Service) CreateRole(ctx context.Context, nr NewRole) (Role, error) {
	active := true
	role := Role{Name: nr.Name, IsActive: &active}
	return svc.repo.CreateRole(ctx, role, nr.PermissionIDs)
}

func (svc *Service) FilterRoles(ctx context.Context, filter RoleQueryFilter, page core.Pagination) ([]Role, int, error) {
	filter.Clean()
	return svc.repo.FilterRoles(ctx, filter, page)
}

func (svc *Service) GetRole(ctx context.Context, id int) (Role, error) {
	return svc.repo.GetRoleByID(ctx, id)
}

func (svc *Service) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return svc.repo.GetRoleByName(ctx, name)
}

// EditRole renames a role and/or replaces its permission set. The
// Administrador role is protected and may not be edited at all,
// regardless of payload.
func (svc *Service) EditRole(ctx context.Context, id int, ur UpdateRole) (Role, error) {
	if id == AdminRoleID {
		return Role{}, ErrRoleProtected
	}
	role, err := svc.repo.GetRoleByID(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if ur.Name != "" {
		role.Name = ur.Name
		if role, err = svc.repo.UpdateRole(ctx, role, nil); err != nil {
			return Role{}, err
		}
	}
	if ur.PermissionIDs != nil {
		if err = svc.repo.SetRolePermissions(ctx, id, ur.PermissionIDs); err != nil {
			return Role{}, errors.Wrap(err, "replacing role permissions")
		}
	}
	return svc.repo.GetRoleByID(ctx, id)
}

func (svc *Service) SetRoleState(ctx context.Context, id int, active bool) (Role, error) {
	if id == AdminRoleID {
		return Role{}, ErrRoleProtected
	}
	role, err := svc.repo.GetRoleByID(ctx, id)
	if err != nil {
		return Role{}, err
	}
	return svc.repo.UpdateRole(ctx, role, &active)
}

// DeleteRole removes a role and its permission associations. Deletion is
// blocked while any user references the role.
func (svc *Service) DeleteRole(ctx context.Context, id int) error {
	if id == AdminRoleID {
		return ErrRoleProtected
	}
	if _, err := svc.repo.GetRoleByID(ctx, id); err != nil {
		return err
	}
	count, err := svc.repo.CountUsersByRole(ctx, id)
	if err != nil {
		return errors.Wrap(err, "counting role users")
	}
	if count > 0 {
		return ErrRoleInUse
	}
	return svc.repo.DeleteRole(ctx, id)
}

func (svc *Service) QueryAllPermissions(ctx context.Context) ([]Permission, error) {
	return svc.repo.QueryAllPermissions(ctx)
}
