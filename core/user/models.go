package user

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/classlog/core"
)

// Distinguished records. The Administrador role and the bootstrap admin
// user are seeded with fixed IDs and are protected from mutation.
const (
	AdminRoleID = 1
	AdminUserID = 1

	RoleAdmin   = "Administrador"
	RoleTeacher = "Profesor"
)

// Perm identifies a named capability grantable to a Role. Route guards
// check these against the acting identity's permission set, loaded once
// per request.
type Perm string

const (
	PermUsers      Perm = "acceso_usuarios"
	PermRoles      Perm = "acceso_roles"
	PermStudents   Perm = "acceso_estudiantes"
	PermTeachers   Perm = "acceso_profesores"
	PermGroups     Perm = "acceso_grupos"
	PermClasses    Perm = "acceso_clases"
	PermAttendance Perm = "acceso_asistencias"
	PermPrograms   Perm = "acceso_programas"
	PermRooms      Perm = "acceso_salones"
	PermDashboard  Perm = "acceso_dashboard"
)

var AllPerms = []Perm{
	PermUsers, PermRoles, PermStudents, PermTeachers, PermGroups,
	PermClasses, PermAttendance, PermPrograms, PermRooms, PermDashboard,
}

// Permission is the stored reference record behind a Perm.
type Permission struct {
	ID   int  `json:"id"`
	Name Perm `json:"nombre"`
}

type Role struct {
	ID          int          `json:"id"`
	Name        string       `json:"nombre"`
	IsActive    *bool        `json:"estado"`
	Permissions []Permission `json:"permisos,omitempty"`
}

func (r Role) HasPermission(p Perm) bool {
	for _, perm := range r.Permissions {
		if perm.Name == p {
			return true
		}
	}
	return false
}

type User struct {
	ID           int    `json:"id"`
	FirstName    string `json:"nombre"`
	LastName     string `json:"apellido"`
	Document     string `json:"documento"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	IsActive     *bool  `json:"estado"`
	RoleID       *int   `json:"rol_id"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Identity is the authenticated User plus its resolved Role and permission
// set, established once per request. A missing Role always denies.
type Identity struct {
	User User
	Role *Role

	perms map[Perm]struct{}
}

func NewIdentity(usr User, role *Role) Identity {
	ident := Identity{User: usr, Role: role}
	if role != nil {
		ident.perms = make(map[Perm]struct{}, len(role.Permissions))
		for _, p := range role.Permissions {
			ident.perms[p.Name] = struct{}{}
		}
	}
	return ident
}

func (id Identity) HasPermission(p Perm) bool {
	_, ok := id.perms[p]
	return ok
}

func (id Identity) HasAnyRole(names ...string) bool {
	if id.Role == nil {
		return false
	}
	for _, name := range names {
		if id.Role.Name == name {
			return true
		}
	}
	return false
}

func (id Identity) IsAdmin() bool {
	return id.HasAnyRole(RoleAdmin)
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Document  string `json:"documento" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"contrasena" validate:"required"`
	RoleID    *int   `json:"rol_id"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Document = core.CleanString(nu.Document)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Document, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"contrasena"`
	IsActive  *bool  `json:"estado"`
	RoleID    *int   `json:"rol_id"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate, origUsr User, svc ServiceInterface) error {
	uu.FirstName = core.CleanString(uu.FirstName)
	uu.LastName = core.CleanString(uu.LastName)

	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(origUsr.Document, uu.Email, origUsr)
}

type NewRole struct {
	Name          string `json:"nombre" validate:"required"`
	PermissionIDs []int  `json:"permisos_ids" validate:"required"`
}

func (nr *NewRole) Validate(validate *validator.Validate) error {
	nr.Name = core.CleanString(nr.Name)
	return validate.Struct(nr)
}

// UpdateRole defines what may be changed on a Role. A nil PermissionIDs
// leaves the permission associations untouched.
type UpdateRole struct {
	Name          string `json:"nombre"`
	PermissionIDs []int  `json:"permisos"`
}

func (ur *UpdateRole) Validate(validate *validator.Validate) error {
	ur.Name = core.CleanString(ur.Name)
	return validate.Struct(ur)
}

type RoleQueryFilter struct {
	Search string `query:"nombre"`
}

func (qf *RoleQueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
