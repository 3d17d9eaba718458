package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
	inmemdb "github.com/trezcool/classlog/storage/database/inmem"
)

func setup(t *testing.T) *user.Service {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	return user.NewService(inmemdb.NewUserRepository(db), &core.Config{SecretKey: []byte("secret")})
}

func createUser(t *testing.T, svc *user.Service, email, pwd string, roleID *int) user.User {
	t.Helper()
	usr, err := svc.Create(context.Background(), user.NewUser{
		FirstName: "Ana",
		LastName:  "Prueba",
		Document:  "doc-" + email,
		Email:     email,
		Password:  pwd,
		RoleID:    roleID,
	})
	require.NoError(t, err)
	return usr
}

func TestService_Authenticate(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	roleID := 2 // Profesor, seeded
	usr := createUser(t, svc, "ana@test.cd", "secreta", &roleID)
	createUser(t, svc, "sinrol@test.cd", "secreta", nil)

	inactive := createUser(t, svc, "inactiva@test.cd", "secreta", &roleID)
	isActive := false
	_, err := svc.Update(ctx, inactive.ID, user.UpdateUser{IsActive: &isActive})
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "ok", email: "ana@test.cd", pwd: "secreta"},
		{name: "email is case insensitive", email: " ANA@Test.cd ", pwd: "secreta"},
		{name: "unknown email", email: "nope@test.cd", pwd: "secreta", wantErr: user.ErrBadCredentials},
		{name: "wrong password", email: "ana@test.cd", pwd: "nope", wantErr: user.ErrBadCredentials},
		{name: "deactivated account", email: "inactiva@test.cd", pwd: "secreta", wantErr: user.ErrDeactivated},
		{name: "no role assigned", email: "sinrol@test.cd", pwd: "secreta", wantErr: user.ErrNoRoleAssigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(ctx, tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, usr.ID, got.ID)
		})
	}
}

func TestService_GetIdentity(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	roleID := user.AdminRoleID
	admin := createUser(t, svc, "admin@test.cd", "secreta", &roleID)
	noRole := createUser(t, svc, "sinrol@test.cd", "secreta", nil)

	ident, err := svc.GetIdentity(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, ident.IsAdmin())
	assert.True(t, ident.HasPermission(user.PermAttendance))

	ident, err = svc.GetIdentity(ctx, noRole.ID)
	require.NoError(t, err)
	assert.False(t, ident.IsAdmin())
	assert.False(t, ident.HasPermission(user.PermAttendance))
}

func TestService_protectedAdminUser(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	// the bootstrap admin gets ID 1 on an empty database
	roleID := user.AdminRoleID
	admin := createUser(t, svc, "admin@test.cd", "secreta", &roleID)
	require.Equal(t, user.AdminUserID, admin.ID)

	assert.Equal(t, user.ErrUserProtected, svc.Delete(ctx, admin.ID))
}

func TestService_roles(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	t.Run("admin role is protected", func(t *testing.T) {
		_, err := svc.EditRole(ctx, user.AdminRoleID, user.UpdateRole{Name: "Otro"})
		assert.Equal(t, user.ErrRoleProtected, err)
		_, err = svc.SetRoleState(ctx, user.AdminRoleID, false)
		assert.Equal(t, user.ErrRoleProtected, err)
		assert.Equal(t, user.ErrRoleProtected, svc.DeleteRole(ctx, user.AdminRoleID))
	})

	t.Run("role in use cannot be deleted", func(t *testing.T) {
		roleID := 2
		createUser(t, svc, "prof@test.cd", "secreta", &roleID)
		assert.Equal(t, user.ErrRoleInUse, svc.DeleteRole(ctx, roleID))
	})

	t.Run("create, edit and delete", func(t *testing.T) {
		role, err := svc.CreateRole(ctx, user.NewRole{Name: "Coordinador", PermissionIDs: []int{1, 2}})
		require.NoError(t, err)
		assert.Len(t, role.Permissions, 2)

		role, err = svc.EditRole(ctx, role.ID, user.UpdateRole{Name: "Coordinación", PermissionIDs: []int{3}})
		require.NoError(t, err)
		assert.Equal(t, "Coordinación", role.Name)
		require.Len(t, role.Permissions, 1)
		assert.Equal(t, user.PermStudents, role.Permissions[0].Name)

		role, err = svc.SetRoleState(ctx, role.ID, false)
		require.NoError(t, err)
		require.NotNil(t, role.IsActive)
		assert.False(t, *role.IsActive)

		require.NoError(t, svc.DeleteRole(ctx, role.ID))
		_, err = svc.GetRole(ctx, role.ID)
		assert.Equal(t, user.ErrRoleNotFound, err)
	})

	t.Run("unknown permission id", func(t *testing.T) {
		_, err := svc.CreateRole(ctx, user.NewRole{Name: "Fantasma", PermissionIDs: []int{999}})
		assert.Equal(t, user.ErrPermNotFound, err)
	})
}

func TestService_CheckUniqueness(t *testing.T) {
	svc := setup(t)

	createUser(t, svc, "ana@test.cd", "secreta", nil)

	err := svc.CheckUniqueness("otra", "ana@test.cd")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "email", vErr.Fields[0].Field)

	err = svc.CheckUniqueness("doc-ana@test.cd", "otra@test.cd")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "documento", vErr.Fields[0].Field)

	assert.NoError(t, svc.CheckUniqueness("nueva", "nueva@test.cd"))
}
