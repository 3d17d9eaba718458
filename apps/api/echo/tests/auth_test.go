package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/user"
)

func TestLogin(t *testing.T) {
	app := setup(t)

	roleID := user.AdminRoleID
	app.createUser(t, "admin@test.cd", "secreta", &roleID)
	app.createUser(t, "sinrol@test.cd", "secreta", nil)

	inactive := app.createUser(t, "inactiva@test.cd", "secreta", &roleID)
	isActive := false
	_, err := app.usrSvc.Update(context.Background(), inactive.ID, user.UpdateUser{IsActive: &isActive})
	require.NoError(t, err)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
		wantMsg  string
	}{
		{
			name:     "ok",
			body:     map[string]string{"email": "admin@test.cd", "contrasena": "secreta"},
			wantCode: http.StatusOK,
		},
		{
			name:     "bad credentials",
			body:     map[string]string{"email": "admin@test.cd", "contrasena": "nope"},
			wantCode: http.StatusUnauthorized,
			wantMsg:  user.ErrBadCredentials.Error(),
		},
		{
			name:     "unknown email",
			body:     map[string]string{"email": "nope@test.cd", "contrasena": "secreta"},
			wantCode: http.StatusUnauthorized,
			wantMsg:  user.ErrBadCredentials.Error(),
		},
		{
			name:     "deactivated account",
			body:     map[string]string{"email": "inactiva@test.cd", "contrasena": "secreta"},
			wantCode: http.StatusForbidden,
			wantMsg:  user.ErrDeactivated.Error(),
		},
		{
			name:     "no role assigned",
			body:     map[string]string{"email": "sinrol@test.cd", "contrasena": "secreta"},
			wantCode: http.StatusForbidden,
			wantMsg:  user.ErrNoRoleAssigned.Error(),
		},
		{
			name:     "missing fields",
			body:     map[string]string{"email": "admin@test.cd"},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/api/auth/login", "", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			env := decode(t, rec)
			if tt.wantCode == http.StatusOK {
				assert.True(t, env.OK)

				var data struct {
					Token string `json:"token"`
					Role  string `json:"rol"`
				}
				decodeData(t, rec, &data)
				assert.NotEmpty(t, data.Token)
				assert.Equal(t, user.RoleAdmin, data.Role)
				return
			}
			assert.False(t, env.OK)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, env.Message)
			}
		})
	}
}

func TestAuthGuards(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)

	t.Run("missing token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/usuarios", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, decode(t, rec).OK)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/usuarios", "lol.lol.lol", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/usuarios", token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("profile", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/auth/perfil", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var usr user.User
		decodeData(t, rec, &usr)
		assert.Equal(t, "admin@test.cd", usr.Email)
	})
}

func TestPermissionGuards(t *testing.T) {
	app := setup(t)

	// Profesor has class, attendance and dashboard access only
	roleID := 2
	teacher := app.createUser(t, "prof@test.cd", "secreta", &roleID)
	token := app.token(t, teacher)

	denied := []string{"/api/usuarios", "/api/roles", "/api/estudiantes", "/api/profesores", "/api/grupos", "/api/programas", "/api/salones"}
	for _, path := range denied {
		rec := app.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}

	allowed := []string{"/api/clases", "/api/asistencias", "/api/dashboard/resumen"}
	for _, path := range allowed {
		rec := app.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
