package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/user"
)

func TestRoleDuplicateName(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)

	body := map[string]interface{}{"nombre": "Coordinador", "permisos_ids": []int{1, 2}}
	rec := app.do(http.MethodPost, "/api/roles", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created user.Role
	decodeData(t, rec, &created)

	t.Run("create", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/roles", token, body)
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
		assert.Equal(t, user.ErrRoleNameExists.Error(), decode(t, rec).Message)
	})

	t.Run("rename", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/roles", token, map[string]interface{}{
			"nombre": "Auditor", "permisos_ids": []int{1},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		var other user.Role
		decodeData(t, rec, &other)

		rec = app.do(http.MethodPut, fmt.Sprintf("/api/roles/%d", other.ID), token, map[string]interface{}{
			"nombre": "Coordinador",
		})
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
		assert.Equal(t, user.ErrRoleNameExists.Error(), decode(t, rec).Message)
	})
}

func TestUserDuplicateEmail(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)

	roleID := 2
	app.createUser(t, "ana@test.cd", "secreta", &roleID)

	// caught at validation time, so the response carries a field map
	rec := app.do(http.MethodPost, "/api/usuarios", token, map[string]interface{}{
		"nombre": "Otra", "apellido": "Persona", "documento": "X9",
		"email": "ana@test.cd", "contrasena": "Str0ng.Passw0rd!",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	var fields map[string]string
	require.NoError(t, json.Unmarshal(decode(t, rec).Error, &fields))
	assert.Equal(t, user.ErrEmailExists.Error(), fields["email"])
}
