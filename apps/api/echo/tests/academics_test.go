package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/academics"
)

func TestStudentCRUD(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)

	body := map[string]interface{}{
		"documento": "A1", "nombre": "Ana", "apellido": "Gómez", "email": "Ana@Test.cd",
	}
	rec := app.do(http.MethodPost, "/api/estudiantes", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var std academics.Student
	decodeData(t, rec, &std)
	assert.Equal(t, "ana@test.cd", std.Email) // lowered
	require.NotNil(t, std.IsActive)
	assert.True(t, *std.IsActive)

	t.Run("missing fields", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/estudiantes", token, map[string]interface{}{"documento": "X"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		env := decode(t, rec)
		assert.Equal(t, "datos inválidos", env.Message)
		var fields map[string]string
		require.NoError(t, json.Unmarshal(env.Error, &fields))
		assert.Contains(t, fields, "nombre")
		assert.Contains(t, fields, "email")
	})

	t.Run("duplicate document", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/estudiantes", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		env := decode(t, rec)
		var fields map[string]string
		require.NoError(t, json.Unmarshal(env.Error, &fields))
		assert.Contains(t, fields, "documento")
	})

	t.Run("list", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/estudiantes", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		env := decode(t, rec)
		assert.Equal(t, 1, env.Total)
		assert.Equal(t, 1, env.Page)
		assert.Equal(t, 1, env.Pages)
	})

	t.Run("retrieve update delete", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/estudiantes/A1", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = app.do(http.MethodPut, "/api/estudiantes/A1", token, map[string]interface{}{"apellido": "Pérez"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated academics.Student
		decodeData(t, rec, &updated)
		assert.Equal(t, "Pérez", updated.LastName)
		assert.Equal(t, "Ana", updated.FirstName) // untouched

		rec = app.do(http.MethodDelete, "/api/estudiantes/A1", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "estudiante eliminado", decode(t, rec).Message)

		rec = app.do(http.MethodGet, "/api/estudiantes/A1", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, academics.ErrStudentNotFound.Error(), decode(t, rec).Message)
	})
}

func TestStudentMemberships(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)
	ctx := context.Background()

	active := true
	_, err := app.acaRepo.CreateStudent(ctx, academics.Student{
		Document: "A1", FirstName: "Ana", LastName: "Gómez", Email: "ana@test.cd", IsActive: &active,
	})
	require.NoError(t, err)
	grp, err := app.acaRepo.CreateGroup(ctx, academics.Group{Name: "G-1"})
	require.NoError(t, err)

	path := fmt.Sprintf("/api/estudiantes/A1/grupos/%d", grp.ID)

	rec := app.do(http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "estudiante matriculado en el grupo", decode(t, rec).Message)

	t.Run("double enroll", func(t *testing.T) {
		rec := app.do(http.MethodPost, path, token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, academics.ErrMembershipExists.Error(), decode(t, rec).Message)
	})

	t.Run("group delete blocked", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/grupos/%d", grp.ID), token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("withdraw", func(t *testing.T) {
		rec := app.do(http.MethodDelete, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "estudiante retirado del grupo", decode(t, rec).Message)

		rec = app.do(http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, academics.ErrMembershipNotFound.Error(), decode(t, rec).Message)
	})
}

func TestClassCRUD(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)

	rec := app.do(http.MethodPost, "/api/clases", token, map[string]interface{}{
		"nombre": "Álgebra", "dia_semana": "Lunes", "hora_inicio": "08:00", "hora_fin": "09:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var cls academics.Class
	decodeData(t, rec, &cls)
	assert.Equal(t, "lunes", cls.Weekday)

	t.Run("bad weekday", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/clases", token, map[string]interface{}{
			"nombre": "Física", "dia_semana": "monday",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(decode(t, rec).Error, &fields))
		assert.Equal(t, "día de la semana inválido", fields["dia_semana"])
	})

	t.Run("inverted window", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/clases", token, map[string]interface{}{
			"nombre": "Física", "dia_semana": "martes", "hora_inicio": "10:00", "hora_fin": "09:00",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, academics.ErrInvalidTimeRange.Error(), decode(t, rec).Message)
	})

	t.Run("by weekday", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/clases/dia/lunes", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var classes []academics.Class
		decodeData(t, rec, &classes)
		require.Len(t, classes, 1)
		assert.Equal(t, cls.ID, classes[0].ID)
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := app.do(http.MethodPut, fmt.Sprintf("/api/clases/%d", cls.ID), token, map[string]interface{}{
			"nombre": "Álgebra II",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated academics.Class
		decodeData(t, rec, &updated)
		assert.Equal(t, "Álgebra II", updated.Name)
		assert.Equal(t, "lunes", updated.Weekday)

		rec = app.do(http.MethodDelete, fmt.Sprintf("/api/clases/%d", cls.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "clase eliminada", decode(t, rec).Message)
	})
}

func TestTeacherProvisioning(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)

	rec := app.do(http.MethodPost, "/api/profesores", token, map[string]interface{}{
		"documento": "200", "nombre": "Marta", "apellido": "Díaz", "email": "marta@test.cd",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tch academics.Teacher
	decodeData(t, rec, &tch)
	require.NotNil(t, tch.UserID)

	// the backing account can log in once its password is known;
	// here we only check it exists with the teacher role
	usr, err := app.usrSvc.GetByEmail(context.Background(), "marta@test.cd")
	require.NoError(t, err)
	require.NotNil(t, usr.RoleID)
	assert.Equal(t, 2, *usr.RoleID)
}
