package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
)

func seedClassAndStudent(t *testing.T, app *testApp) academics.Class {
	t.Helper()
	ctx := context.Background()

	cls, err := app.acaRepo.CreateClass(ctx, academics.Class{Name: "Álgebra", Weekday: "lunes"})
	require.NoError(t, err)

	active := true
	_, err = app.acaRepo.CreateStudent(ctx, academics.Student{
		Document: "A1", FirstName: "Ana", LastName: "Gómez", Email: "ana@test.cd", IsActive: &active,
	})
	require.NoError(t, err)
	return cls
}

func TestAttendanceUpsert(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)
	cls := seedClassAndStudent(t, app)

	body := map[string]interface{}{
		"clase_id":      cls.ID,
		"estudiante_id": "A1",
		"fecha":         "2026-03-02",
		"presente":      true,
	}
	rec := app.do(http.MethodPost, "/api/asistencias", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created attendance.Record
	decodeData(t, rec, &created)
	assert.True(t, created.Present)

	t.Run("same key overwrites", func(t *testing.T) {
		body["presente"] = false
		rec := app.do(http.MethodPost, "/api/asistencias", token, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var again attendance.Record
		decodeData(t, rec, &again)
		assert.Equal(t, created.ID, again.ID)
		assert.False(t, again.Present)
	})

	t.Run("unknown class", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/asistencias", token, map[string]interface{}{
			"clase_id": 999, "estudiante_id": "A1", "fecha": "2026-03-02",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, academics.ErrClassNotFound.Error(), decode(t, rec).Message)
	})

	t.Run("bad date", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/asistencias", token, map[string]interface{}{
			"clase_id": cls.ID, "estudiante_id": "A1", "fecha": "02/03/2026",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAttendanceClassSummary(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)
	cls := seedClassAndStudent(t, app)
	ctx := context.Background()

	active := true
	_, err := app.acaRepo.CreateStudent(ctx, academics.Student{
		Document: "B2", FirstName: "Luis", LastName: "Rojas", Email: "luis@test.cd", IsActive: &active,
	})
	require.NoError(t, err)

	for _, nr := range []attendance.NewRecord{
		{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-02"},
		{ClassID: cls.ID, StudentDocument: "B2", Date: "2026-03-02"},
	} {
		present := nr.StudentDocument == "A1"
		nr.Present = &present
		_, err := app.attSvc.Upsert(ctx, nr)
		require.NoError(t, err)
	}

	rec := app.do(http.MethodGet, fmt.Sprintf("/api/asistencias/clase/%d/resumen?fecha=2026-03-02", cls.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sum attendance.Summary
	decodeData(t, rec, &sum)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Present)
	assert.Equal(t, 1, sum.Absent)
}

func TestAttendanceEligible(t *testing.T) {
	app := setup(t)
	ctx := context.Background()

	t.Run("admin sees all classes", func(t *testing.T) {
		token := app.adminToken(t)
		seedClassAndStudent(t, app)

		rec := app.do(http.MethodGet, "/api/asistencias/elegibles", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var classes []attendance.ClassEligibility
		decodeData(t, rec, &classes)
		require.Len(t, classes, 1)
		assert.True(t, classes[0].EligibleNow)
	})

	t.Run("teacher without profile", func(t *testing.T) {
		roleID := 2
		usr := app.createUser(t, "prof@test.cd", "secreta", &roleID)
		token := app.token(t, usr)

		rec := app.do(http.MethodGet, "/api/asistencias/elegibles", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, attendance.ErrTeacherNotProvisioned.Error(), decode(t, rec).Message)
	})

	t.Run("provisioned teacher sees today's classes", func(t *testing.T) {
		roleID := 2
		usr := app.createUser(t, "marta@test.cd", "secreta", &roleID)
		token := app.token(t, usr)

		tch, err := app.acaRepo.CreateTeacher(ctx, academics.Teacher{
			FirstName: "Marta", LastName: "Díaz", Document: "200", Email: "marta@test.cd", UserID: &usr.ID,
		})
		require.NoError(t, err)

		today := academics.WeekdayName(time.Now())
		_, err = app.acaRepo.CreateClass(ctx, academics.Class{Name: "Física", TeacherID: &tch.ID, Weekday: today})
		require.NoError(t, err)

		rec := app.do(http.MethodGet, "/api/asistencias/elegibles", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var classes []attendance.ClassEligibility
		decodeData(t, rec, &classes)
		require.Len(t, classes, 1)
		assert.Equal(t, "Física", classes[0].Class.Name)
		// no schedule, listed but never eligible
		assert.False(t, classes[0].EligibleNow)
	})
}

func TestDashboard(t *testing.T) {
	app := setup(t)
	token := app.adminToken(t)
	cls := seedClassAndStudent(t, app)
	ctx := context.Background()

	present := true
	_, err := app.attSvc.Upsert(ctx, attendance.NewRecord{
		ClassID: cls.ID, StudentDocument: "A1", Date: time.Now().Format(attendance.DateLayout), Present: &present,
	})
	require.NoError(t, err)

	t.Run("summary", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/dashboard/resumen", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var sum struct {
			ActiveStudents int `json:"estudiantes_activos"`
			Classes        int `json:"clases"`
			Users          int `json:"usuarios_totales"`
			Today          struct {
				Present int `json:"presentes"`
				Absent  int `json:"ausentes"`
				Total   int `json:"total"`
			} `json:"asistencias_hoy"`
		}
		decodeData(t, rec, &sum)
		assert.Equal(t, 1, sum.ActiveStudents)
		assert.Equal(t, 1, sum.Classes)
		assert.Equal(t, 1, sum.Users) // the admin account
		assert.Equal(t, 1, sum.Today.Present)
		assert.Equal(t, 0, sum.Today.Absent)
		assert.Equal(t, 1, sum.Today.Total)
	})

	t.Run("daily attendance", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/dashboard/asistencias-diarias?dias=7", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var counts []attendance.DailyCount
		decodeData(t, rec, &counts)
		require.Len(t, counts, 1)
		assert.Equal(t, 1, counts[0].Present)
	})

	t.Run("requires permission", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/dashboard/resumen", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
