package attendance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
)

func boolPtr(b bool) *bool { return &b }

func seedClassAndStudents(t *testing.T, acaRepo academics.Repository) academics.Class {
	t.Helper()
	ctx := context.Background()

	cls, err := acaRepo.CreateClass(ctx, academics.Class{Name: "Álgebra", Weekday: "lunes"})
	require.NoError(t, err)

	active := true
	for _, std := range []academics.Student{
		{Document: "A1", FirstName: "Ana", LastName: "Gómez", Email: "ana@test.cd", IsActive: &active},
		{Document: "B2", FirstName: "Luis", LastName: "Rojas", Email: "luis@test.cd", IsActive: &active},
	} {
		_, err = acaRepo.CreateStudent(ctx, std)
		require.NoError(t, err)
	}
	return cls
}

func TestService_Upsert(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()
	cls := seedClassAndStudents(t, acaRepo)

	t.Run("unknown class", func(t *testing.T) {
		_, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: 999, StudentDocument: "A1", Date: "2026-03-02"})
		assert.Equal(t, academics.ErrClassNotFound, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "Z9", Date: "2026-03-02"})
		assert.Equal(t, academics.ErrStudentNotFound, err)
	})

	t.Run("insert then overwrite", func(t *testing.T) {
		rec, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-02", Present: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, rec.Present)

		// same (class, student, date): updates in place, no new row
		again, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-02", Present: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, rec.ID, again.ID)
		assert.False(t, again.Present)

		records, err := svc.ClassRecords(ctx, cls.ID, "2026-03-02")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("present defaults to false", func(t *testing.T) {
		rec, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "B2", Date: "2026-03-02"})
		require.NoError(t, err)
		assert.False(t, rec.Present)
	})

	t.Run("different date is a new record", func(t *testing.T) {
		rec, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-09", Present: boolPtr(true)})
		require.NoError(t, err)

		records, err := svc.ClassRecords(ctx, cls.ID, "2026-03-09")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, rec.ID, records[0].ID)
	})
}

func TestService_ClassSummary(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()
	cls := seedClassAndStudents(t, acaRepo)

	for _, nr := range []attendance.NewRecord{
		{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-02", Present: boolPtr(true)},
		{ClassID: cls.ID, StudentDocument: "B2", Date: "2026-03-02", Present: boolPtr(false)},
	} {
		_, err := svc.Upsert(ctx, nr)
		require.NoError(t, err)
	}

	sum, err := svc.ClassSummary(ctx, cls.ID, "2026-03-02")
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Present)
	assert.Equal(t, 1, sum.Absent)
	require.Len(t, sum.PerStudent, 2)
	assert.Equal(t, "Ana Gómez", sum.PerStudent[0].Name)
	assert.Equal(t, "Luis Rojas", sum.PerStudent[1].Name)
}

func TestService_StudentHistory(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()
	cls := seedClassAndStudents(t, acaRepo)

	_, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-02", Present: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-09", Present: boolPtr(false)})
	require.NoError(t, err)

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.StudentHistory(ctx, "Z9")
		assert.Equal(t, academics.ErrStudentNotFound, err)
	})

	t.Run("returns all of the student's records", func(t *testing.T) {
		records, err := svc.StudentHistory(ctx, "A1")
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestService_UpdateDelete(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()
	cls := seedClassAndStudents(t, acaRepo)

	rec, err := svc.Upsert(ctx, attendance.NewRecord{ClassID: cls.ID, StudentDocument: "A1", Date: "2026-03-02"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, rec.ID, attendance.UpdateRecord{Present: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Present)

	require.NoError(t, svc.Delete(ctx, rec.ID))

	_, err = svc.Get(ctx, rec.ID)
	assert.Equal(t, attendance.ErrRecordNotFound, err)

	err = svc.Delete(ctx, rec.ID)
	assert.Equal(t, attendance.ErrRecordNotFound, err)
}
