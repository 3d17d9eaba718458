package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
	inmemdb "github.com/trezcool/classlog/storage/database/inmem"
)

func setup(t *testing.T) (*attendance.Service, academics.Repository) {
	t.Helper()
	db, err := inmemdb.Open()
	require.NoError(t, err)
	acaRepo := inmemdb.NewAcademicsRepository(db)
	return attendance.NewService(inmemdb.NewAttendanceRepository(db), acaRepo), acaRepo
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func teacherIdentity(userID int) user.Identity {
	return user.NewIdentity(user.User{ID: userID}, &user.Role{ID: 2, Name: user.RoleTeacher})
}

func adminIdentity() user.Identity {
	return user.NewIdentity(user.User{ID: 1}, &user.Role{ID: user.AdminRoleID, Name: user.RoleAdmin})
}

func TestEligibleClasses_teacherWindow(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()

	tch, err := acaRepo.CreateTeacher(ctx, academics.Teacher{
		FirstName: "Marta", LastName: "Díaz", Document: "200", Email: "marta@test.cd", UserID: intPtr(7),
	})
	require.NoError(t, err)

	_, err = acaRepo.CreateClass(ctx, academics.Class{
		Name: "Álgebra", TeacherID: &tch.ID, Weekday: "lunes",
		StartTime: strPtr("08:00"), EndTime: strPtr("09:00"),
	})
	require.NoError(t, err)
	_, err = acaRepo.CreateClass(ctx, academics.Class{
		Name: "Física", TeacherID: &tch.ID, Weekday: "martes",
		StartTime: strPtr("08:00"), EndTime: strPtr("09:00"),
	})
	require.NoError(t, err)
	_, err = acaRepo.CreateClass(ctx, academics.Class{
		Name: "Taller", TeacherID: &tch.ID, Weekday: "lunes", // no schedule yet
	})
	require.NoError(t, err)

	ident := teacherIdentity(7)
	monday := func(hour, min int) time.Time {
		return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC) // a Monday
	}

	tests := []struct {
		name         string
		now          time.Time
		wantEligible map[string]bool
	}{
		{name: "inside window", now: monday(8, 30), wantEligible: map[string]bool{"Álgebra": true, "Taller": false}},
		{name: "window start is inclusive", now: monday(8, 0), wantEligible: map[string]bool{"Álgebra": true, "Taller": false}},
		{name: "window end is inclusive", now: monday(9, 0), wantEligible: map[string]bool{"Álgebra": true, "Taller": false}},
		{name: "minute before start", now: monday(7, 59), wantEligible: map[string]bool{"Álgebra": false, "Taller": false}},
		{name: "minute after end", now: monday(9, 1), wantEligible: map[string]bool{"Álgebra": false, "Taller": false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := svc.EligibleClasses(context.Background(), ident, tt.now)
			require.NoError(t, err)

			// the Tuesday class never shows up on a Monday
			require.Len(t, classes, len(tt.wantEligible))
			for _, el := range classes {
				want, listed := tt.wantEligible[el.Class.Name]
				require.True(t, listed, "unexpected class %q", el.Class.Name)
				assert.Equal(t, want, el.EligibleNow, el.Class.Name)
			}
		})
	}
}

func TestEligibleClasses_windowHints(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()

	tch, err := acaRepo.CreateTeacher(ctx, academics.Teacher{
		FirstName: "Marta", LastName: "Díaz", Document: "200", Email: "marta@test.cd", UserID: intPtr(7),
	})
	require.NoError(t, err)

	// stored as full time values, reported as HH:MM
	_, err = acaRepo.CreateClass(ctx, academics.Class{
		Name: "Álgebra", TeacherID: &tch.ID, Weekday: "lunes",
		StartTime: strPtr("08:00:00"), EndTime: strPtr("09:30:00"),
	})
	require.NoError(t, err)

	classes, err := svc.EligibleClasses(ctx, teacherIdentity(7), time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "08:00", classes[0].WindowStart)
	assert.Equal(t, "09:30", classes[0].WindowEnd)
	assert.True(t, classes[0].EligibleNow)
}

func TestEligibleClasses_admin(t *testing.T) {
	svc, acaRepo := setup(t)
	ctx := context.Background()

	_, err := acaRepo.CreateClass(ctx, academics.Class{Name: "Álgebra", Weekday: "lunes", StartTime: strPtr("08:00"), EndTime: strPtr("09:00")})
	require.NoError(t, err)
	_, err = acaRepo.CreateClass(ctx, academics.Class{Name: "Física", Weekday: "martes"})
	require.NoError(t, err)

	// admins see everything regardless of day or hour
	classes, err := svc.EligibleClasses(ctx, adminIdentity(), time.Date(2026, 3, 5, 23, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, classes, 2)
	for _, el := range classes {
		assert.True(t, el.EligibleNow, el.Class.Name)
	}
}

func TestEligibleClasses_denied(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("role without access", func(t *testing.T) {
		ident := user.NewIdentity(user.User{ID: 3}, &user.Role{ID: 5, Name: "Coordinador"})
		_, err := svc.EligibleClasses(ctx, ident, now)
		assert.Equal(t, attendance.ErrForbidden, err)
	})

	t.Run("no role", func(t *testing.T) {
		ident := user.NewIdentity(user.User{ID: 3}, nil)
		_, err := svc.EligibleClasses(ctx, ident, now)
		assert.Equal(t, attendance.ErrForbidden, err)
	})

	t.Run("teacher without profile", func(t *testing.T) {
		_, err := svc.EligibleClasses(ctx, teacherIdentity(42), now)
		assert.Equal(t, attendance.ErrTeacherNotProvisioned, err)
	})
}
