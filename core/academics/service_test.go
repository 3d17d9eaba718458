package academics_test

import (
	"context"
	"log"
	"net/mail"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/user"
	emailsvc "github.com/trezcool/classlog/services/email"
	logsvc "github.com/trezcool/classlog/services/logger"
	inmemdb "github.com/trezcool/classlog/storage/database/inmem"
)

func testConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		AppName:          "Classlog",
		SecretKey:        []byte("secret"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Classlog", Address: "noreply@localhost"},
	}
}

func setup(t *testing.T) (*academics.Service, user.ServiceInterface) {
	t.Helper()
	emailsvc.ClearSentMessages()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	conf := testConfig()
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))

	// bootstrap the admin account so user.AdminUserID is taken, as
	// createsuperuser guarantees on a real deployment
	adminRole := user.AdminRoleID
	_, err = usrSvc.Create(context.Background(), user.NewUser{
		FirstName: "Admin", LastName: "Root", Document: "0",
		Email: "admin@test.cd", Password: "secreta", RoleID: &adminRole,
	})
	require.NoError(t, err)

	return academics.NewService(inmemdb.NewAcademicsRepository(db), usrSvc, mailSvc, logger, conf), usrSvc
}

func TestService_CreateTeacher_provisionsAccount(t *testing.T) {
	svc, usrSvc := setup(t)
	ctx := context.Background()

	tch, err := svc.CreateTeacher(ctx, academics.NewTeacher{
		Document:  "200",
		FirstName: "Marta",
		LastName:  "Díaz",
		Email:     "marta@test.cd",
		Specialty: "Matemáticas",
	})
	require.NoError(t, err)
	require.NotNil(t, tch.UserID)

	// the backing login account carries the Profesor role and is active
	usr, err := usrSvc.GetByID(ctx, *tch.UserID)
	require.NoError(t, err)
	assert.Equal(t, tch.Email, usr.Email)
	require.NotNil(t, usr.RoleID)
	role, err := usrSvc.GetRole(ctx, *usr.RoleID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, role.Name)
	require.NotNil(t, usr.IsActive)
	assert.True(t, *usr.IsActive)

	// a welcome email with the temporary password went out
	require.Len(t, emailsvc.SentMessages, 1)
	msg := emailsvc.SentMessages[0]
	assert.Equal(t, "marta@test.cd", msg.To[0].Address)
	assert.Contains(t, msg.Subject, "Bienvenido")
	assert.True(t, strings.Contains(msg.TextContent, "Contraseña temporal"))

	t.Run("duplicate document rejected", func(t *testing.T) {
		_, err := svc.CreateTeacher(ctx, academics.NewTeacher{
			Document: "200", FirstName: "Otra", LastName: "Persona", Email: "otra@test.cd",
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "documento", vErr.Fields[0].Field)
	})
}

func TestService_DeleteTeacher_removesAccount(t *testing.T) {
	svc, usrSvc := setup(t)
	ctx := context.Background()

	tch, err := svc.CreateTeacher(ctx, academics.NewTeacher{
		Document: "200", FirstName: "Marta", LastName: "Díaz", Email: "marta@test.cd",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTeacher(ctx, tch.ID))

	_, err = svc.GetTeacher(ctx, tch.ID)
	assert.Equal(t, academics.ErrTeacherNotFound, err)
	_, err = usrSvc.GetByID(ctx, *tch.UserID)
	assert.Equal(t, user.ErrNotFound, err)

	// the bootstrap admin is untouched
	_, err = usrSvc.GetByID(ctx, user.AdminUserID)
	assert.NoError(t, err)
}

func TestService_memberships(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	std, err := svc.CreateStudent(ctx, academics.NewStudent{
		Document: "A1", FirstName: "Ana", LastName: "Gómez", Email: "ana@test.cd",
	})
	require.NoError(t, err)
	prg, err := svc.CreateProgram(ctx, academics.NewProgram{Name: "Sistemas"})
	require.NoError(t, err)
	grp, err := svc.CreateGroup(ctx, academics.NewGroup{Name: "S-101", ProgramID: &prg.ID})
	require.NoError(t, err)

	require.NoError(t, svc.EnrollStudentInGroup(ctx, std.Document, grp.ID))
	require.NoError(t, svc.EnrollStudentInProgram(ctx, std.Document, prg.ID))

	t.Run("double enrollment rejected", func(t *testing.T) {
		err := svc.EnrollStudentInGroup(ctx, std.Document, grp.ID)
		assert.Equal(t, academics.ErrMembershipExists, err)
	})

	t.Run("memberships load with the student", func(t *testing.T) {
		loaded, err := svc.GetStudent(ctx, std.Document)
		require.NoError(t, err)
		assert.Equal(t, []int{grp.ID}, loaded.GroupIDs)
		assert.Equal(t, []int{prg.ID}, loaded.ProgramIDs)
	})

	t.Run("group with members cannot be deleted", func(t *testing.T) {
		err := svc.DeleteGroup(ctx, grp.ID)
		assert.Equal(t, academics.ErrEntityInUse, err)
	})

	t.Run("withdraw", func(t *testing.T) {
		require.NoError(t, svc.WithdrawStudentFromGroup(ctx, std.Document, grp.ID))
		err := svc.WithdrawStudentFromGroup(ctx, std.Document, grp.ID)
		assert.Equal(t, academics.ErrMembershipNotFound, err)
	})
}

func TestService_deleteBlockedByClasses(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	prg, err := svc.CreateProgram(ctx, academics.NewProgram{Name: "Sistemas"})
	require.NoError(t, err)
	grp, err := svc.CreateGroup(ctx, academics.NewGroup{Name: "S-101", ProgramID: &prg.ID})
	require.NoError(t, err)
	room, err := svc.CreateRoom(ctx, academics.NewRoom{Name: "B-201", Capacity: 30})
	require.NoError(t, err)

	_, err = svc.CreateClass(ctx, academics.NewClass{
		Name: "Álgebra", Weekday: "lunes", GroupID: &grp.ID, RoomID: &room.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, academics.ErrEntityInUse, svc.DeleteGroup(ctx, grp.ID))
	assert.Equal(t, academics.ErrEntityInUse, svc.DeleteRoom(ctx, room.ID))
	// the group keeps the program in use
	assert.Equal(t, academics.ErrEntityInUse, svc.DeleteProgram(ctx, prg.ID))
}

func TestService_StudentsPerProgram(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	sistemas, err := svc.CreateProgram(ctx, academics.NewProgram{Name: "Sistemas"})
	require.NoError(t, err)
	derecho, err := svc.CreateProgram(ctx, academics.NewProgram{Name: "Derecho"})
	require.NoError(t, err)

	for i, doc := range []string{"A1", "B2", "C3"} {
		std, err := svc.CreateStudent(ctx, academics.NewStudent{
			Document: doc, FirstName: "Est", LastName: doc, Email: doc + "@test.cd",
		})
		require.NoError(t, err)
		require.NoError(t, svc.EnrollStudentInProgram(ctx, std.Document, sistemas.ID))
		if i == 0 {
			require.NoError(t, svc.EnrollStudentInProgram(ctx, std.Document, derecho.ID))
		}
	}

	counts, err := svc.StudentsPerProgram(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, academics.ProgramCount{ProgramID: sistemas.ID, ProgramName: "Sistemas", Students: 3}, counts[0])
	assert.Equal(t, academics.ProgramCount{ProgramID: derecho.ID, ProgramName: "Derecho", Students: 1}, counts[1])
}
