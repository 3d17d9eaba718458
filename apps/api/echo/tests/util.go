package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http/httptest"
	"net/mail"
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/classlog/apps/api/echo"
	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
	emailsvc "github.com/trezcool/classlog/services/email"
	logsvc "github.com/trezcool/classlog/services/logger"
	inmemdb "github.com/trezcool/classlog/storage/database/inmem"
)

type testApp struct {
	server  Server
	usrSvc  user.ServiceInterface
	acaSvc  academics.ServiceInterface
	attSvc  attendance.ServiceInterface
	acaRepo academics.Repository
}

func testConfig() *core.Config {
	return &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Classlog",
		SecretKey:        []byte("secret"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Classlog", Address: "noreply@localhost"},
	}
}

func setup(t *testing.T) *testApp {
	t.Helper()
	emailsvc.ClearSentMessages()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	conf := testConfig()
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	acaRepo := inmemdb.NewAcademicsRepository(db)
	acaSvc := academics.NewService(acaRepo, usrSvc, mailSvc, logger, conf)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), acaRepo)

	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	server := NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		AcademicsSvc:   acaSvc,
		AttendanceSvc:  attSvc,
	})
	return &testApp{server: server, usrSvc: usrSvc, acaSvc: acaSvc, attSvc: attSvc, acaRepo: acaRepo}
}

func (app *testApp) createUser(t *testing.T, email, pwd string, roleID *int) user.User {
	t.Helper()
	usr, err := app.usrSvc.Create(context.Background(), user.NewUser{
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

func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()
	roleID := user.AdminRoleID
	usr := app.createUser(t, "admin@test.cd", "secreta", &roleID)
	return app.token(t, usr)
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	require.NotNil(t, usr.RoleID)
	role, err := app.usrSvc.GetRole(context.Background(), *usr.RoleID)
	require.NoError(t, err)
	token, err := GenerateToken(GetUserClaims(usr, role))
	require.NoError(t, err)
	return token
}

func (app *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Total   int             `json:"total"`
	Page    int             `json:"pagina"`
	Pages   int             `json:"paginas"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	env := decode(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
}
