package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		// SignalShutdown is invoked when a handler returns a shutdown
		// error; the process owner decides how to stop.
		SignalShutdown func()

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator

		UserSvc       user.ServiceInterface
		AcademicsSvc  academics.ServiceInterface
		AttendanceSvc attendance.ServiceInterface
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	initAuth(opts.Conf)
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(api, jwt, s.opts)
	registerUserAPI(api, jwt, s.opts)
	registerStudentAPI(api, jwt, s.opts)
	registerTeacherAPI(api, jwt, s.opts)
	registerAcademicsAPI(api, jwt, s.opts)
	registerClassAPI(api, jwt, s.opts)
	registerAttendanceAPI(api, jwt, s.opts)
	registerDashboardAPI(api, jwt, s.opts)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return respondOK(ctx, echo.Map{"servicio": "classlog api"})
}

// response envelope

type envelope struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listEnvelope struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
	Page  int         `json:"pagina"`
	Pages int         `json:"paginas"`
}

func respondOK(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusOK, envelope{OK: true, Data: data})
}

func respondCreated(ctx echo.Context, data interface{}) error {
	return ctx.JSON(http.StatusCreated, envelope{OK: true, Data: data})
}

func respondMessage(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusOK, envelope{OK: true, Message: msg})
}

func respondList(ctx echo.Context, data interface{}, total int, page core.Pagination) error {
	page.Clean()
	return ctx.JSON(http.StatusOK, listEnvelope{
		OK:    true,
		Data:  data,
		Total: total,
		Page:  page.Page,
		Pages: page.TotalPages(total),
	})
}

func bindPagination(ctx echo.Context) core.Pagination {
	var page core.Pagination
	_ = ctx.Bind(&page)
	page.Clean()
	return page
}
