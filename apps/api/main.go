package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/classlog/apps/api/echo"
	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/academics"
	"github.com/trezcool/classlog/core/attendance"
	"github.com/trezcool/classlog/core/user"
	emailsvc "github.com/trezcool/classlog/services/email"
	logsvc "github.com/trezcool/classlog/services/logger"
	"github.com/trezcool/classlog/storage/database"
	sqlxrepos "github.com/trezcool/classlog/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	// set up loggers
	var logger core.Logger
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), conf)
	acaRepo := sqlxrepos.NewAcademicsRepository(db)
	acaSvc := academics.NewService(acaRepo, usrSvc, mailSvc, logger, conf)
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), acaRepo)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// expose build info and the pprof/expvar handlers on the debug host
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:        conf.Server.Addr,
			SignalShutdown: func() { shutdown <- syscall.SIGTERM },
			Conf:           conf,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			UserSvc:        usrSvc,
			AcademicsSvc:   acaSvc,
			AttendanceSvc:  attSvc,
		},
	)
	go server.Start()

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
