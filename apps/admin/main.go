package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/notify"
	"github.com/codegrow/frontend/core/session"
	apisvc "github.com/codegrow/frontend/services/api"
	logsvc "github.com/codegrow/frontend/services/logger"
	"github.com/codegrow/frontend/storage/bunt"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(os.Stderr, conf), conf)

	// set up the persisted session
	db, err := bunt.Open(conf)
	errAndDie(logger, err)
	sess := session.New(bunt.NewSessionStore(db), logger)
	errAndDie(logger, sess.Init())

	bus := notify.NewBus()
	client, err := apisvc.NewClient(conf, sess, logger, bus)
	errAndDie(logger, err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// start CLI
	cli := commandLine{
		ctx:      ctx,
		api:      client,
		sess:     sess,
		bus:      bus,
		in:       os.Stdin,
		out:      os.Stdout,
		pageSize: conf.API.PageSize,
	}
	err = cli.run(os.Args)
	stop()
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			os.Stderr.WriteString("\nerror: " + apisvc.UserMessage(err) + "\n")
			logger.Debug("command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
