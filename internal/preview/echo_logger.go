package preview

import (
	"fmt"
	"io"

	"github.com/labstack/echo/v4"
	gommonlog "github.com/labstack/gommon/log"

	"github.com/hsrdle/datagen/internal/logger"
)

var _ echo.Logger = (*echoLogger)(nil)

// echoLogger routes echo's internal logging (Recover, startup errors) to a
// module logger. Output, prefix, level and header are owned by the central
// logger, so their setters are no-ops.
type echoLogger struct {
	log logger.Logger
}

func newEchoLogger(log logger.Logger) *echoLogger {
	if log == nil {
		log = logger.NewSlogLogger(io.Discard, logger.LogLevelInfo, nil)
	}
	return &echoLogger{log: log}
}

func (a *echoLogger) Output() io.Writer { return io.Discard }
func (a *echoLogger) SetOutput(io.Writer) {}
func (a *echoLogger) Prefix() string { return "" }
func (a *echoLogger) SetPrefix(string) {}
func (a *echoLogger) Level() gommonlog.Lvl { return gommonlog.INFO }
func (a *echoLogger) SetLevel(gommonlog.Lvl) {}
func (a *echoLogger) SetHeader(string) {}
func (a *echoLogger) Print(i ...any) { a.log.Info(fmt.Sprint(i...)) }
func (a *echoLogger) Printf(f string, i ...any) { a.log.Info(fmt.Sprintf(f, i...)) }
func (a *echoLogger) Printj(j gommonlog.JSON) { a.log.Info("echo", logger.Any("data", j)) }
func (a *echoLogger) Debug(i ...any) { a.log.Debug(fmt.Sprint(i...)) }
func (a *echoLogger) Debugf(f string, i ...any) { a.log.Debug(fmt.Sprintf(f, i...)) }
func (a *echoLogger) Debugj(j gommonlog.JSON) { a.log.Debug("echo", logger.Any("data", j)) }
func (a *echoLogger) Info(i ...any) { a.log.Info(fmt.Sprint(i...)) }
func (a *echoLogger) Infof(f string, i ...any) { a.log.Info(fmt.Sprintf(f, i...)) }
func (a *echoLogger) Infoj(j gommonlog.JSON) { a.log.Info("echo", logger.Any("data", j)) }
func (a *echoLogger) Warn(i ...any) { a.log.Warn(fmt.Sprint(i...)) }
func (a *echoLogger) Warnf(f string, i ...any) { a.log.Warn(fmt.Sprintf(f, i...)) }
func (a *echoLogger) Warnj(j gommonlog.JSON) { a.log.Warn("echo", logger.Any("data", j)) }
func (a *echoLogger) Error(i ...any) { a.log.Error(fmt.Sprint(i...)) }
func (a *echoLogger) Errorf(f string, i ...any) { a.log.Error(fmt.Sprintf(f, i...)) }
func (a *echoLogger) Errorj(j gommonlog.JSON) { a.log.Error("echo", logger.Any("data", j)) }

// Fatal and Panic log at error level and panic; Recover turns that into a 500.
func (a *echoLogger) Fatal(i ...any) { a.Panic(i...) }
func (a *echoLogger) Fatalf(f string, i ...any) { a.Panicf(f, i...) }
func (a *echoLogger) Fatalj(j gommonlog.JSON) { a.Panicj(j) }

func (a *echoLogger) Panic(i ...any) {
	msg := fmt.Sprint(i...)
	a.log.Error(msg)
	panic(msg)
}

func (a *echoLogger) Panicf(f string, i ...any) {
	a.Panic(fmt.Sprintf(f, i...))
}

func (a *echoLogger) Panicj(j gommonlog.JSON) {
	a.log.Error("echo", logger.Any("data", j))
	panic(j)
}
