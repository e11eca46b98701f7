package log

import (
	"io"
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Trace   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	discard := log.New(io.Discard, "", 0)
	Trace, Info, Warning, Error = discard, discard, discard, discard
}

// InitLog wires the package loggers to a zap production logger.
// Trace output is only enabled when QUICKDRAW_TRACE is set to 1.
func InitLog() {
	logger, err := zap.NewProduction(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		Error = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
		Error.Printf("can't build zap logger: %v", err)
		return
	}
	initWith(logger, os.Getenv("QUICKDRAW_TRACE") == "1")
}

func initWith(logger *zap.Logger, trace bool) {
	logger = logger.Named("quickdraw")

	Trace = log.New(io.Discard, "", 0)
	if trace {
		if l, err := zap.NewStdLogAt(logger, zapcore.DebugLevel); err == nil {
			Trace = l
		}
	}
	Info = zap.NewStdLog(logger)
	if l, err := zap.NewStdLogAt(logger, zapcore.WarnLevel); err == nil {
		Warning = l
	}
	if l, err := zap.NewStdLogAt(logger, zapcore.ErrorLevel); err == nil {
		Error = l
	}
}
