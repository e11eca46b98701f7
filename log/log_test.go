package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWithRoutesLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	initWith(zap.New(core), true)

	Trace.Printf("trace %d", 1)
	Info.Println("info")
	Warning.Println("warn")
	Error.Println("error")

	entries := logs.All()
	if assert.Len(t, entries, 4) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "trace 1", entries[0].Message)
		assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
		assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
		assert.Equal(t, "quickdraw", entries[3].LoggerName)
	}
}

func TestTraceDisabledByDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	initWith(zap.New(core), false)
	Trace.Println("hidden")

	assert.Empty(t, logs.FilterMessage("hidden").All())
}
