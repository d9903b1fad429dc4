package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	log  *zap.Logger
	once sync.Once
)

// New builds a production logger for env "production", a development one
// otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Init sets the process-wide logger. Later calls are ignored.
func Init(env string) {
	once.Do(func() {
		l, err := New(env)
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		log = l
		zap.ReplaceGlobals(l)
	})
}

// L returns the process-wide logger, or a no-op one before Init.
func L() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sync flushes buffered entries.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
