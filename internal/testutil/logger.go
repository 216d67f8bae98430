package testutil

import (
	"io"

	"github.com/krishisakhi/sakhi-session/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
