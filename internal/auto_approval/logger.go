package auto_approval

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	debug  bool
	logger *zap.SugaredLogger
)

func init() {
	debug = os.Getenv("DEBUG") == "true" || os.Getenv("RUNNER_DEBUG") == "1"
	logger = newLogger(debug)
}

// newLogger writes to stderr so that stdout only carries the step log and
// workflow commands.
func newLogger(debug bool) *zap.SugaredLogger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Sugar()
}

func debugf(format string, a ...any) {
	logger.Debugf(strings.TrimSuffix(format, "\n"), a...)
}
