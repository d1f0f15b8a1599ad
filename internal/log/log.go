// Package log provides the structured, levelled logger used by the photon-beetle command.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is an interface that can log to different levels.
type Logger interface {
	Debugw(msg string, keyvals ...any)
	Infow(msg string, keyvals ...any)
	Warnw(msg string, keyvals ...any)
	Errorw(msg string, keyvals ...any)
	With(keyvals ...any) Logger
	Named(s string) Logger
	Sync() error
}

// log is the implementation of Logger.
type log struct {
	*zap.SugaredLogger
}

func (l *log) With(keyvals ...any) Logger {
	return &log{l.SugaredLogger.With(keyvals...)}
}

func (l *log) Named(s string) Logger {
	return &log{l.SugaredLogger.Named(s)}
}

// New returns a logger that writes statements at or above the given level to output, which defaults to standard
// error. If isJSON is set, each statement is written as a JSON object; otherwise it is written in a console format.
func New(output zapcore.WriteSyncer, level zapcore.Level, isJSON bool) Logger {
	encoder := getConsoleEncoder()
	if isJSON {
		encoder = getJSONEncoder()
	}

	if output == nil {
		output = os.Stderr
	}

	core := zapcore.NewCore(encoder, output, level)
	return &log{zap.New(core).Sugar()}
}

// Nop returns a logger which discards everything.
func Nop() Logger {
	return &log{zap.NewNop().Sugar()}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func getJSONEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()

	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewJSONEncoder(encoderConfig)
}

func getConsoleEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()

	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(encoderConfig)
}
