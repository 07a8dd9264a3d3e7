// Package logger builds the zap loggers used by the Koord tools.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// Path is a file name or one of stdout, stderr and /dev/null.
	Path string
	Mode FileMode
	// MaxSize is the size in megabytes at which a rotated log file is
	// replaced. Zero means 10.
	MaxSize int
	Level   zapcore.Level
	DevMode bool
}

func New(conf Config) (*zap.Logger, error) {
	core, err := NewCore(conf)
	if err != nil {
		return nil, err
	}
	var opts []zap.Option
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

// NewCore returns a core writing JSON entries at conf.Level or above to
// the destination of conf.
func NewCore(conf Config) (zapcore.Core, error) {
	w, err := destination(conf)
	if err != nil {
		return nil, err
	}
	enc := zap.NewProductionEncoderConfig()
	enc.CallerKey = ""
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, conf.Level), nil
}
