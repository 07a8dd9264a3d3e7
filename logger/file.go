package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileMode says what happens to an existing log file when koordc starts.
type FileMode int

const (
	FileModeAppend FileMode = iota
	FileModeTruncate
	// FileModeRotate hands the file to lumberjack, which starts a new one
	// once Config.MaxSize is reached.
	FileModeRotate
)

// ParseFileMode accepts append, truncate or rotate. An empty string is
// append.
func ParseFileMode(s string) (FileMode, error) {
	switch strings.ToLower(s) {
	case "", "append":
		return FileModeAppend, nil
	case "truncate":
		return FileModeTruncate, nil
	case "rotate":
		return FileModeRotate, nil
	}
	return 0, fmt.Errorf("unknown log file mode %q", s)
}

func (m FileMode) String() string {
	switch m {
	case FileModeAppend:
		return "append"
	case FileModeTruncate:
		return "truncate"
	case FileModeRotate:
		return "rotate"
	}
	panic("unreachable")
}

const defaultMaxSize = 10 // megabytes

// destination opens the sink named by conf.Path. stdout, stderr and
// /dev/null are recognized by name and an empty path means stderr.
func destination(conf Config) (zapcore.WriteSyncer, error) {
	switch conf.Path {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case os.DevNull:
		return zapcore.AddSync(io.Discard), nil
	}
	if conf.Mode == FileModeRotate {
		// lumberjack creates the file lazily, so a bad directory would
		// otherwise go unnoticed until the first entry.
		if _, err := os.Stat(filepath.Dir(conf.Path)); err != nil {
			return nil, err
		}
		size := conf.MaxSize
		if size <= 0 {
			size = defaultMaxSize
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Path,
			MaxSize:    size,
			MaxBackups: 2,
			LocalTime:  true,
		}), nil
	}
	flag := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if conf.Mode == FileModeTruncate {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(conf.Path, flag, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}
