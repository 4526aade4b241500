// Package log routes every package logger through one shared go-logging backend.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/op/go-logging"
)

// ErrUnknownLevel is returned by ParseLevel for names it does not know.
var ErrUnknownLevel = errors.New("unknown log level")

type Level logging.Level

// Verbosity levels, from most to least chatty.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = [...]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

var backendLevels = [...]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

const layout = `[%{time:15:04:05.000}] [%{module}] [%{level}]`

var (
	plainFormat = logging.MustStringFormatter(layout + ` %{message}`)
	colorFormat = logging.MustStringFormatter(`%{color}` + layout + `%{color:reset} %{message}`)
)

var backend logging.LeveledBackend

// Logger is what New hands out. go-logging's *Logger satisfies it.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for module, shown in the second column of each line.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all log output to sink, keeping the current level. Lines are
// colored only when sink is a terminal.
func SetSink(sink io.Writer) {
	level := backendLevels[Notice]
	if backend != nil {
		level = backend.GetLevel("")
	}

	format := plainFormat
	if isTerminal(sink) {
		format = colorFormat
	}

	backend = logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format))
	backend.SetLevel(level, "")
	logging.SetBackend(backend)
}

// SetLevel hides messages below level for every module.
func SetLevel(level Level) {
	backend.SetLevel(backendLevels[level], "")
}

// ParseLevel maps a name such as "info" or "WARNING" to its Level.
func ParseLevel(name string) (Level, error) {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return Level(level), nil
		}
	}
	return Notice, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func init() {
	SetSink(os.Stdout)
}
