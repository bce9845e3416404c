package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

var std = newBackend(os.Stderr)

func newBackend(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.TraceLevel)
	l.SetFormatter(&prefixFormatter{})
	return l
}

// Logger gates messages on the Verbose and Debug flags. The zero value logs
// warnings and errors to stderr.
type Logger struct {
	Verbose bool
	Debug   bool

	entry *logrus.Entry
}

// New returns a Logger writing to out instead of stderr.
func New(out io.Writer, verbose, debug bool) Logger {
	return Logger{Verbose: verbose, Debug: debug, entry: logrus.NewEntry(newBackend(out))}
}

func (l Logger) backend() *logrus.Entry {
	if l.entry == nil {
		return logrus.NewEntry(std)
	}
	return l.entry
}

// WithFields returns a copy of the logger that attaches fields to every message.
func (l Logger) WithFields(fields logrus.Fields) Logger {
	l.entry = l.backend().WithFields(fields)
	return l
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.backend().Infof(msg, args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		l.backend().Debugf(msg, args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	l.backend().Warnf(msg, args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	l.backend().Errorf(msg, args...)
}

// ErrorfAndReturn logs the message as an error and returns it as one.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	l.Errorf(msg, args...)
	return fmt.Errorf(msg, args...)
}

// prefixFormatter renders "[level] message key=value" lines.
type prefixFormatter struct{}

func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(levelPrefix(e.Level))
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", color.HiBlackString(k), e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelPrefix(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return color.CyanString("[debug] ")
	case logrus.InfoLevel:
		return color.GreenString("[info] ")
	case logrus.WarnLevel:
		return color.YellowString("[warn] ")
	default:
		return color.RedString("[error] ")
	}
}
