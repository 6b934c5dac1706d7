package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity. Trace sits below zap's debug level and is
// filtered here rather than by zap.
type Level int8

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	PanicLevel
)

var levelNames = map[Level]string{
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
	PanicLevel: "panic",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", l)
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case TraceLevel, DebugLevel:
		return zapcore.DebugLevel
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.PanicLevel
	}
}

// ParseLevel maps a flag or config value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "panic":
		return PanicLevel, nil
	default:
		return InfoLevel, fmt.Errorf("invalid log level %q: use trace, debug, info, warn, error, fatal or panic", s)
	}
}

var (
	mu      sync.RWMutex
	current = InfoLevel
	atom    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar   = newSugar(os.Stderr)
	outFile *os.File
)

func newSugar(w io.Writer) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), atom)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// SetLevel changes the minimum level that is written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	current = l
	atom.SetLevel(l.zapLevel())
}

// GetLevel returns the active level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetOutput redirects log output. Tests use it with a bytes.Buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	_ = sugar.Sync()
	sugar = newSugar(w)
}

// SetOutputFile appends log output to path, creating parent directories.
func SetOutputFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	_ = sugar.Sync()
	if outFile != nil {
		_ = outFile.Close()
	}
	outFile = f
	sugar = newSugar(f)
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = sugar.Sync()
}

func get() (*zap.SugaredLogger, Level) {
	mu.RLock()
	defer mu.RUnlock()
	return sugar, current
}

func Trace(format string, args ...any) {
	s, lvl := get()
	if lvl > TraceLevel {
		return
	}
	s.Debugf("[trace] "+format, args...)
}

func Debug(format string, args ...any) {
	s, _ := get()
	s.Debugf(format, args...)
}

func Info(format string, args ...any) {
	s, _ := get()
	s.Infof(format, args...)
}

func Warn(format string, args ...any) {
	s, _ := get()
	s.Warnf(format, args...)
}

func Error(format string, args ...any) {
	s, _ := get()
	s.Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	s, _ := get()
	s.Fatalf(format, args...)
}
