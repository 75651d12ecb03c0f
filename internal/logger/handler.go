package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeDB     LogType = "DB"
	TypeJob    LogType = "JOB"
	TypeAPI    LogType = "API"
	TypeSystem LogType = "SYS"
	TypeError  LogType = "ERR"
)

// internal attributes are folded into the message instead of being printed as key=value
var internalAttrs = map[string]bool{
	"type":           true,
	"status":         true,
	"error":          true,
	"error_location": true,
}

// CustomHandler renders records as single coloured lines:
//
//	[prefix] [15:04:05] [LEVEL] [TYPE] message [Status: x] key=value
type CustomHandler struct {
	prefix string
	level  slog.Leveler
	out    io.Writer
	color  bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

type Option func(*CustomHandler)

func WithWriter(w io.Writer) Option {
	return func(h *CustomHandler) { h.out = w }
}

func WithLevel(level slog.Leveler) Option {
	return func(h *CustomHandler) { h.level = level }
}

func WithoutColor() Option {
	return func(h *CustomHandler) { h.color = false }
}

func NewHandler(prefix string, opts ...Option) *CustomHandler {
	h := &CustomHandler{
		prefix: prefix,
		level:  slog.LevelInfo,
		out:    os.Stdout,
		color:  true,
		mu:     &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	levelColor, levelText := levelStyle(r.Level)

	all := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	all = append(all, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, a)
		return true
	})

	logType := TypeSystem
	var status, errDetails, errLocation string
	for _, a := range all {
		switch a.Key {
		case "type":
			logType = parseLogType(a.Value.String())
		case "status":
			status = a.Value.String()
		case "error":
			errDetails = fmt.Sprintf("%v", a.Value.Any())
		case "error_location":
			errLocation = a.Value.String()
		}
	}
	if errLocation == "" && r.Level >= slog.LevelError && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			errLocation = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
	}

	message := r.Message
	if r.Level >= slog.LevelError {
		if errLocation != "" {
			message = fmt.Sprintf("%s (%s)", message, errLocation)
		}
		if errDetails != "" {
			message = fmt.Sprintf("%s: %s", message, errDetails)
		}
	} else if errDetails != "" {
		message = fmt.Sprintf("%s: %s", message, errDetails)
	}
	if status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var sb strings.Builder
	groupPrefix := strings.Join(h.groups, ".")
	for _, a := range all {
		if internalAttrs[a.Key] {
			continue
		}
		key := a.Key
		if groupPrefix != "" {
			key = groupPrefix + "." + key
		}
		fmt.Fprintf(&sb, " %s=%v", key, a.Value.Any())
	}

	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	line := fmt.Sprintf("[%s] [%s] [%s] [%s] %s%s",
		h.prefix, timestamp.Format("15:04:05"), levelText, logType, message, sb.String())
	if h.color {
		line = fmt.Sprintf("%s[%s] [%s] [%s%s%s] [%s] %s%s%s",
			colorWhite, h.prefix, timestamp.Format("15:04:05"),
			levelColor, levelText, colorWhite,
			logType, message, sb.String(), colorReset)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

func parseLogType(value string) LogType {
	switch strings.ToLower(value) {
	case "db":
		return TypeDB
	case "job":
		return TypeJob
	case "api":
		return TypeAPI
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}
