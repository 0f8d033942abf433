package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
	TypeEconomy LogType = "ECO"
)

// internalAttrs are folded into the message instead of printed as key=value.
var internalAttrs = []string{"type", "name", "user_name", "status", "error", "error_location"}

// skippedMessages are chatty disgo internals.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"binary message received",
	"received gateway message",
	"sending gateway command",
	"new request",
	"new response",
	"rate limit response headers",
	"sending heartbeat",
}

type Options struct {
	Level slog.Leveler
	// Color disables ANSI colors when false.
	Color bool
}

type CustomHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	opts  Options
	attrs []slog.Attr
	group string
}

func NewHandler(out io.Writer, opts Options) *CustomHandler {
	if out == nil {
		out = os.Stdout
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &CustomHandler{out: out, mu: &sync.Mutex{}, opts: opts}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(slices.Clip(h.attrs), h.qualify(attrs)...)
	return &next
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func (h *CustomHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	attrs := slices.Clone(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)
		return true
	})

	levelColor, levelText := levelStyle(r.Level)
	message := formatMessage(r, attrs)

	var b strings.Builder
	for _, a := range attrs {
		if !slices.Contains(internalAttrs, a.Key) {
			fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		}
	}

	timestamp := r.Time
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	var line string
	if h.opts.Color {
		line = fmt.Sprintf("%s[Cosatka] [%s] [%s%s%s] [%s] %s%s%s\n",
			colorWhite, timestamp.Format("15:04:05"), levelColor, levelText, colorWhite,
			logType(attrs), message, b.String(), colorReset)
	} else {
		line = fmt.Sprintf("[Cosatka] [%s] [%s] [%s] %s%s\n",
			timestamp.Format("15:04:05"), levelText, logType(attrs), message, b.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
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
	}
	return colorPurple, "DEBUG"
}

func formatMessage(r slog.Record, attrs []slog.Attr) string {
	message := r.Message
	if r.Level >= slog.LevelError {
		location := find(attrs, "error_location")
		if location == "" {
			location = sourceLocation(r.PC)
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if details := find(attrs, "error"); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}

	name, userName := find(attrs, "name"), find(attrs, "user_name")
	if name != "" && userName != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, name, userName)
	}
	if status := find(attrs, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}
	return message
}

func shouldSkipLog(message string) bool {
	lower := strings.ToLower(message)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}

func logType(attrs []slog.Attr) LogType {
	switch find(attrs, "type") {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	case "eco":
		return TypeEconomy
	}
	return TypeSystem
}

// find returns the last value recorded under key.
func find(attrs []slog.Attr, key string) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value.String()
		}
	}
	return ""
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}
