package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/config"
	"github.com/disgoorg/disgo/handler"
)

// CommandRecorder counts handled commands by outcome.
type CommandRecorder interface {
	CommandHandled(command, status string)
}

// WrapWithLogging wraps a command handler with logging and, when rec is
// non-nil, command metrics.
func WrapWithLogging(name string, rec CommandRecorder, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		userID := e.User().ID.String()
		username := e.User().Username

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", userID),
			slog.String("user_name", username),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		status := "success"
		defer func() {
			if rec != nil {
				rec.CommandHandled(name, status)
			}
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", userID),
				slog.String("user_name", username),
				slog.Duration("took", duration),
			}

			switch {
			case err != nil:
				status = "failed"
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", status),
				)...)
			case duration > config.SlowCommandThreshold:
				status = "slow"
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", status),
				)...)
			default:
				slog.Info("Command completed", append(attrs,
					slog.String("status", status),
				)...)
			}
			return err

		case <-time.After(config.CommandExecutionTimeout):
			status = "timeout"
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", userID),
				slog.String("user_name", username),
				slog.String("status", status),
				slog.Duration("timeout", config.CommandExecutionTimeout),
			)
			return fmt.Errorf("command timed out after %s", config.CommandExecutionTimeout)
		}
	}
}
