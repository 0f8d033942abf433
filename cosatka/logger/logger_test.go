package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCustomHandler(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l *slog.Logger)
		want     []string
		wantNone bool
	}{
		{
			name: "Economy type",
			log: func(l *slog.Logger) {
				l.Info("Economy operation completed", slog.String("type", "eco"), slog.String("game", "kosatka"))
			},
			want: []string{"[Cosatka]", "[INFO]", "[ECO]", "Economy operation completed", "game=kosatka"},
		},
		{
			name: "Command with user and status",
			log: func(l *slog.Logger) {
				l.Warn("Command executed slowly",
					slog.String("type", "cmd"),
					slog.String("name", "kosatka"),
					slog.String("user_name", "orca"),
					slog.String("status", "slow"))
			},
			want: []string{"[WARN]", "[CMD]", "[kosatka by orca]", "[Status: slow]"},
		},
		{
			name: "Error details",
			log: func(l *slog.Logger) {
				l.Error("Query failed", slog.String("type", "db"), slog.Any("error", errors.New("boom")), slog.String("error_location", "repo.go:10"))
			},
			want: []string{"[ERROR]", "[DB]", "Query failed (repo.go:10): boom"},
		},
		{
			name: "Attrs from With",
			log: func(l *slog.Logger) {
				l.With(slog.String("shard", "0")).WithGroup("gw").Info("Ready", slog.Int("guilds", 3))
			},
			want: []string{"[SYS]", "shard=0", "gw.guilds=3"},
		},
		{
			name:     "Below level",
			log:      func(l *slog.Logger) { l.Debug("hidden") },
			wantNone: true,
		},
		{
			name:     "Skipped gateway noise",
			log:      func(l *slog.Logger) { l.Info("sending heartbeat") },
			wantNone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := slog.New(NewHandler(&buf, Options{Level: slog.LevelInfo}))
			tt.log(l)

			got := buf.String()
			if tt.wantNone {
				if got != "" {
					t.Errorf("got %q, want no output", got)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("got %q, want it to contain %q", got, w)
				}
			}
			if strings.Contains(got, "\033[") {
				t.Errorf("got colors with Color disabled: %q", got)
			}
		})
	}
}
