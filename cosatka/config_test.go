package cosatka

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		env        map[string]string
		wantDriver string
		wantToken  string
		wantLevel  slog.Level
		wantErr    bool
	}{
		{
			name:       "Defaults",
			body:       "",
			wantDriver: DriverMemory,
			wantLevel:  slog.LevelInfo,
		},
		{
			name: "Postgres with env token",
			body: `
[log]
level = "DEBUG"

[bot]
token = "from-file"

[db]
driver = "postgres"
host = "db"
`,
			env:        map[string]string{EnvBotToken: "from-env"},
			wantDriver: DriverPostgres,
			wantToken:  "from-env",
			wantLevel:  slog.LevelDebug,
		},
		{
			name:    "Redis without url",
			body:    "[db]\ndriver = \"redis\"\n",
			wantErr: true,
		},
		{
			name:    "Unknown driver",
			body:    "[db]\ndriver = \"mongo\"\n",
			wantErr: true,
		},
		{
			name:    "Broken toml",
			body:    "[db\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := LoadConfig(writeConfig(t, tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.DB.Driver != tt.wantDriver {
				t.Errorf("LoadConfig() driver = %q, want %q", got.DB.Driver, tt.wantDriver)
			}
			if got.Bot.Token != tt.wantToken {
				t.Errorf("LoadConfig() token = %q, want %q", got.Bot.Token, tt.wantToken)
			}
			if got.Log.Level != tt.wantLevel {
				t.Errorf("LoadConfig() level = %v, want %v", got.Log.Level, tt.wantLevel)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("LoadConfig() error = nil, want error")
	}
}
