package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDataDirPrefersRuntimeOverride(t *testing.T) {
	tmp := t.TempDir()
	SetRuntimeDataDir(tmp)
	defer SetRuntimeDataDir("")

	got, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if got != tmp {
		t.Errorf("data dir: got %q, want %q", got, tmp)
	}
}

func TestGetDataDirFromEnv(t *testing.T) {
	SetRuntimeDataDir("")
	tmp := filepath.Join(t.TempDir(), "data")
	t.Setenv("WEALTH_LOG_DATA_DIR", tmp)

	got, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if got != tmp {
		t.Errorf("data dir: got %q, want %q", got, tmp)
	}
	if _, err := os.Stat(tmp); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestGetDBPathFromEnv(t *testing.T) {
	t.Setenv("WEALTH_LOG_DB_PATH", "/tmp/custom/ledger.db")

	got, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if got != "/tmp/custom/ledger.db" {
		t.Errorf("db path: got %q", got)
	}
}

func TestGetDBPathUsesDataDirAndDefaultName(t *testing.T) {
	tmp := t.TempDir()
	SetRuntimeDataDir(tmp)
	defer SetRuntimeDataDir("")
	t.Setenv("WEALTH_LOG_DB_PATH", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	got, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	want := filepath.Join(tmp, defaultDBName)
	if got != want {
		t.Errorf("db path: got %q, want %q", got, want)
	}
}

func TestGetRuntimePortFromEnv(t *testing.T) {
	SetRuntimePort(8000)
	t.Setenv("WEALTH_LOG_PORT", "9123")

	if got := GetRuntimePort(); got != 9123 {
		t.Errorf("port: got %d, want 9123", got)
	}

	// An explicit override beats the environment.
	SetRuntimePort(9500)
	defer SetRuntimePort(8000)
	if got := GetRuntimePort(); got != 9500 {
		t.Errorf("port: got %d, want 9500", got)
	}
}

func TestSetRuntimePortIgnoresInvalid(t *testing.T) {
	SetRuntimePort(8000)
	SetRuntimePort(0)
	SetRuntimePort(-1)
	t.Setenv("WEALTH_LOG_PORT", "")

	if got := GetRuntimePort(); got != 8000 {
		t.Errorf("port: got %d, want 8000", got)
	}
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	if IsWindows() || IsMacOS() {
		t.Skip("config path layout differs")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := SaveUserConfig(UserConfig{DBName: "alt.db", DataDir: "/srv/wealthlog"})
	if err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}

	cfg := LoadUserConfig()
	if cfg.DBName != "alt.db" {
		t.Errorf("db name: got %q, want alt.db", cfg.DBName)
	}
	if cfg.DataDir != "/srv/wealthlog" {
		t.Errorf("data dir: got %q", cfg.DataDir)
	}
}

func TestLoadUserConfigDefaults(t *testing.T) {
	if IsWindows() || IsMacOS() {
		t.Skip("config path layout differs")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg := LoadUserConfig()
	if cfg.DBName != defaultDBName {
		t.Errorf("db name default: got %q, want %q", cfg.DBName, defaultDBName)
	}
	if cfg.DataDir != "" {
		t.Errorf("data dir default: got %q, want empty", cfg.DataDir)
	}
}
