// Command lens-server starts the config-lens HTTP API server.
// Usage: go run ./cmd/lens-server [flags]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/raysh454/configlens/internal/app"
	"github.com/raysh454/configlens/internal/logging"
	"github.com/raysh454/configlens/internal/platform"
	"github.com/raysh454/configlens/internal/server"
	"github.com/raysh454/configlens/internal/settings"
)

func main() {
	var (
		addr         = flag.String("addr", "", "Listen address (default from settings, then :8080)")
		historyPath  = flag.String("history", defaultHistoryPath(), "SQLite file for the run history (empty disables persistence)")
		settingsPath = flag.String("settings", "", "TOML settings file (default: per-user config dir)")
		platformName = flag.String("platform", "", "Default platform for comparisons")
	)
	flag.Parse()

	logger := logging.NewStdoutLogger("Main")

	cfg := app.DefaultConfig()
	cfg.HistoryPath = *historyPath
	cfg.SettingsPath = *settingsPath

	doc := settings.Load(settingsDocPath(*settingsPath))
	if a := doc.ServerAddr(); a != "" {
		cfg.ServerAddr = a
	}
	if name := doc.DefaultPlatform(); name != "" {
		if p, err := platform.Parse(name); err == nil {
			cfg.Platform = p
		}
	}

	if *platformName != "" {
		p, err := platform.Parse(*platformName)
		if err != nil {
			log.Fatalf("Invalid platform: %v", err)
		}
		cfg.Platform = p
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	srv, err := server.NewServer(server.Config{
		ServerAddr: cfg.ServerAddr,
		AppConfig:  cfg,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Server setup error: %v", err)
	}
	defer srv.Close()

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func defaultHistoryPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "configlens", "history.db")
}

func settingsDocPath(override string) string {
	if override != "" {
		return override
	}
	p, err := settings.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}
