package configs

import (
	"flag"
	"os"

	"github.com/mberla/duet/internal/infrastructure/env"
)

// DeterminePath resolves the config file location: --config flag first, then
// the DUET_CONFIG env var, then a set of conventional candidates. An empty
// result means "run on defaults only".
func DeterminePath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("DUET_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/duet/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
