package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	envFiles    = []string{".env", ".env.local"}
	configPaths = []string{".", "./config", "/etc/samanvaya", "$HOME/.samanvaya"}
)

// initConfig loads .env files, then the config file, then SAMANVAYA_*
// environment overrides such as SAMANVAYA_HTTP_ADDRESS for http.address.
func initConfig(path string) error {
	// Variables already set in the environment win over .env files
	loadEnvFiles(".")

	if path != "" {
		viper.SetConfigFile(path)
		loadEnvFiles(filepath.Dir(path))
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		for _, configPath := range configPaths {
			viper.AddConfigPath(configPath)
			loadEnvFiles(os.ExpandEnv(configPath))
		}
	}

	viper.SetEnvPrefix("SAMANVAYA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func loadEnvFiles(dir string) {
	for _, envFile := range envFiles {
		// Missing .env files are not an error
		_ = godotenv.Load(filepath.Join(dir, envFile))
	}
}
