package main

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/sortx-go/pkg/sortx"
	"github.com/ukaji3/sortx-go/pkg/sortx/logging"
)

// appConfig is the resolved command configuration.
type appConfig struct {
	Run              sortx.Config
	FailOnDuplicates bool
	DryRun           bool
	OutputFormat     string
	Log              logging.Config
	ConfigFile       string
}

// loadConfig resolves configuration in order of precedence:
// flags, SORTX_* environment variables, .env files, .sortx.yaml, defaults.
func loadConfig(cmd *cobra.Command) (*appConfig, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("SORTX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("sheet", "1")
	v.SetDefault("header", 1)
	v.SetDefault("output-format", "text")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "auto")
	v.SetDefault("log-output", "stderr")

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".sortx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Config files may use the needlist input names.
	v.RegisterAlias("excel_path", "excel")
	v.RegisterAlias("folder_path", "folder")
	v.RegisterAlias("sheet_name", "sheet")
	v.RegisterAlias("header_row", "header")
	v.RegisterAlias("column_name", "column")

	logCfg := logging.DefaultConfig()
	logCfg.Level = v.GetString("log-level")
	logCfg.Format = v.GetString("log-format")
	logCfg.Output = v.GetString("log-output")
	if v.GetBool("no-color") {
		logCfg.NoColor = true
	}

	return &appConfig{
		Run: sortx.Config{
			ExcelPath:  v.GetString("excel"),
			FolderPath: v.GetString("folder"),
			Sheet:      sortx.ParseSheetSelector(v.GetString("sheet")),
			HeaderRow:  v.GetInt("header"),
			ColumnName: v.GetString("column"),
		},
		FailOnDuplicates: v.GetBool("fail-on-duplicates"),
		DryRun:           v.GetBool("dry-run"),
		OutputFormat:     strings.ToLower(v.GetString("output-format")),
		Log:              logCfg,
		ConfigFile:       v.ConfigFileUsed(),
	}, nil
}

// loadEnvFiles loads .env then .env.local; missing files are ignored.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
