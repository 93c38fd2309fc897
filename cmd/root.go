package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/salehq/activityboard/internal/utils"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "activityboard",
	Short: "Sync and manage the student activity portal dataset.",
	Long: `activityboard keeps a student activity portal dataset (links, timed
announcements, theme, admin credential) in sync with a remote store:
a public URL, a blob endpoint, an S3 bucket, or a per-user Drive folder.

Local edits are cached in sqlite and pushed back with debounced writes.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.activityboard.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Local .env files are handy for endpoint tokens during development.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".activityboard")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ACTIVITYBOARD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			home, _ := homedir.Dir()
			configPath := home + "/.activityboard.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	viper.SetDefault("backend", "")
	viper.SetDefault("public.url", "")
	viper.SetDefault("blobstore.endpoint", "")
	viper.SetDefault("blobstore.token", "")
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.access_key", "")
	viper.SetDefault("s3.secret_key", "")
	viper.SetDefault("s3.bucket", "")
	viper.SetDefault("s3.key", "")
	viper.SetDefault("drive.client_id", "")
	viper.SetDefault("drive.client_secret", "")
	viper.SetDefault("cache.path", "")
	viper.SetDefault("sync.debounce_ms", 1500)
	viper.SetDefault("sync.autopush", true)
	viper.SetDefault("server.listen", ":8090")
	viper.SetDefault("server.token", "")

	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
