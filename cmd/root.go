/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/soundlens/soundlens/internal/catalog"
)

var cfgFile string
var accessToken string
var market string
var databasePath string
var userName string
var maxRetries uint
var smtpUsername string
var smtpPassword string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "soundlens",
	Short: "Performs analysis on streaming listening data",
	Long:  `Derives listening statistics (top artists, genres, moods, discovery) from a streaming catalog account or an exported history.`,
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

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.soundlens.yaml)")

	rootCmd.PersistentFlags().StringVar(
		&accessToken, "token", "", "bearer token for the streaming catalog API")
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.PersistentFlags().StringVar(
		&market, "market", "US", "market code for catalog searches")
	viper.BindPFlag("market", rootCmd.PersistentFlags().Lookup("market"))

	rootCmd.PersistentFlags().StringVarP(
		&userName, "user", "u", "me", "local user name for imported history")
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./soundlens.db", "Path to the SQLite history database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().UintVar(
		&maxRetries, "max-retries", 4, "total attempts per catalog request")
	viper.BindPFlag("max-retries", rootCmd.PersistentFlags().Lookup("max-retries"))

	rootCmd.PersistentFlags().StringVar(&smtpUsername, "smtp_username", "", "SMTP username")
	viper.BindPFlag("smtp_username", rootCmd.PersistentFlags().Lookup("smtp_username"))

	rootCmd.PersistentFlags().StringVar(&smtpPassword, "smtp_password", "", "SMTP password")
	viper.BindPFlag("smtp_password", rootCmd.PersistentFlags().Lookup("smtp_password"))

	var sendgridKey string
	rootCmd.PersistentFlags().StringVar(&sendgridKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	var from string
	rootCmd.PersistentFlags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".soundlens" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".soundlens")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func newCatalogClient() (*catalog.Client, error) {
	token := viper.GetString("token")
	if token == "" {
		return nil, fmt.Errorf("no token configured - pass --token or set it in the config file")
	}
	return catalog.New(catalog.Config{
		Token:      token,
		MaxRetries: viper.GetUint("max-retries"),
		BaseDelay:  500 * time.Millisecond,
	}), nil
}
