package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "schema-sync",
	Short: "A schema diff and migration-DDL generator",
	Long: `
SCHEMA SYNC - Schema Difference & Migration DDL Generator

Compares the structure of two relational databases (MySQL/MariaDB,
PostgreSQL, SQL Server, Oracle, SQLite) and generates the dialect-correct
DDL needed to reconcile the target toward the source. Destructive changes
are only ever surfaced as advisory comments.
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./schema-sync.yaml)")

	RootCmd.PersistentFlags().String("source-dsn", "", "source database DSN")
	RootCmd.PersistentFlags().String("source-driver", "", "source driver (mysql, mariadb, postgres, sqlserver, oracle, sqlite)")
	RootCmd.PersistentFlags().String("source-schema", "", "source schema/catalog name")
	RootCmd.PersistentFlags().String("target-dsn", "", "target database DSN")
	RootCmd.PersistentFlags().String("target-driver", "", "target driver (mysql, mariadb, postgres, sqlserver, oracle, sqlite)")
	RootCmd.PersistentFlags().String("target-schema", "", "target schema/catalog name")

	// Flag > Config > Default
	viper.BindPFlag("source.dsn", RootCmd.PersistentFlags().Lookup("source-dsn"))
	viper.BindPFlag("source.driver", RootCmd.PersistentFlags().Lookup("source-driver"))
	viper.BindPFlag("source.schema", RootCmd.PersistentFlags().Lookup("source-schema"))
	viper.BindPFlag("target.dsn", RootCmd.PersistentFlags().Lookup("target-dsn"))
	viper.BindPFlag("target.driver", RootCmd.PersistentFlags().Lookup("target-driver"))
	viper.BindPFlag("target.schema", RootCmd.PersistentFlags().Lookup("target-schema"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("schema-sync")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
