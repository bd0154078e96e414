package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"schema-sync/internal/engine"
)

// getSide resolves one comparison side ("source" or "target") from the
// merged flag/config/env view that Viper holds.
func getSide(name string) (engine.Side, error) {
	side := engine.Side{
		Name:   name,
		Driver: viper.GetString(name + ".driver"),
		DSN:    viper.GetString(name + ".dsn"),
		Schema: viper.GetString(name + ".schema"),
	}

	if side.DSN == "" {
		return engine.Side{}, fmt.Errorf("%s.dsn is required (via flag or config)", name)
	}

	// Auto-detect when no explicit driver is configured.
	if side.Driver == "" {
		if strings.Contains(side.DSN, "postgres") || strings.Contains(side.DSN, "sslmode") {
			side.Driver = "postgres"
		} else {
			side.Driver = "mysql"
		}
	}

	return side, nil
}
