package go_polyquery

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "POLYQUERY_"

// LoadConfig builds a Config from environment variables:
//
//	POLYQUERY_NAME           facade registration name
//	POLYQUERY_DB_ENGINE      default engine tag (sqlite, postgres, mongodb, ...)
//	POLYQUERY_SQL_CONNECTION named relational binding to use
//
// Unset variables keep the package defaults.
func LoadConfig() Config {
	v := viper.New()
	v.SetDefault("name", "query")
	v.SetDefault("db.engine", EngineSQLite)
	v.SetDefault("sql.connection", DefaultSQLConnection)

	// Viper's AutomaticEnv does not surface keys that were never declared in
	// a config file, so mirror the prefixed environment into it by hand.
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]
		if !strings.HasPrefix(key, envPrefix) {
			continue
		}
		propKey := strings.TrimPrefix(key, envPrefix)
		propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
		v.Set(propKey, value)
	}

	return Config{
		Name:          v.GetString("name"),
		Engine:        strings.ToLower(v.GetString("db.engine")),
		SQLConnection: v.GetString("sql.connection"),
	}
}
