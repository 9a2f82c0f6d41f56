//go:build integration

package testdb

import "os"

// databaseURLVars are checked in order.
var databaseURLVars = []string{"DATABASE_URL", "ITINERATOR_TEST_DB_URL", "ITINERATOR_DATABASE_URL"}

// GetTestDatabaseURL returns the first database URL found in the environment.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}
