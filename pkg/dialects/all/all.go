// Package all registers every built-in dialect.
package all

import (
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/ansi"       // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/databricks" // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/duckdb"     // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/mysql"      // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/oracle"     // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/postgres"   // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/snowflake"  // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/sqlite"     // register dialect
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/sqlserver"  // register dialect
)
