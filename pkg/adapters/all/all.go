// Package all registers every bundled database adapter and every
// built-in dialect.
//
//	import _ "github.com/leapstack-labs/leapquery/pkg/adapters/all"
package all

import (
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/duckdb"    // duckdb
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/mysql"     // mysql
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/oracle"    // oracle
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/postgres"  // postgres
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/sqlite"    // sqlite
	_ "github.com/leapstack-labs/leapquery/pkg/adapters/sqlserver" // sqlserver

	// Dialects without a bundled driver are translation targets only.
	_ "github.com/leapstack-labs/leapquery/pkg/dialects/all"
)
