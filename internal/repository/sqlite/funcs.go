package sqlite

import (
	"database/sql/driver"
	"strings"

	sqlitedriver "modernc.org/sqlite"
)

// containsFoldFunc is the SQL name of a Unicode-aware, case-insensitive
// substring test: contains_fold(haystack, needle) → 1 or 0.
//
// SQLite's own LIKE folds ASCII letters only, so "äpfel" would not match
// "Äpfel". Functions are registered with the driver globally and picked up
// by every connection opened afterwards.
const containsFoldFunc = "contains_fold"

func init() {
	if err := sqlitedriver.RegisterDeterministicScalarFunction(containsFoldFunc, 2, containsFold); err != nil {
		panic(err)
	}
}

func containsFold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	haystack, ok1 := textArg(args[0])
	needle, ok2 := textArg(args[1])
	if !ok1 || !ok2 {
		return int64(0), nil
	}
	if strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)) {
		return int64(1), nil
	}
	return int64(0), nil
}

func textArg(v driver.Value) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}
