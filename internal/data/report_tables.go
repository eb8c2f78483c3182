package data

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/target/reportd/internal/domain/model"
)

// reportTables names the table pair and counter column that back one report kind.
type reportTables struct {
	kind          model.ReportKind
	jobs          string
	logs          string
	counterColumn string
}

// tablesFor resolves the storage layout for K. Identifiers come from this fixed
// table, never from input, so they are safe to splice into SQL.
func tablesFor[K model.Kind]() reportTables {
	switch kind := model.KindOf[K](); kind {
	case model.ReportKindPersonal:
		return reportTables{
			kind:          kind,
			jobs:          "personal_report_jobs",
			logs:          "personal_report_logs",
			counterColumn: "personal_report_count",
		}
	case model.ReportKindProject:
		return reportTables{
			kind:          kind,
			jobs:          "project_report_jobs",
			logs:          "project_report_logs",
			counterColumn: "project_report_count",
		}
	default:
		panic(fmt.Sprintf("no tables for report kind %q", kind))
	}
}

// fnvHash computes FNV-1a 64-bit hash of the given string for use as advisory lock key.
func fnvHash(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	// Advisory locks accept BIGINT; constrain the unsigned hash into int64 range before casting.
	u := h.Sum64()
	if u > uint64(math.MaxInt64) {
		u %= uint64(math.MaxInt64)
	}
	return int64(u) // #nosec G115 -- value is explicitly bounded to <= MaxInt64 before casting to int64.
}

func clampLimit(limit, def, maxLimit int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, maxLimit)
}
