package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFilesAreOrdered(t *testing.T) {
	versions, err := embeddedVersions()
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_reports", "0002_activity"}, versions)
}

func TestReportMigrationEnforcesSingleInProgress(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/0001_reports.sql")
	require.NoError(t, err)
	sql := string(raw)

	for _, table := range []string{"personal_report_logs", "project_report_logs"} {
		assert.True(t, strings.Contains(sql,
			"ON "+table+" (job_id) WHERE upload_status = 'IN_PROGRESS'"), table)
	}
}
