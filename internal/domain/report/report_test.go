package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/reportd/internal/domain/model"
)

func TestResolveJobID(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		want    string
		wantErr bool
	}{
		{name: "present", data: map[string]any{KeyJobID: "P-1"}, want: "P-1"},
		{name: "trimmed", data: map[string]any{KeyJobID: "  P-1 "}, want: "P-1"},
		{name: "absent", data: map[string]any{"other": "x"}, wantErr: true},
		{name: "nil map", data: nil, wantErr: true},
		{name: "not a string", data: map[string]any{KeyJobID: 42}, wantErr: true},
		{name: "empty", data: map[string]any{KeyJobID: ""}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveJobID(ExecutionContext{Data: tt.data})
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrMissingJobIdentity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecutionContext_WithFire(t *testing.T) {
	base := NewExecutionContext("P-1")
	firedAt := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	ec := base.WithFire("P-1:1705276800", firedAt)
	assert.Equal(t, "P-1:1705276800", ec.FireKey())
	assert.Empty(t, base.FireKey(), "original context is not mutated")

	id, err := ResolveJobID(ec)
	require.NoError(t, err)
	assert.Equal(t, "P-1", id)
}

func TestArtifactName(t *testing.T) {
	started := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "P-1_2024-01-15T00:00:00.pdf", ArtifactName("P-1", started))

	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "P-1_2024-01-15T05:00:00.pdf", ArtifactName("P-1", started.Add(5*time.Hour).In(est)))
	assert.NoError(t, ValidateArtifactName(ArtifactName("P-1", started)))
}

func TestValidateArtifactName(t *testing.T) {
	for _, bad := range []string{"", ".", "..", "../x.pdf", `a\b.pdf`, ".hidden.pdf", "a\x00.pdf"} {
		assert.Error(t, ValidateArtifactName(bad), bad)
	}
}

func TestEffectiveWindow(t *testing.T) {
	now := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	stored := model.ReportWindow{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	fixed := EffectiveWindow(&model.JobDefinition{Window: stored}, now)
	assert.Equal(t, stored, fixed)

	trailing := EffectiveWindow(&model.JobDefinition{Window: stored, TrailingDays: 7}, now)
	assert.Equal(t, now.AddDate(0, 0, -7), trailing.Start)
	assert.Equal(t, now, trailing.End)
	assert.NoError(t, trailing.Validate())
}
