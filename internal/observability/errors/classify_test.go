package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type classedError struct{ class string }

func (e *classedError) Error() string      { return "classed" }
func (e *classedError) ErrorClass() string { return e.class }

type plainError struct{}

func (plainError) Error() string { return "plain" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "sentinel", err: goerrors.New("boom"), want: "errors_errorstring"},
		{name: "wrapped context error", err: fmt.Errorf("render: %w", context.DeadlineExceeded), want: "context_deadlineexceedederror"},
		{name: "value type", err: plainError{}, want: "errors_plainerror"},
		{name: "self classed", err: &classedError{class: "report_data_unavailable"}, want: "report_data_unavailable"},
		{
			name: "self classed behind wrapping",
			err:  fmt.Errorf("stage data: %w", &classedError{class: "template_render"}),
			want: "template_render",
		},
		{name: "empty class falls back to type", err: &classedError{}, want: "errors_classederror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
