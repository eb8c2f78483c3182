// Package report holds the pure helpers shared by every report trigger: identity
// resolution, artifact naming and window computation.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/target/reportd/internal/domain/model"
)

// Well-known keys of an execution context data map.
const (
	KeyJobID   = "jobId"
	KeyFireKey = "fireKey"
	KeyFiredAt = "firedAt"
)

// ExecutionContext is the opaque payload a trigger source hands to the executor.
type ExecutionContext struct {
	Data map[string]any
}

// NewExecutionContext builds a context for jobID.
func NewExecutionContext(jobID string) ExecutionContext {
	return ExecutionContext{Data: map[string]any{KeyJobID: jobID}}
}

// WithFire records the scheduler fire that produced this execution.
func (c ExecutionContext) WithFire(fireKey string, firedAt time.Time) ExecutionContext {
	data := make(map[string]any, len(c.Data)+2)
	for k, v := range c.Data {
		data[k] = v
	}
	data[KeyFireKey] = fireKey
	data[KeyFiredAt] = firedAt.UTC()
	return ExecutionContext{Data: data}
}

// ResolveJobID extracts the job identifier stored under KeyJobID.
// It fails with model.ErrMissingJobIdentity when the key is absent, not a string, or blank.
func ResolveJobID(c ExecutionContext) (string, error) {
	raw, ok := c.Data[KeyJobID]
	if !ok {
		return "", fmt.Errorf("%w: key %q absent", model.ErrMissingJobIdentity, KeyJobID)
	}
	id, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: key %q holds %T", model.ErrMissingJobIdentity, KeyJobID, raw)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: key %q is empty", model.ErrMissingJobIdentity, KeyJobID)
	}
	return id, nil
}

// FireKey returns the optional scheduler fire key.
func (c ExecutionContext) FireKey() string {
	if v, ok := c.Data[KeyFireKey].(string); ok {
		return v
	}
	return ""
}
