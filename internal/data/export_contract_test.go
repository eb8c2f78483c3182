package data

import (
	"reflect"
	"testing"

	"github.com/target/reportd/internal/domain/model"
)

func assertExportedMethods(t *testing.T, typ reflect.Type, allowed ...string) {
	t.Helper()

	want := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		want[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	for i := range typ.NumMethod() {
		m := typ.Method(i)
		if !m.IsExported() {
			continue
		}
		if _, ok := want[m.Name]; !ok {
			t.Fatalf("unexpected exported method on %s: %s", typ, m.Name)
		}
		seen[m.Name] = struct{}{}
	}

	for name := range want {
		if _, ok := seen[name]; !ok {
			t.Fatalf("expected %s to export method %s", typ, name)
		}
	}
}

func TestJobRepoExportedMethodsMatchAllowlist(t *testing.T) {
	assertExportedMethods(t, reflect.TypeOf(&JobRepo[model.Personal]{}),
		"Create", "Delete", "GetByID", "ListByOwner", "UpdateSchedule")
	assertExportedMethods(t, reflect.TypeOf(&JobRepo[model.Project]{}),
		"Create", "Delete", "GetByID", "ListByOwner", "UpdateSchedule")
}

func TestExecutionLogRepoExportedMethodsMatchAllowlist(t *testing.T) {
	assertExportedMethods(t, reflect.TypeOf(&ExecutionLogRepo[model.Project]{}),
		"CreateInProgress", "FailStaleInProgress", "Finalize", "GetByID", "ListByJob", "ListByOwner")
}
