// Package model defines the core data types shared by the report scheduler, executor and stores.
package model

import (
	"fmt"
	"strings"
)

// ReportKind identifies which family of report a job produces.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ReportKind string

const (
	// ReportKindPersonal is an activity report for a single member.
	ReportKindPersonal ReportKind = "personal"
	// ReportKindProject is an activity report for a single project.
	ReportKindProject ReportKind = "project"
)

// AllReportKinds lists every supported kind in a stable order.
func AllReportKinds() []ReportKind {
	return []ReportKind{ReportKindPersonal, ReportKindProject}
}

// Valid returns true if the kind is supported.
func (k ReportKind) Valid() bool {
	return k == ReportKindPersonal || k == ReportKindProject
}

func (k ReportKind) String() string { return string(k) }

// UnmarshalText implements encoding.TextUnmarshaler so kinds can be parsed from flags and env.
func (k *ReportKind) UnmarshalText(text []byte) error {
	v := ReportKind(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid ReportKind: %q", v)
	}
	*k = v
	return nil
}

// Personal is the type parameter selecting personal report stores and providers.
type Personal struct{}

// Project is the type parameter selecting project report stores and providers.
type Project struct{}

// ReportKind implements Kind.
func (Personal) ReportKind() ReportKind { return ReportKindPersonal }

// ReportKind implements Kind.
func (Project) ReportKind() ReportKind { return ReportKindProject }

// Kind constrains generic stores, providers and executors to the supported report kinds.
// Kind-specific behaviour is selected at compile time through the type parameter, so
// no component switches on a runtime kind value.
type Kind interface {
	Personal | Project
	ReportKind() ReportKind
}

// KindOf returns the ReportKind for the type parameter K.
func KindOf[K Kind]() ReportKind {
	var k K
	return k.ReportKind()
}
