package events

import "time"

// GenerateStart is emitted before generating a document.
type GenerateStart struct {
	Source     string
	Operations int
	Fragments  int
}

// GenerateFinish is emitted after generating a document.
type GenerateFinish struct {
	Source   string
	Err      error
	Duration time.Duration
}

// OperationStart is emitted before emitting one operation.
type OperationStart struct {
	Name string
	Kind string
}

// OperationFinish is emitted after emitting one operation.
type OperationFinish struct {
	Name     string
	Kind     string
	Err      error
	Duration time.Duration
}
