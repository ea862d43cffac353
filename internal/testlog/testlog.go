// Package testlog provides a types.Logger that discards everything, for
// constructing modules in tests.
package testlog

import "github.com/go-monolith/mono/pkg/types"

// Discard implements types.Logger and drops every record.
type Discard struct{}

var _ types.Logger = Discard{}

func (Discard) Debug(msg string, args ...any)           {}
func (Discard) Info(msg string, args ...any)            {}
func (Discard) Warn(msg string, args ...any)            {}
func (Discard) Error(msg string, args ...any)           {}
func (d Discard) With(args ...any) types.Logger         { return d }
func (d Discard) WithError(err error) types.Logger      { return d }
func (d Discard) WithModule(module string) types.Logger { return d }
