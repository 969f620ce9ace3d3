// Package common keeps enumerations shared by the document model and program
// configuration, so that css package does not have to depend on config.
package common

//go:generate go tool go-enum --marshal --names

// Layout of produced CSS text.
// ENUM(expanded, compact, compressed)
type OutputStyle int

// What to do when import cycle is detected. Cycles are never fatal, this only
// controls whether they are reported.
// ENUM(ignore, warn)
type CycleMode int

func (c CycleMode) Report() bool {
	return c == CycleModeWarn
}
