// File: internal/settings/tracelevel.go
package settings

import (
	"fmt"
	"strings"
)

// TraceLevel is the NUnit engine's internal trace level.
type TraceLevel string

const (
	TraceOff     TraceLevel = "Off"
	TraceError   TraceLevel = "Error"
	TraceWarning TraceLevel = "Warning"
	TraceInfo    TraceLevel = "Info"
	TraceVerbose TraceLevel = "Verbose"
	TraceDebug   TraceLevel = "Debug"
)

// traceLevels is ordered as the engine documents them; lookup is a linear scan.
var traceLevels = []TraceLevel{TraceOff, TraceError, TraceWarning, TraceInfo, TraceVerbose, TraceDebug}

// ParseTraceLevel matches s case-insensitively against the known trace levels
// and returns the canonical spelling.
func ParseTraceLevel(s string) (TraceLevel, error) {
	for _, lvl := range traceLevels {
		if strings.EqualFold(string(lvl), s) {
			return lvl, nil
		}
	}
	return "", fmt.Errorf("%w %q: expected one of %v", ErrInvalidValue, s, traceLevels)
}

func (t TraceLevel) String() string { return string(t) }
