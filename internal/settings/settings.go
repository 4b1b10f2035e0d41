// File: internal/settings/settings.go
package settings

import (
	"sort"

	"go.uber.org/zap"
)

// DomainUsageNone is forced onto DomainUsage when in-process data collectors are declared.
const DomainUsageNone = "none"

// Settings is the typed view of a run-settings document.
// A Settings value is produced once by Loader.Load and is read-only afterwards,
// except for RandomSeed which RestoreRandomSeed may overwrite.
type Settings struct {
	// -- RunConfiguration --
	MaxCPUCount            int    `json:"maxCpuCount"`
	ResultsDirectory       string `json:"resultsDirectory,omitempty"`
	TargetPlatform         string `json:"targetPlatform,omitempty"`
	TargetFrameworkVersion string `json:"targetFrameworkVersion,omitempty"`
	TestAdapterPaths       string `json:"testAdapterPaths,omitempty"`

	// -- TestRunParameters --
	TestProperties map[string]string `json:"testProperties"`

	// -- NUnit --
	InternalTraceLevel     TraceLevel `json:"internalTraceLevel,omitempty"`
	WorkDirectory          string     `json:"workDirectory,omitempty"`
	DefaultTimeout         int        `json:"defaultTimeout"`
	NumberOfTestWorkers    int        `json:"numberOfTestWorkers"`
	ShadowCopyFiles        bool       `json:"shadowCopyFiles"`
	Verbosity              int        `json:"verbosity"`
	UseVsKeepEngineRunning bool       `json:"useVsKeepEngineRunning"`
	BasePath               string     `json:"basePath,omitempty"`
	PrivateBinPath         string     `json:"privateBinPath,omitempty"`

	// RandomSeed is always set after a successful Load, either from the
	// document or from the Loader's random source.
	RandomSeed int `json:"randomSeed"`
	// RandomSeedSpecified reports whether the document supplied RandomSeed.
	RandomSeedSpecified bool `json:"randomSeedSpecified"`

	// -- InProcDataCollectionRunSettings --
	InProcDataCollectorsAvailable bool   `json:"inProcDataCollectorsAvailable"`
	SynchronousEvents             bool   `json:"synchronousEvents"`
	DomainUsage                   string `json:"domainUsage,omitempty"`
}

// Summary returns the settings as structured log fields.
func (s *Settings) Summary() []zap.Field {
	keys := make([]string, 0, len(s.TestProperties))
	for k := range s.TestProperties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return []zap.Field{
		zap.Int("max_cpu_count", s.MaxCPUCount),
		zap.String("results_directory", s.ResultsDirectory),
		zap.String("target_platform", s.TargetPlatform),
		zap.String("target_framework", s.TargetFrameworkVersion),
		zap.Stringer("internal_trace_level", s.InternalTraceLevel),
		zap.Int("default_timeout", s.DefaultTimeout),
		zap.Int("number_of_test_workers", s.NumberOfTestWorkers),
		zap.Int("verbosity", s.Verbosity),
		zap.Int("random_seed", s.RandomSeed),
		zap.Bool("random_seed_specified", s.RandomSeedSpecified),
		zap.Bool("in_proc_data_collectors", s.InProcDataCollectorsAvailable),
		zap.Strings("test_properties", keys),
	}
}
