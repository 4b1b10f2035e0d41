// File: internal/settings/loader.go
package settings

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Element paths within a run-settings document.
const (
	runConfigurationPath = "RunSettings/RunConfiguration"
	nunitPath            = "RunSettings/NUnit"
	testRunParameterPath = "RunSettings/TestRunParameters/Parameter"
	inProcCollectorsPath = "RunSettings/InProcDataCollectionRunSettings/InProcDataCollectors"
	inProcCollectorName  = "InProcDataCollector"
)

// RandomSource produces a fresh random seed when the document does not specify one.
type RandomSource func() int

// defaultRandomSource mirrors the engine's seed range of [0, MaxInt32).
func defaultRandomSource() int {
	return rand.Intn(math.MaxInt32)
}

// Loader parses run-settings documents and persists random seeds between runs.
type Loader struct {
	logger *zap.Logger
	random RandomSource
	store  SeedStore
}

// Option is a function that configures a Loader.
type Option func(*Loader)

// WithRandomSource replaces the random source used for unspecified seeds.
// Tests use it to make generated seeds deterministic.
func WithRandomSource(r RandomSource) Option {
	return func(l *Loader) {
		l.random = r
	}
}

// WithSeedStore replaces the store used by SaveRandomSeed and RestoreRandomSeed.
func WithSeedStore(s SeedStore) Option {
	return func(l *Loader) {
		l.store = s
	}
}

// NewLoader creates a Loader. By default seeds are persisted on the OS filesystem.
func NewLoader(logger *zap.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		logger: logger.With(zap.String("component", "settings")),
		random: defaultRandomSource,
		store:  NewFileSeedStore(afero.NewOsFs()),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadContext loads the run settings carried by a host discovery context.
func (l *Loader) LoadContext(dc DiscoveryContext) (*Settings, error) {
	if dc == nil {
		return nil, fmt.Errorf("%w: load called with nil context", ErrInvalidArgument)
	}
	rs := dc.RunSettings()
	if rs == nil {
		return nil, fmt.Errorf("%w: discovery context has no run settings", ErrInvalidArgument)
	}
	return l.Load(rs.SettingsXML())
}

// Load parses a run-settings document. Missing elements take their defaults.
// On any error no partial settings are returned.
func (l *Loader) Load(settingsXML string) (*Settings, error) {
	if settingsXML == "" {
		return nil, fmt.Errorf("%w: load called with empty XML string", ErrInvalidArgument)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(settingsXML); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	switch roots := len(doc.ChildElements()); {
	case roots == 0:
		return nil, fmt.Errorf("%w: root element is missing", ErrMalformedInput)
	case roots > 1:
		return nil, fmt.Errorf("%w: document has %d root elements", ErrMalformedInput, roots)
	}

	s := &Settings{}
	var err error

	runConfig := newSection(doc, runConfigurationPath)
	if s.MaxCPUCount, err = runConfig.intValue("MaxCpuCount", -1); err != nil {
		return nil, err
	}
	s.ResultsDirectory = runConfig.text("ResultsDirectory")
	s.TargetPlatform = runConfig.text("TargetPlatform")
	s.TargetFrameworkVersion = runConfig.text("TargetFrameworkVersion")
	s.TestAdapterPaths = runConfig.text("TestAdapterPaths")

	s.TestProperties = make(map[string]string)
	for _, param := range doc.FindElements(testRunParameterPath) {
		name := param.SelectAttr("name")
		value := param.SelectAttr("value")
		if name == nil || value == nil {
			continue
		}
		// Duplicate names: the last parameter wins.
		s.TestProperties[name.Value] = value.Value
	}

	nunit := newSection(doc, nunitPath)
	if raw, ok := nunit.lookup("InternalTraceLevel"); ok {
		lvl, err := ParseTraceLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("%w %q passed for element %s", ErrInvalidValue, raw, nunit.path("InternalTraceLevel"))
		}
		s.InternalTraceLevel = lvl
	}
	s.WorkDirectory = nunit.text("WorkDirectory")
	if s.DefaultTimeout, err = nunit.intValue("DefaultTimeout", 0); err != nil {
		return nil, err
	}
	if s.NumberOfTestWorkers, err = nunit.intValue("NumberOfTestWorkers", -1); err != nil {
		return nil, err
	}
	if s.ShadowCopyFiles, err = nunit.boolValue("ShadowCopyFiles"); err != nil {
		return nil, err
	}
	if s.Verbosity, err = nunit.intValue("Verbosity", 0); err != nil {
		return nil, err
	}
	if s.UseVsKeepEngineRunning, err = nunit.boolValue("UseVsKeepEngineRunning"); err != nil {
		return nil, err
	}
	s.BasePath = nunit.text("BasePath")
	s.PrivateBinPath = nunit.text("PrivateBinPath")

	seed, specified, err := nunit.optionalInt("RandomSeed")
	if err != nil {
		return nil, err
	}
	s.RandomSeedSpecified = specified
	if specified {
		s.RandomSeed = seed
	} else {
		s.RandomSeed = l.random()
	}

	// In-process data collectors require tests to run sequentially in a single process.
	if collectors := doc.FindElement(inProcCollectorsPath); collectors != nil {
		s.InProcDataCollectorsAvailable = len(collectors.SelectElements(inProcCollectorName)) > 0
	}
	if s.InProcDataCollectorsAvailable {
		s.NumberOfTestWorkers = 0
		s.DomainUsage = DomainUsageNone
		s.SynchronousEvents = true
	}

	return s, nil
}

// section is a parent element whose direct children hold scalar values.
// A missing parent behaves as if every child were absent.
type section struct {
	name string
	elem *etree.Element
}

func newSection(doc *etree.Document, path string) section {
	return section{name: path, elem: doc.FindElement(path)}
}

func (s section) path(child string) string {
	return s.name + "/" + child
}

// lookup returns the inner text of the first child named child.
func (s section) lookup(child string) (string, bool) {
	if s.elem == nil {
		return "", false
	}
	target := s.elem.SelectElement(child)
	if target == nil {
		return "", false
	}
	return innerText(target), true
}

func (s section) text(child string) string {
	v, _ := s.lookup(child)
	return v
}

// optionalInt reports specified=false for absent or empty elements.
func (s section) optionalInt(child string) (v int, specified bool, err error) {
	raw, ok := s.lookup(child)
	if !ok || raw == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("%w %q passed for element %s: %w", ErrInvalidValue, raw, s.path(child), err)
	}
	return int(n), true, nil
}

func (s section) intValue(child string, def int) (int, error) {
	v, ok, err := s.optionalInt(child)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// boolValue accepts "true" or "false" in any casing; absent or empty means false.
func (s section) boolValue(child string) (bool, error) {
	raw, ok := s.lookup(child)
	if !ok || raw == "" {
		return false, nil
	}
	switch v := strings.TrimSpace(raw); {
	case strings.EqualFold(v, "true"):
		return true, nil
	case strings.EqualFold(v, "false"):
		return false, nil
	}
	return false, fmt.Errorf("%w %q passed for element %s", ErrInvalidValue, raw, s.path(child))
}

// innerText concatenates all character data below e, including nested elements.
func innerText(e *etree.Element) string {
	var sb strings.Builder
	var walk func(*etree.Element)
	walk = func(el *etree.Element) {
		for _, tok := range el.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				sb.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(e)
	return sb.String()
}
