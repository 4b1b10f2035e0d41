// File: internal/settings/context.go
package settings

// RunSettings exposes the raw run-settings document supplied by the host test platform.
type RunSettings interface {
	SettingsXML() string
}

// DiscoveryContext is the host-provided context handed to the adapter during discovery and execution.
type DiscoveryContext interface {
	RunSettings() RunSettings
}

// StaticContext is a DiscoveryContext over an in-memory document.
type StaticContext struct {
	XML string
}

// NewStaticContext wraps xml in a DiscoveryContext.
func NewStaticContext(xml string) *StaticContext {
	return &StaticContext{XML: xml}
}

// RunSettings implements DiscoveryContext. A nil receiver yields nil run settings.
func (c *StaticContext) RunSettings() RunSettings {
	if c == nil {
		return nil
	}
	return c
}

// SettingsXML implements RunSettings.
func (c *StaticContext) SettingsXML() string { return c.XML }
