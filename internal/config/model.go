package config

// Defaults for settings that no layer sets.
const (
	DefaultFormat        = "windows-1252"
	DefaultDuplicateKeys = "preserve"
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "text"
)

// Model is one layer of settings. A nil field is unset in that layer.
type Model struct {
	Format        *string
	DuplicateKeys *string
	Pretty        *bool
	Interpolation *bool
	LogLevel      *string
	LogFormat     *string
}

// Settings is the fully resolved configuration.
type Settings struct {
	Format        string
	DuplicateKeys string
	Pretty        bool
	Interpolation bool
	LogLevel      string
	LogFormat     string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Format:        DefaultFormat,
		DuplicateKeys: DefaultDuplicateKeys,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

// Overlay returns a copy of m where every field set in o replaces the
// corresponding field of m. Either side may be nil.
func (m *Model) Overlay(o *Model) *Model {
	out := &Model{}
	if m != nil {
		*out = *m
	}
	if o == nil {
		return out
	}
	if o.Format != nil {
		out.Format = o.Format
	}
	if o.DuplicateKeys != nil {
		out.DuplicateKeys = o.DuplicateKeys
	}
	if o.Pretty != nil {
		out.Pretty = o.Pretty
	}
	if o.Interpolation != nil {
		out.Interpolation = o.Interpolation
	}
	if o.LogLevel != nil {
		out.LogLevel = o.LogLevel
	}
	if o.LogFormat != nil {
		out.LogFormat = o.LogFormat
	}
	return out
}

// Resolve applies m on top of base and returns the result.
func (m *Model) Resolve(base Settings) Settings {
	if m == nil {
		return base
	}
	if m.Format != nil {
		base.Format = *m.Format
	}
	if m.DuplicateKeys != nil {
		base.DuplicateKeys = *m.DuplicateKeys
	}
	if m.Pretty != nil {
		base.Pretty = *m.Pretty
	}
	if m.Interpolation != nil {
		base.Interpolation = *m.Interpolation
	}
	if m.LogLevel != nil {
		base.LogLevel = *m.LogLevel
	}
	if m.LogFormat != nil {
		base.LogFormat = *m.LogFormat
	}
	return base
}
