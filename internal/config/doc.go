// Package config defines the format-agnostic settings model of clausejson
// and the Loader interface that settings file formats implement.
//
// Settings come from three layers, applied in order: built-in defaults, the
// settings file, and flags given explicitly on the command line. A layer
// only overrides the fields it actually sets.
package config
