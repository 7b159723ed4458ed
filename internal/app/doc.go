// Package app wires the clausejson pipeline together: it resolves settings
// from their layers, reads the input document, runs the tokenizer and the
// optional interpolation engine and writes the rendered JSON. It knows
// nothing about the command line; cmd/cli builds its Config.
package app
