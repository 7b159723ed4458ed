// Package cli turns command-line arguments into an app.Config. It validates
// user input and owns process-level concerns such as exit codes.
package cli
