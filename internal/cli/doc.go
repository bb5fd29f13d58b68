// Package cli implements the gcm command line.
//
// Every command loads the stored profiles and rules through a
// [config.Gateway], and commands that change them save the result before
// printing a confirmation. Errors are returned to the caller and rendered by
// [ErrorHandler].
package cli
