// Package config persists the gcm profile and rule store.
//
// The store is kept as a JSON [Document] in the configuration directory
// (~/.git-config-manager by default), alongside the generated credential
// fragments in its "profiles" subdirectory. A [Gateway] loads the document,
// validating it against a JSON schema reflected from the Go types, and writes
// it back atomically after every mutation.
package config
