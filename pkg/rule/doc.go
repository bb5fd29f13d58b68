// Package rule binds a directory to a profile.
//
// Rules are resolved against profiles by name when directives are generated,
// so a [Rule] may reference a profile that no longer exists.
package rule
