// Package profile defines a named Git identity.
//
// A [Profile] carries the user.name and user.email settings that are written
// to a credential fragment and included by Git for matching directories.
package profile
