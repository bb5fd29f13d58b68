// Package homepath converts user supplied directory paths into stable,
// home-relative, forward-slash delimited strings.
//
// The output is suitable for Git `includeIf "gitdir:..."` conditions and for
// `~/`-prefixed include paths, and does not depend on the host path separator.
package homepath
