// Package directive resolves rules against profiles and produces Git
// `includeIf` directives.
//
// For each profile a credential fragment is written:
//
//	[user]
//		name = Alice
//		email = alice@example.com
//
// and for each rule whose profile exists, a directive like
//
//	git config --global --add includeIf."gitdir:work/proj/".path ~/.git-config-manager/profiles/work.gitconfig
//
// is returned for the user to run. The global Git configuration is never
// modified by this package.
//
// Rules that reference unknown profiles, or directories that cannot be made
// relative to the home directory, produce a [Warning] and are skipped; they
// never stop the remaining rules from resolving.
package directive
