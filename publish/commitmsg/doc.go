// Package commitmsg embeds the list of published site
// files in git commit messages and reads it back. Paths
// are written one per line between marker lines so a later
// publish can tell which files the branch already carries.
package commitmsg
