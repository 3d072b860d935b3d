// Package gitlab implements a git.GitProvider that opens documentation merge
// requests on GitLab.
package gitlab
