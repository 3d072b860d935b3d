// Package bitbucket implements a git.GitProvider that opens documentation
// pull requests through the Bitbucket Server REST API.
package bitbucket
