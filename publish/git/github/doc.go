// Package github implements a git.GitProvider that opens documentation pull
// requests on GitHub (cloud or enterprise). Set EnterpriseHost for GitHub
// Enterprise installations.
package github
