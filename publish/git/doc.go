// Package git drives a local clone of the repository that
// hosts published documentation, and defines the strategy
// interface used to open pull requests on a hosting
// platform.
//
// GitProvider abstracts pull request creation.
// Implementations for GitHub, GitLab and Bitbucket Server
// live in sub-packages. GitProviderFunc lets plain
// functions satisfy the interface.
package git
