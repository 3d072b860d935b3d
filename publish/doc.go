// Package publish ships a generated documentation directory to where it is
// served: a branch of a git repository followed by a pull request, or an
// S3 bucket. A checksum manifest found in the directory is verified first,
// so pages edited after generation are never published.
package publish
