// Package digester calculates SHA256 file digests and keeps them in a JSON
// manifest written next to the generated documentation, so a deploy step
// can tell which pages changed since the manifest was written.
package digester
