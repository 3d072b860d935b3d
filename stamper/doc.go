// Package stamper reads workspace status files (the "KEY VALUE" files Bazel
// writes for --workspace_status_command) and substitutes single-brace {VAR}
// placeholders. The docs generator binds the loaded stamps as top-level
// configuration scalars so pages can show the release label or commit, and
// StampSite writes small stamped files such as CNAME or a version badge into
// a generated site.
package stamper
