package git

// IsRootPathForTest exposes isRootPath for testing.
var IsRootPathForTest = isRootPath
