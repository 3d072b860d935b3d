package publish

// ExpandTitleForTest exposes expandTitle for testing.
var ExpandTitleForTest = expandTitle

// ContentTypeForTest exposes contentType for testing.
var ContentTypeForTest = contentType

// EnvCredentialsForTest exposes envCredentials for testing.
var EnvCredentialsForTest = envCredentials
