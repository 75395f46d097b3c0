package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildPrepError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// ValidationFailed reports an invalid input value. The reason becomes the
// user-facing message; the offending field name lands in the error context.
func ValidationFailed(field, reason string) *BuildPrepError {
	return New(CategoryValidation, SeverityFatal, reason).
		WithContext("field", field)
}

// Repository layout errors

func WrongRepositoryRoot(dir, anchor string) *BuildPrepError {
	return New(CategoryValidation, SeverityFatal, "buildprep must be run from the repository root").
		WithContext("directory", dir).
		WithContext("expected", anchor)
}

// Filesystem errors

func CleanupError(path string, cause error) *BuildPrepError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "artifact cleanup failed").
		WithContext("path", path)
}

func PatchError(file string, cause error) *BuildPrepError {
	return Wrap(cause, CategoryPatch, SeverityFatal, "project file patch failed").
		WithContext("file", file)
}

// Internal errors

func InternalError(message string, cause error) *BuildPrepError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
