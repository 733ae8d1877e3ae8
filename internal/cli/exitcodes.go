package cli

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: database errors, unexpected failures, or any error that
	// doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: bad flags, a missing update URL, or a config file that
	// cannot be loaded.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: unknown group, label class or colour scheme names, missing
	// schema files and drafts.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: schema files that cannot be parsed and pages without an
	// embedded schema.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: empty names and colours that are not #RRGGBB.
	ExitValidation = 5

	// ExitSync indicates the update endpoint failed or rejected an update.
	ExitSync = 6
)

// exitCodeNames are the machine readable codes used in JSON error output
var exitCodeNames = map[int]string{
	ExitError:      "ERROR",
	ExitUsage:      "USAGE_ERROR",
	ExitNotFound:   "NOT_FOUND",
	ExitDataErr:    "DATA_ERROR",
	ExitValidation: "VALIDATION_ERROR",
	ExitSync:       "SYNC_ERROR",
}
