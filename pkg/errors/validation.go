package errors

import (
	"os"
	"slices"
	"strings"
)

// ValidateInputFile checks that path names a readable regular file.
//
// A missing file yields FILE_NOT_FOUND with the message "<path>: file not
// found", which the CLI prints verbatim before the usage line.
func ValidateInputFile(path string) error {
	if path == "" {
		return New(ErrCodeUsage, "input path cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "%s: file not found", path)
	}
	if err != nil {
		return Wrap(ErrCodeFileNotFound, err, "%s: cannot stat", path)
	}
	if info.IsDir() {
		return New(ErrCodeUsage, "%s: is a directory", path)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed. The comparison is
// case-insensitive; what names the option in the error message.
func ValidateChoice(what, value string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(value)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid %s %q (available: %s)", what, value, strings.Join(allowed, ", "))
}
