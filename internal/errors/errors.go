// Package errors provides structured build error reporting shared by the
// scanner, site builder, and content linter.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// BuildError represents a problem found in a post source file or during a
// site build, with enough position information to point an editor at it.
type BuildError struct {
	Post      string
	File      string
	Line      int
	Column    int
	Message   string
	Severity  ErrorSeverity
	Timestamp time.Time
}

// ErrorSeverity represents the severity of an error
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (be *BuildError) Error() string {
	if be.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", be.File, be.Line, be.Column, be.Severity, be.Message)
	}
	return fmt.Sprintf("%s: %s: %s", be.File, be.Severity, be.Message)
}

// ErrorCollector collects build errors and general errors across a build or
// validation run. Safe for concurrent use.
type ErrorCollector struct {
	buildErrors []BuildError
	errors      []error
	mutex       sync.RWMutex
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		buildErrors: make([]BuildError, 0),
		errors:      make([]error, 0),
	}
}

// Add adds a build error to the collector
func (ec *ErrorCollector) Add(err BuildError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.buildErrors = append(ec.buildErrors, err)
}

// AddError adds a general error to the collector
func (ec *ErrorCollector) AddError(err error) {
	if err == nil {
		return
	}
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = append(ec.errors, err)
}

// GetErrors returns all collected build errors
func (ec *ErrorCollector) GetErrors() []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]BuildError, len(ec.buildErrors))
	copy(result, ec.buildErrors)
	return result
}

// GetAllErrors returns all collected errors (build and general)
func (ec *ErrorCollector) GetAllErrors() []error {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()

	allErrors := make([]error, 0, len(ec.buildErrors)+len(ec.errors))
	for i := range ec.buildErrors {
		allErrors = append(allErrors, &ec.buildErrors[i])
	}
	allErrors = append(allErrors, ec.errors...)
	return allErrors
}

// HasErrors returns true if any collected problem has severity error or
// higher. Warnings and infos alone do not fail a build.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	if len(ec.errors) > 0 {
		return true
	}
	for _, be := range ec.buildErrors {
		if be.Severity >= ErrorSeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any collected problem is a warning.
func (ec *ErrorCollector) HasWarnings() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	for _, be := range ec.buildErrors {
		if be.Severity == ErrorSeverityWarning {
			return true
		}
	}
	return false
}

// Clear clears all errors
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.buildErrors = ec.buildErrors[:0]
	ec.errors = ec.errors[:0]
}

// GetErrorsByFile returns errors for a specific source file
func (ec *ErrorCollector) GetErrorsByFile(file string) []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var fileErrors []BuildError
	for _, err := range ec.buildErrors {
		if err.File == file {
			fileErrors = append(fileErrors, err)
		}
	}
	return fileErrors
}

// GetErrorsBySeverity returns errors at exactly the given severity
func (ec *ErrorCollector) GetErrorsBySeverity(severity ErrorSeverity) []BuildError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var out []BuildError
	for _, err := range ec.buildErrors {
		if err.Severity == severity {
			out = append(out, err)
		}
	}
	return out
}

// Count returns the total number of collected problems
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.buildErrors) + len(ec.errors)
}
