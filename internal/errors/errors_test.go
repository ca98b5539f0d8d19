package errors

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildError_Error(t *testing.T) {
	err := &BuildError{
		File:     "_posts/2019-1-2-cache.markdown",
		Line:     3,
		Column:   1,
		Message:  "date does not parse",
		Severity: ErrorSeverityError,
	}
	assert.Equal(t, "_posts/2019-1-2-cache.markdown:3:1: error: date does not parse", err.Error())
}

func TestBuildError_ErrorWithoutPosition(t *testing.T) {
	err := &BuildError{
		File:     "_posts/2019-1-2-cache.markdown",
		Message:  "missing front matter",
		Severity: ErrorSeverityFatal,
	}
	assert.Equal(t, "_posts/2019-1-2-cache.markdown: fatal: missing front matter", err.Error())
}

func TestErrorSeverity_String(t *testing.T) {
	assert.Equal(t, "info", ErrorSeverityInfo.String())
	assert.Equal(t, "warning", ErrorSeverityWarning.String())
	assert.Equal(t, "error", ErrorSeverityError.String())
	assert.Equal(t, "fatal", ErrorSeverityFatal.String())
	assert.Equal(t, "unknown", ErrorSeverity(99).String())
}

func TestErrorCollector_WarningsDoNotFailBuild(t *testing.T) {
	ec := NewErrorCollector()

	ec.Add(BuildError{File: "a.markdown", Message: "image not found", Severity: ErrorSeverityWarning})
	assert.False(t, ec.HasErrors())
	assert.True(t, ec.HasWarnings())

	ec.Add(BuildError{File: "a.markdown", Message: "unterminated code fence", Severity: ErrorSeverityError})
	assert.True(t, ec.HasErrors())
}

func TestErrorCollector_GetErrorsByFile(t *testing.T) {
	ec := NewErrorCollector()
	ec.Add(BuildError{File: "a.markdown", Message: "x", Severity: ErrorSeverityError})
	ec.Add(BuildError{File: "b.markdown", Message: "y", Severity: ErrorSeverityError})
	ec.Add(BuildError{File: "a.markdown", Message: "z", Severity: ErrorSeverityWarning})

	got := ec.GetErrorsByFile("a.markdown")
	assert.Len(t, got, 2)
	assert.Len(t, ec.GetErrorsByFile("c.markdown"), 0)
}

func TestErrorCollector_GetErrorsBySeverity(t *testing.T) {
	ec := NewErrorCollector()
	ec.Add(BuildError{File: "a.markdown", Severity: ErrorSeverityWarning})
	ec.Add(BuildError{File: "b.markdown", Severity: ErrorSeverityError})

	assert.Len(t, ec.GetErrorsBySeverity(ErrorSeverityWarning), 1)
	assert.Len(t, ec.GetErrorsBySeverity(ErrorSeverityError), 1)
	assert.Len(t, ec.GetErrorsBySeverity(ErrorSeverityFatal), 0)
}

func TestErrorCollector_ClearAndCount(t *testing.T) {
	ec := NewErrorCollector()
	ec.Add(BuildError{File: "a.markdown", Severity: ErrorSeverityError})
	ec.AddError(fmt.Errorf("walk failed"))
	ec.AddError(nil) // ignored
	assert.Equal(t, 2, ec.Count())
	assert.Len(t, ec.GetAllErrors(), 2)

	ec.Clear()
	assert.Equal(t, 0, ec.Count())
	assert.False(t, ec.HasErrors())
}

func TestErrorCollector_ConcurrentAdd(t *testing.T) {
	ec := NewErrorCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ec.Add(BuildError{File: fmt.Sprintf("post-%d.markdown", n), Severity: ErrorSeverityError})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, ec.Count())
}
