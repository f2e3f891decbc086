package sdk

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCloser is a test double that implements io.Closer
type mockCloser struct {
	closeErr   error
	closeCalls int
}

func (m *mockCloser) Close() error {
	m.closeCalls++
	return m.closeErr
}

func TestCloseWithLog_NilCloser(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	CloseWithLog(nil, logger, "test resource")

	assert.Empty(t, logBuf.String(), "should not log for nil closer")
}

func TestCloseWithLog_SuccessfulClose(t *testing.T) {
	closer := &mockCloser{}
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	CloseWithLog(closer, logger, "test resource")

	assert.Equal(t, 1, closer.closeCalls, "should call Close once")
	assert.Empty(t, logBuf.String(), "should not log on successful close")
}

func TestCloseWithLog_CloseError(t *testing.T) {
	expectedErr := errors.New("close failed: resource busy")
	closer := &mockCloser{closeErr: expectedErr}
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	CloseWithLog(closer, logger, "config store")

	assert.Equal(t, 1, closer.closeCalls, "should call Close once")

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "failed to close resource", "should log failure message")
	assert.Contains(t, logOutput, "config store", "should include resource name")
	assert.Contains(t, logOutput, "close failed", "should include error message")
	assert.Contains(t, logOutput, "level=WARN", "should log at warning level")
}

func TestCloseWithLog_NilLogger(t *testing.T) {
	closer := &mockCloser{closeErr: errors.New("test error")}

	require.NotPanics(t, func() {
		CloseWithLog(closer, nil, "test resource")
	})

	assert.Equal(t, 1, closer.closeCalls, "should call Close once")
}

func TestCloseWithLog_DeferPattern(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))
	closer := &mockCloser{closeErr: errors.New("cleanup error")}

	func() {
		defer CloseWithLog(closer, logger, "deferred resource")
	}()

	assert.Equal(t, 1, closer.closeCalls, "should call Close via defer")
	assert.Contains(t, logBuf.String(), "failed to close resource", "should log via defer")
}

func TestCloseWithLog_MultipleResources(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	closer1 := &mockCloser{}
	closer2 := &mockCloser{closeErr: errors.New("error 1")}
	closer3 := &mockCloser{}
	closer4 := &mockCloser{closeErr: errors.New("error 2")}

	func() {
		defer CloseWithLog(closer4, logger, "resource 4")
		defer CloseWithLog(closer3, logger, "resource 3")
		defer CloseWithLog(closer2, logger, "resource 2")
		defer CloseWithLog(closer1, logger, "resource 1")
	}()

	assert.Equal(t, 1, closer1.closeCalls)
	assert.Equal(t, 1, closer2.closeCalls)
	assert.Equal(t, 1, closer3.closeCalls)
	assert.Equal(t, 1, closer4.closeCalls)

	logOutput := logBuf.String()
	// Only errors should be logged
	assert.Contains(t, logOutput, "resource 2")
	assert.Contains(t, logOutput, "error 1")
	assert.Contains(t, logOutput, "resource 4")
	assert.Contains(t, logOutput, "error 2")

	assert.NotContains(t, logOutput, "resource 1")
	assert.NotContains(t, logOutput, "resource 3")
}

func TestCloseWithLog_RealIOCloser(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	r, w := io.Pipe()

	w.Close()
	CloseWithLog(r, logger, "pipe reader")

	assert.Empty(t, logBuf.String())
}

func TestCloseWithLog_ResourceNaming(t *testing.T) {
	testCases := []string{
		"config store",
		"script loader",
		"redis connection",
		"file handle",
	}

	for _, resourceName := range testCases {
		t.Run(resourceName, func(t *testing.T) {
			var logBuf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logBuf, nil))
			closer := &mockCloser{closeErr: errors.New("test")}

			CloseWithLog(closer, logger, resourceName)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, resourceName,
				"log should contain resource name: %s", resourceName)
		})
	}
}
