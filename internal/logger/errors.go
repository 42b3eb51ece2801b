package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned by Init when Log.AppName is missing.
	ErrAppNameIsEmpty = errors.New("log config: AppName must be set")

	// ErrServiceNameIsEmpty is returned by Init when Log.ServiceName is missing.
	ErrServiceNameIsEmpty = errors.New("log config: ServiceName must be set")
)

// droppedEvents receives the events zerolog failed to write.
var droppedEvents io.Writer = os.Stderr //nolint:gochecknoglobals

// ErrorHandler is installed as zerolog.ErrorHandler. A failing writer must not
// take the request down, so the event is reported on stderr and dropped.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(droppedEvents, "taskflow: log event dropped: %v\n", err)
}
