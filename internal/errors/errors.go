package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/neurogrowth/internal/api"
	"github.com/julianstephens/neurogrowth/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", Describe(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Describe turns an error into text suitable for showing to the user.
// Backend failures are rendered according to their kind; anything else is printed as is.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *api.Error
	if !stderrors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Kind() {
	case api.KindTransport:
		return "Cannot reach the NeuroGrowth server. Check your connection and the API URL."
	case api.KindUnauthorized:
		return "Your session has expired. Please log in again."
	case api.KindValidation:
		if msgs := apiErr.Messages(); len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
		return "The request was rejected by the server."
	case api.KindNotFound:
		if msgs := apiErr.Messages(); len(msgs) > 0 {
			return msgs[0]
		}
		return "Not found."
	case api.KindServer:
		return "Something went wrong on the server. Please try again later."
	default:
		if msgs := apiErr.Messages(); len(msgs) > 0 {
			return msgs[0]
		}
		return apiErr.Error()
	}
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
