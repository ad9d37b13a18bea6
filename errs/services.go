package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Third-party service errors (image host, geocoder)
var (
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrUpstreamRejected   = errors.New("upstream rejected request")
)

// Configuration & Environment Errors
var (
	ErrConfigInvalid       = errors.New("configuration invalid")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

// NewServiceUnreachableError is a transport failure talking to the image host or geocoder.
func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Unable to reach %s", service),
		Cause:      cause,
		Field:      "service",
	}
}

// NewUpstreamError wraps a non-success answer from a remote service.
func NewUpstreamError(service string, status int, body string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstreamRejected,
		Details:    fmt.Sprintf("%s responded with status %d: %s", service, status, strings.TrimSpace(body)),
		Field:      "service",
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is missing or invalid", varName),
		Field:      varName,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration for %s", configName),
		Cause:      cause,
		Field:      configName,
	}
}

func IsServiceUnreachableError(err error) bool {
	return errors.Is(err, ErrServiceUnreachable)
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstreamRejected)
}

func IsEnvironmentVariableError(err error) bool {
	return errors.Is(err, ErrEnvironmentVariable)
}
