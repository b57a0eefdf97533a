package llm

import (
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"

	"github.com/Mukundj26/Classroom-Note-Merger/internal/interfaces"
)

// credentialMarkers are provider messages that indicate a rejected API key
// when no status code is available.
var credentialMarkers = []string{
	"API key not valid",
	"API_KEY_INVALID",
	"invalid x-api-key",
	"authentication_error",
}

// classifyError wraps a provider error in a CapabilityError with a kind.
// It is the single place that decides whether a failure means bad credentials.
func classifyError(capability interfaces.Capability, err error) error {
	if err == nil {
		return nil
	}

	var capErr *interfaces.CapabilityError
	if errors.As(err, &capErr) {
		return err
	}

	return &interfaces.CapabilityError{
		Capability: capability,
		Kind:       errorKind(err),
		Err:        err,
	}
}

func errorKind(err error) interfaces.ErrorKind {
	switch statusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return interfaces.ErrorKindInvalidCredentials
	case http.StatusTooManyRequests:
		return interfaces.ErrorKindRateLimited
	}

	msg := err.Error()
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return interfaces.ErrorKindInvalidCredentials
		}
	}
	if IsRateLimitError(err) {
		return interfaces.ErrorKindRateLimited
	}
	return interfaces.ErrorKindUnknown
}

// statusCode extracts the HTTP status from provider SDK errors, or 0.
func statusCode(err error) int {
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) {
		return claudeErr.StatusCode
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiErrPtr *genai.APIError
	if errors.As(err, &geminiErrPtr) && geminiErrPtr != nil {
		return geminiErrPtr.Code
	}
	return 0
}

// emptyResponse is returned when a provider answers without usable content.
func emptyResponse(capability interfaces.Capability, provider string) error {
	return &interfaces.CapabilityError{
		Capability: capability,
		Kind:       interfaces.ErrorKindEmptyResponse,
		Err:        errors.New("empty response from " + provider + " API"),
	}
}
