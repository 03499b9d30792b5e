package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/tutor"
	"google.golang.org/genai"
)

// classify folds an SDK error into a Failure and reports whether a retry
// could help.
func classify(err error, timeout time.Duration) (tutor.Failure, bool) {
	if apiErr, ok := asAPIError(err); ok {
		return classifyAPIError(apiErr)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return tutor.Failure{
			Kind:       tutor.FailureUnavailable,
			Detail:     fmt.Sprintf("timeout after %s", timeout),
			NoResponse: true,
		}, true
	case errors.Is(err, context.Canceled):
		return tutor.Failure{Kind: tutor.FailureUnavailable, Detail: "request canceled", NoResponse: true}, false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return tutor.Failure{Kind: tutor.FailureUnavailable, Detail: err.Error(), NoResponse: true}, true
	}
	return tutor.Failure{Kind: tutor.FailureUnavailable, Detail: err.Error(), NoResponse: true}, false
}

func classifyAPIError(e genai.APIError) (tutor.Failure, bool) {
	detail := fmt.Sprintf("%d %s: %s", e.Code, e.Status, e.Message)
	switch {
	case isAuthError(e):
		return tutor.Failure{Kind: tutor.FailureAuthentication, Detail: detail}, false
	case e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError:
		return tutor.Failure{Kind: tutor.FailureUnavailable, Detail: detail}, true
	default:
		return tutor.Failure{Kind: tutor.FailureUnavailable, Detail: detail}, false
	}
}

// isAuthError detects a rejected credential. Gemini reports an invalid key
// as 400 INVALID_ARGUMENT, so the message is checked as well.
func isAuthError(e genai.APIError) bool {
	switch {
	case e.Code == http.StatusUnauthorized, e.Code == http.StatusForbidden:
		return true
	case e.Status == "UNAUTHENTICATED", e.Status == "PERMISSION_DENIED":
		return true
	}
	return strings.Contains(strings.ToLower(e.Message), "api key not valid")
}

func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	ok := errors.As(err, &v)
	return v, ok
}
