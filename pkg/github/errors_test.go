package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v68/github"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 422, Message: "Validation Failed"}
	want := "GitHub API error (status 422): Validation Failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &APIError{StatusCode: 500}
	want = "GitHub API error (status 500)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"api 404", &APIError{StatusCode: 404}, true},
		{"api 500", &APIError{StatusCode: 500}, false},
		{"wrapped api 404", fmt.Errorf("lookup: %w", &APIError{StatusCode: 404}), true},
		{
			"go-github 404",
			&github.ErrorResponse{Response: &http.Response{StatusCode: http.StatusNotFound}},
			true,
		},
		{
			"go-github 403",
			&github.ErrorResponse{Response: &http.Response{StatusCode: http.StatusForbidden}},
			false,
		},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.want {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"429", &APIError{StatusCode: http.StatusTooManyRequests}, true},
		{"403 with rate limit", &APIError{StatusCode: http.StatusForbidden, RateLimit: &RateLimitInfo{}}, true},
		{"plain 403", &APIError{StatusCode: http.StatusForbidden}, false},
		{"500", &APIError{StatusCode: 500}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAuthenticationError(t *testing.T) {
	if !IsAuthenticationError(&APIError{StatusCode: http.StatusUnauthorized}) {
		t.Error("401 should be an authentication error")
	}
	if !IsAuthenticationError(&APIError{StatusCode: http.StatusForbidden}) {
		t.Error("plain 403 should be an authentication error")
	}
	if IsAuthenticationError(&APIError{StatusCode: http.StatusForbidden, RateLimit: &RateLimitInfo{}}) {
		t.Error("rate-limited 403 should not be an authentication error")
	}
}

func TestParseErrorResponse(t *testing.T) {
	body := []byte(`{"message":"Validation Failed","errors":[{"resource":"PullRequest","field":"base","code":"invalid"}]}`)
	apiErr := parseErrorResponse(422, body)

	if apiErr.StatusCode != 422 {
		t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
	}
	if apiErr.Message != "Validation Failed" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Validation Failed")
	}
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Field != "base" {
		t.Errorf("Errors = %+v, want one detail with field base", apiErr.Errors)
	}

	// Non-JSON body falls back to the raw text.
	apiErr = parseErrorResponse(502, []byte("bad gateway"))
	if apiErr.Message != "bad gateway" {
		t.Errorf("Message = %q, want raw body", apiErr.Message)
	}
}

func TestStatusCodeOf(t *testing.T) {
	if got := statusCodeOf(&APIError{StatusCode: 422}); got != 422 {
		t.Errorf("statusCodeOf(APIError) = %d, want 422", got)
	}
	ghErr := &github.ErrorResponse{Response: &http.Response{StatusCode: 409}}
	if got := statusCodeOf(fmt.Errorf("wrapped: %w", ghErr)); got != 409 {
		t.Errorf("statusCodeOf(ErrorResponse) = %d, want 409", got)
	}
	if got := statusCodeOf(errors.New("boom")); got != 0 {
		t.Errorf("statusCodeOf(plain) = %d, want 0", got)
	}
}
