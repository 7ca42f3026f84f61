package flow

import "fmt"

// ErrorKind identifies where a login attempt failed. Every kind is
// recoverable per request: the user restarts the flow from /login.
type ErrorKind string

const (
	KindStateCookieMissing       ErrorKind = "state_cookie_missing"
	KindInvalidStateSignature    ErrorKind = "invalid_state_signature"
	KindStateMismatch            ErrorKind = "state_mismatch"
	KindProviderError            ErrorKind = "provider_error"
	KindAuthorizationCodeMissing ErrorKind = "authorization_code_missing"
	KindTokenExchangeFailed      ErrorKind = "token_exchange_failed"
	KindNoAccessToken            ErrorKind = "no_access_token"
	KindProfileFetchFailed       ErrorKind = "profile_fetch_failed"
)

// FlowError is a terminal failure of one login attempt. Message is shown
// to the user; Detail carries provider status/body for the debug section
// of the error page.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Detail  string
}

func (e *FlowError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
