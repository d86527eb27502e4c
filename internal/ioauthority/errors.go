package ioauthority

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnrecon/pkg/errcode"
)

// RequestError creates an error for transport-level failures.
// Retryable by the caller.
func RequestError(url string, err error) error {
	return &gn.Error{
		Code: errcode.AuthorityRequestError,
		Msg:  "Authority request failed, the call can be retried",
		Err:  fmt.Errorf("authority request %s: %w", url, err),
	}
}

// StatusError creates an error for unexpected HTTP statuses,
// including rate-limit responses.
func StatusError(url string, status int) error {
	msg := `Authority returned HTTP %d

<em>If this is 429 or 503:</em> the authority is rate-limiting;
raise <em>authority.delay_ms</em> in gnrecon.yaml and re-run.`

	return &gn.Error{
		Code: errcode.AuthorityStatusError,
		Msg:  msg,
		Vars: []any{status},
		Err:  fmt.Errorf("authority %s: HTTP %d", url, status),
	}
}

// DecodeError creates an error for malformed authority responses.
func DecodeError(url string, err error) error {
	return &gn.Error{
		Code: errcode.AuthorityDecodeError,
		Msg:  "Could not decode authority response",
		Err:  fmt.Errorf("authority decode %s: %w", url, err),
	}
}

// CacheError creates an error for authority cache failures.
func CacheError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.AuthorityCacheError,
		Msg:  "Could not open authority response cache at <em>%s</em>",
		Vars: []any{dir},
		Err:  fmt.Errorf("authority cache %s: %w", dir, err),
	}
}
