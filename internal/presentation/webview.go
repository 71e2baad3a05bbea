package presentation

import (
	"errors"
	"fmt"

	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// DevelopmentErrorCause details a web view failure for developers.
type DevelopmentErrorCause int

const (
	DevErrorUnknown DevelopmentErrorCause = iota
	DevErrorSSL
	DevErrorBadHTTPStatus
	DevErrorTimeout
)

func (c DevelopmentErrorCause) String() string {
	switch c {
	case DevErrorSSL:
		return "ssl"
	case DevErrorBadHTTPStatus:
		return "bad_http_status"
	case DevErrorTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Describe renders the developer-facing explanation of a web view failure.
// For bad statuses, description is the status code.
func (c DevelopmentErrorCause) Describe(description string) string {
	switch c {
	case DevErrorSSL:
		return "SSL Error. Is your certificate valid?"
	case DevErrorTimeout:
		return "Request timed out."
	case DevErrorBadHTTPStatus:
		return fmt.Sprintf("HTTP Error Code %s.", description)
	default:
		if description == "" {
			return "Unknown error."
		}
		return "Unknown error:\n" + description
	}
}

const devErrorTitle = "WebView Error"

// OnWebViewError handles a web content loading failure. In development mode the
// error is shown first and the message is dismissed once the diagnostic is closed.
func (c *Controller) OnWebViewError(cause DevelopmentErrorCause, err error, description string) {
	if err == nil {
		err = errors.New("web view failed to load")
	}
	var display *inapperrors.DisplayError
	if !errors.As(err, &display) {
		err = inapperrors.NewDisplayError(inapperrors.CauseWebView, "", err)
	}

	detail := cause.Describe(description)
	c.log.Error(err, "web view was closed because of an error")
	c.log.WithFields(map[string]any{"cause": cause.String(), "detail": detail}).Debug("web view error")

	web, ok := c.msg.WebViewComponent()
	if !ok || !web.DevMode || c.deps.DevErrors == nil || c.State() == StateDismissed {
		c.DismissForError(err)
		return
	}
	body := "The WebView encountered an error and will be closed.\n" +
		"This error will only be shown during development.\n\nCause: " + detail
	c.deps.DevErrors.ShowDevError(devErrorTitle, body, func() { c.DismissForError(err) })
}
