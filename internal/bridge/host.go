package bridge

import (
	"maps"

	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// StaticHost serves the getters from fixed values. Empty strings read as null.
type StaticHost struct {
	Installation string
	Language     string
	Region       string
	UserID       string
	// AttributionAllowed gates AttributionID; Attribution is only shared when allowed.
	AttributionAllowed bool
	Attribution        string
	Payload            map[string]any
}

func present(value string) (string, bool) {
	return value, value != ""
}

// InstallationID implements HostInfo.
func (h StaticHost) InstallationID() (string, bool) { return present(h.Installation) }

// CustomLanguage implements HostInfo.
func (h StaticHost) CustomLanguage() (string, bool) { return present(h.Language) }

// CustomRegion implements HostInfo.
func (h StaticHost) CustomRegion() (string, bool) { return present(h.Region) }

// CustomUserID implements HostInfo.
func (h StaticHost) CustomUserID() (string, bool) { return present(h.UserID) }

// AttributionID implements HostInfo.
func (h StaticHost) AttributionID() (string, error) {
	if !h.AttributionAllowed {
		return "", inapperrors.NewBridgeError("Advertising ID unavailable: Disabled by config")
	}
	if h.Attribution == "" {
		return "", inapperrors.NewBridgeError(
			"Advertising ID unavailable: Couldn't fetch it from the system provider. " +
				"Device user may have disabled it, missing project dependency or an library didn't return any.",
		)
	}
	return h.Attribution, nil
}

// CustomPayload implements HostInfo.
func (h StaticHost) CustomPayload() (map[string]any, error) {
	return maps.Clone(h.Payload), nil
}
