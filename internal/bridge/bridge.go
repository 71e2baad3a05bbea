// Package bridge answers the messages posted by web content embedded in a message.
//
// Every call returns a JSON envelope holding either a "result" or an "error" member.
// Failures never escape as panics or Go errors: they are encoded in the envelope so
// the web content stays usable.
package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

const (
	errInvalidMethod    = "Internal SDK error (-10): Invalid method"
	errEmptyArguments   = "Internal SDK error (-11): Invalid arguments"
	errInvalidArguments = "Internal SDK error (-12): Invalid arguments"

	codeUnexpected      = -3
	codeTrackingID      = -20
	codeMissingArgument = -21
	codeCustomPayload   = -23

	// internalPayloadKey is stripped from the custom payload handed to web content.
	internalPayloadKey = "com.batch"

	resultOK = "ok"
)

// Listener receives the actions requested by web content.
type Listener interface {
	OnDismissAction(analyticsID string)
	OnOpenDeeplinkAction(url string, openInApp *bool, analyticsID string)
	OnPerformAction(name string, args map[string]any, analyticsID string)
}

// HostInfo answers the read-only getters. A false ok yields a null result.
type HostInfo interface {
	InstallationID() (string, bool)
	CustomLanguage() (string, bool)
	CustomRegion() (string, bool)
	CustomUserID() (string, bool)
	// AttributionID returns a *errors.BridgeError when the id cannot be shared.
	AttributionID() (string, error)
	CustomPayload() (map[string]any, error)
}

// Options configures a Bridge.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.Recorder
}

// Bridge dispatches posted messages for one presented message.
type Bridge struct {
	msg      *message.Message
	listener Listener
	host     HostInfo
	log      *logger.Logger
	metrics  *metrics.Recorder
}

// New creates a Bridge. listener and host may be nil.
func New(msg *message.Message, listener Listener, host HostInfo, opts Options) *Bridge {
	return &Bridge{
		msg:      msg,
		listener: listener,
		host:     host,
		log:      opts.Logger.With("component", "bridge"),
		metrics:  opts.Metrics,
	}
}

type handler func(b *Bridge, args map[string]any) (any, error)

var methods = map[string]handler{
	"dismiss":           (*Bridge).dismiss,
	"openDeeplink":      (*Bridge).openDeeplink,
	"performAction":     (*Bridge).performAction,
	"getInstallationID": hostString(HostInfo.InstallationID),
	"getCustomLanguage": hostString(HostInfo.CustomLanguage),
	"getCustomRegion":   hostString(HostInfo.CustomRegion),
	"getCustomUserID":   hostString(HostInfo.CustomUserID),
	"getAttributionID":  (*Bridge).attributionID,
	"getCustomPayload":  (*Bridge).customPayload,
	"getTrackingID":     (*Bridge).trackingID,
}

// Methods lists the supported method names.
func Methods() []string {
	return slices.Sorted(maps.Keys(methods))
}

// PostMessage runs method with its JSON-encoded arguments and returns the response envelope.
func (b *Bridge) PostMessage(method, rawArgs string) (response string) {
	label := method
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			b.log.With("method", method).Error(err, "unexpected bridge error")
			b.metrics.BridgeCall(label, err)
			response = errorEnvelope(internalMessage(codeUnexpected))
		}
	}()

	if strings.TrimSpace(method) == "" {
		label = "invalid"
		b.metrics.BridgeCall(label, errors.New("blank method"))
		return errorEnvelope(errInvalidMethod)
	}
	run, ok := methods[method]
	if !ok {
		label = "unknown"
		b.log.With("method", method).Warn("unknown web bridge method")
		b.metrics.BridgeCall(label, errors.New("unknown method"))
		return errorEnvelope(fmt.Sprintf("Unimplemented native method '%s'. Is the native SDK too old?", method))
	}

	if strings.TrimSpace(rawArgs) == "" {
		b.metrics.BridgeCall(label, errors.New("empty arguments"))
		return errorEnvelope(errEmptyArguments)
	}
	args, err := decodeArguments(rawArgs)
	if err != nil {
		b.log.WithFields(map[string]any{"method": method, "arguments": rawArgs}).Debug("could not decode bridge arguments")
		b.metrics.BridgeCall(label, err)
		return errorEnvelope(errInvalidArguments)
	}

	result, err := run(b, args)
	b.metrics.BridgeCall(label, err)
	if err != nil {
		return errorEnvelope(b.describe(method, err))
	}
	return resultEnvelope(result)
}

func decodeArguments(raw string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var args map[string]any
	if err := dec.Decode(&args); err != nil {
		return nil, err
	}
	if args == nil {
		return nil, errors.New("arguments are not an object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after arguments")
	}
	return args, nil
}

// describe turns a handler error into the message web content is allowed to see.
func (b *Bridge) describe(method string, err error) string {
	log := b.log.With("method", method)
	var public *inapperrors.BridgeError
	if errors.As(err, &public) {
		log.Error(err, "web bridge error")
		return public.Message
	}
	var internal *inapperrors.BridgeInternalError
	if errors.As(err, &internal) {
		log.Error(err, "internal web bridge error")
		return internalMessage(internal.Code)
	}
	log.Error(err, "unexpected bridge error")
	return internalMessage(codeUnexpected)
}

func internalMessage(code int) string {
	return fmt.Sprintf("Internal SDK error (%d)", code)
}

func resultEnvelope(result any) string {
	return encode(map[string]any{"result": result})
}

func errorEnvelope(reason string) string {
	return encode(map[string]any{"error": reason})
}

func encode(envelope map[string]any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(envelope); err != nil {
		return `{"error":"unknown serialization error (-2)"}`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// optString reads a scalar argument as text. Absent and null values are not set.
func optString(args map[string]any, key string) (string, bool) {
	value, ok := args[key]
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
}

// optBool reads a boolean argument; "true" and "false" strings are accepted.
func optBool(args map[string]any, key string) *bool {
	switch v := args[key].(type) {
	case bool:
		return &v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			parsed := true
			return &parsed
		case "false":
			parsed := false
			return &parsed
		}
		return nil
	default:
		return nil
	}
}

func analyticsID(args map[string]any) string {
	id, _ := optString(args, "analyticsID")
	return id
}

func (b *Bridge) dismiss(args map[string]any) (any, error) {
	if b.listener != nil {
		b.listener.OnDismissAction(analyticsID(args))
	}
	return resultOK, nil
}

func (b *Bridge) openDeeplink(args map[string]any) (any, error) {
	url, _ := optString(args, "url")
	if url == "" {
		return nil, inapperrors.NewBridgeInternalError(codeMissingArgument, "cannot open deeplink: empty url", nil)
	}
	if b.listener != nil {
		b.listener.OnOpenDeeplinkAction(url, optBool(args, "openInApp"), analyticsID(args))
	}
	return resultOK, nil
}

func (b *Bridge) performAction(args map[string]any) (any, error) {
	name, _ := optString(args, "name")
	if name == "" {
		return nil, inapperrors.NewBridgeInternalError(codeMissingArgument, "cannot perform action: empty name", nil)
	}
	actionArgs, ok := args["args"].(map[string]any)
	if !ok {
		actionArgs = map[string]any{}
	}
	if b.listener != nil {
		b.listener.OnPerformAction(name, actionArgs, analyticsID(args))
	}
	return resultOK, nil
}

func hostString(get func(HostInfo) (string, bool)) handler {
	return func(b *Bridge, _ map[string]any) (any, error) {
		if b.host != nil {
			if value, ok := get(b.host); ok {
				return value, nil
			}
		}
		return nil, nil
	}
}

func (b *Bridge) attributionID(map[string]any) (any, error) {
	if b.host == nil {
		return nil, inapperrors.NewBridgeError("Advertising ID unavailable: Disabled by config")
	}
	id, err := b.host.AttributionID()
	if err != nil {
		return nil, err
	}
	return id, nil
}

func (b *Bridge) customPayload(map[string]any) (any, error) {
	payload := map[string]any{}
	if b.host != nil {
		source, err := b.host.CustomPayload()
		if err != nil {
			return nil, inapperrors.NewBridgeInternalError(codeCustomPayload, "could not copy custom payload", err)
		}
		maps.Copy(payload, source)
	}
	delete(payload, internalPayloadKey)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, inapperrors.NewBridgeInternalError(codeCustomPayload, "could not copy custom payload", err)
	}
	return string(encoded), nil
}

func (b *Bridge) trackingID(map[string]any) (any, error) {
	if b.msg == nil {
		return nil, inapperrors.NewBridgeInternalError(codeTrackingID, "could not get message", nil)
	}
	if b.msg.TrackingID == "" {
		return nil, nil
	}
	return b.msg.TrackingID, nil
}
