// Package parser turns message payloads into the typed component model.
//
// Parsing is a pure function of its input: the first invalid field aborts with a
// *errors.PayloadParsingError and no partial message is ever returned.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alexisbeaulieu97/inapp/internal/logger"
	"github.com/alexisbeaulieu97/inapp/internal/message"
	"github.com/alexisbeaulieu97/inapp/internal/metrics"
	"github.com/alexisbeaulieu97/inapp/internal/style"
	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// DefaultMessagingAPILevel is the newest payload revision this module understands.
const DefaultMessagingAPILevel = 12

// Options configures a Parser.
type Options struct {
	// APILevel is compared with a payload's minMLvl; zero means DefaultMessagingAPILevel.
	APILevel int
	Logger   *logger.Logger
	Metrics  *metrics.Recorder
}

// Parser decodes payloads for a host supporting a given messaging API level.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	apiLevel int
	log      *logger.Logger
	metrics  *metrics.Recorder
}

// New creates a Parser.
func New(opts Options) *Parser {
	level := opts.APILevel
	if level <= 0 {
		level = DefaultMessagingAPILevel
	}
	return &Parser{apiLevel: level, log: opts.Logger, metrics: opts.Metrics}
}

// ParseMessage decodes a payload with default options.
func ParseMessage(data []byte) (*message.Message, error) {
	return New(Options{}).Parse(data)
}

// APILevel reports the messaging API level the parser accepts.
func (p *Parser) APILevel() int {
	return p.apiLevel
}

// Parse decodes raw JSON into a Message.
func (p *Parser) Parse(data []byte) (*message.Message, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		p.metrics.PayloadParsed("", err)
		return nil, inapperrors.NewPayloadParsingError("invalid JSON document", err)
	}
	if payload == nil {
		err := failf("payload cannot be null")
		p.metrics.PayloadParsed("", err)
		return nil, err
	}
	return p.ParseObject(payload)
}

// ParseObject decodes an already unmarshalled JSON object into a Message.
func (p *Parser) ParseObject(payload map[string]any) (*message.Message, error) {
	msg, err := p.parse(object(payload))

	format := ""
	if msg != nil {
		format = msg.Format.String()
	}
	p.metrics.PayloadParsed(format, err)

	if err != nil {
		return nil, err
	}
	p.log.WithFields(map[string]any{
		"format":      format,
		"tracking_id": msg.TrackingID,
		"children":    len(msg.Root.Children),
	}).Debug("payload parsed")
	return msg, nil
}

func (p *Parser) parse(obj object) (*message.Message, error) {
	if minLevel := obj.optIntPtr("minMLvl"); minLevel != nil && *minLevel > p.apiLevel {
		err := inapperrors.NewPayloadParsingError(
			fmt.Sprintf("payload requires messaging API level %d, host supports %d", *minLevel, p.apiLevel),
			inapperrors.ErrMessagingAPITooNew,
		)
		p.log.Error(err, "this host is too old to display the message, please update it")
		return nil, err
	}

	rawFormat, err := obj.requireString("format")
	if err != nil {
		return nil, err
	}
	format, err := style.ParseFormat(rawFormat)
	if err != nil {
		return nil, failf("format: %v", err)
	}

	rootPayload, err := obj.requireObject("root")
	if err != nil {
		return nil, err
	}
	root, err := ParseRootContainer(rootPayload, format)
	if err != nil {
		return nil, at("root", err)
	}

	position, err := style.ParseVerticalAlignment(obj.optString("position", "center"))
	if err != nil {
		return nil, failf("position: %v", err)
	}

	closeOptions, err := ParseCloseOptions(obj.optObject("closeOptions"))
	if err != nil {
		return nil, at("closeOptions", err)
	}
	texts, err := ParseStringMap(obj.optObject("texts"))
	if err != nil {
		return nil, at("texts", err)
	}
	urls, err := ParseStringMap(obj.optObject("urls"))
	if err != nil {
		return nil, at("urls", err)
	}
	actions, err := ParseActions(obj.optObject("actions"))
	if err != nil {
		return nil, at("actions", err)
	}

	return message.New(message.Params{
		Format:       format,
		Position:     position,
		Root:         root,
		CloseOptions: closeOptions,
		Texts:        texts,
		URLs:         urls,
		Actions:      actions,
		TrackingID:   obj.optString("trackingId", ""),
		EventData:    obj.optObject("eventData"),
	}), nil
}
