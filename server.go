// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package dtlserver implements the server side of the DTLS handshake
// over an already established datagram transport. Record protection and
// flight retransmission are supplied by the caller through the
// RecordLayer and ReliableHandshake adapters; this package owns the
// message sequencing, negotiation policy callbacks, transcript
// bookkeeping and the Finished exchange.
package dtlserver

import (
	"errors"
	"net"

	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/logging"
)

// Config collects everything a ServerProtocol needs besides the policy:
// the adapter factories and the ambient plumbing.
type Config struct {
	// NewRecordLayer builds the record layer over the datagram
	// transport. Required.
	NewRecordLayer func(transport net.Conn, ctx *Context) (RecordLayer, error)

	// NewReliableHandshake builds the retransmitting handshake layer on
	// top of the record layer. Required.
	NewReliableHandshake func(layer RecordLayer, ctx *Context) (ReliableHandshake, error)

	// LoggerFactory to customize the logging backend, defaults to
	// logging.NewDefaultLoggerFactory().
	LoggerFactory logging.LoggerFactory
}

// ServerProtocol accepts DTLS handshakes. A single value may serve many
// connections; Accept is safe for concurrent use as long as
// SetVerifyRequests is not called concurrently with it.
type ServerProtocol struct {
	verifyRequests bool

	newRecordLayer       func(transport net.Conn, ctx *Context) (RecordLayer, error)
	newReliableHandshake func(layer RecordLayer, ctx *Context) (ReliableHandshake, error)

	log logging.LeveledLogger
}

// NewServerProtocol builds a ServerProtocol from the config. Client
// certificate verification is enforced by default.
func NewServerProtocol(config *Config) (*ServerProtocol, error) {
	switch {
	case config == nil:
		return nil, errNoConfigProvided
	case config.NewRecordLayer == nil:
		return nil, errNoRecordLayerFactory
	case config.NewReliableHandshake == nil:
		return nil, errNoReliableHandshakeFactory
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	return &ServerProtocol{
		verifyRequests:       true,
		newRecordLayer:       config.NewRecordLayer,
		newReliableHandshake: config.NewReliableHandshake,
		log:                  loggerFactory.NewLogger("dtls"),
	}, nil
}

// VerifyRequests reports whether a client that was sent a
// CertificateRequest must answer with a verified certificate.
func (p *ServerProtocol) VerifyRequests() bool {
	return p.verifyRequests
}

// SetVerifyRequests controls whether a client that was sent a
// CertificateRequest must answer with a verified certificate.
func (p *ServerProtocol) SetVerifyRequests(verifyRequests bool) {
	p.verifyRequests = verifyRequests
}

// Accept negotiates a DTLS session with the peer on the far end of the
// datagram transport and returns the protected channel. It blocks until
// the handshake completes or fails; closing the transport unblocks it.
// On failure the pending epoch is closed, key material is wiped, and
// when the failure maps onto a DTLS alert that alert is sent before
// Accept returns.
func (p *ServerProtocol) Accept(server ServerPolicy, transport net.Conn) (*Transport, error) {
	if server == nil {
		return nil, errNilServerPolicy
	}
	if transport == nil {
		return nil, errNilTransport
	}

	state := &serverHandshakeState{
		server: server,
		ctx:    &Context{},
	}
	if err := state.ctx.securityParameters.ServerRandom.Populate(); err != nil {
		return nil, &InternalError{Err: err}
	}
	if err := server.Init(state.ctx); err != nil {
		return nil, &FatalError{Err: err}
	}

	recordLayer, err := p.newRecordLayer(transport, state.ctx)
	if err != nil {
		return nil, &FatalError{Err: err}
	}
	reliableHandshake, err := p.newReliableHandshake(recordLayer, state.ctx)
	if err != nil {
		return nil, &FatalError{Err: err}
	}

	dtlsTransport, err := p.serverHandshake(state, recordLayer, reliableHandshake)
	if err != nil {
		var alertErr *alertError
		if errors.As(err, &alertErr) {
			if notifyErr := recordLayer.Notify(alertErr.Level, alertErr.Description); notifyErr != nil {
				p.log.Debugf("[handshake:server] failed to send alert: %v", notifyErr)
			}
		}

		state.ctx.securityParameters.destroy()
		if closeErr := recordLayer.Close(); closeErr != nil {
			p.log.Debugf("[handshake:server] failed to close record layer: %v", closeErr)
		}

		return nil, err
	}

	return dtlsTransport, nil
}

func versionString(v protocol.Version) string {
	switch {
	case v.Equal(protocol.Version1_0):
		return "DTLS 1.0"
	case v.Equal(protocol.Version1_2):
		return "DTLS 1.2"
	default:
		return "unknown"
	}
}
