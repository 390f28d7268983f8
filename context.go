// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"github.com/pion/dtlserver/pkg/crypto/prf"
	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// SecurityParameters is the mutable per-connection negotiation state of
// RFC 5246 Appendix A.6, reduced to the fields the server handshake
// needs. The entity is always the server.
type SecurityParameters struct {
	ClientRandom handshake.Random
	ServerRandom handshake.Random

	// Derived from the selected cipher suite once the ServerHello is on
	// the wire.
	PRFAlgorithm         prf.Algorithm
	CompressionAlgorithm protocol.CompressionMethodID
	VerifyDataLength     int

	masterSecret []byte
}

// MasterSecret returns the negotiated 48-byte master secret, nil until
// the ClientKeyExchange has been processed.
func (p *SecurityParameters) MasterSecret() []byte {
	return p.masterSecret
}

func (p *SecurityParameters) setMasterSecret(masterSecret []byte) {
	p.masterSecret = masterSecret
}

// destroy overwrites key material. Called on every failure path before
// the error reaches the caller.
func (p *SecurityParameters) destroy() {
	for i := range p.masterSecret {
		p.masterSecret[i] = 0
	}
	p.masterSecret = nil
}

// Context is the per-connection view the driver shares with the server
// policy and the key exchange. It is created at Accept entry and must
// not be retained after the callback that received it returns an error.
type Context struct {
	securityParameters SecurityParameters

	clientVersion protocol.Version
	serverVersion protocol.Version
}

// SecurityParameters exposes the connection's negotiation state.
func (c *Context) SecurityParameters() *SecurityParameters {
	return &c.securityParameters
}

// ClientVersion is the protocol version the client announced. Before the
// ClientHello body is parsed this is the version the record layer
// discovered.
func (c *Context) ClientVersion() protocol.Version {
	return c.clientVersion
}

// ServerVersion is the protocol version the policy chose. Zero until the
// ServerHello has been generated.
func (c *Context) ServerVersion() protocol.Version {
	return c.serverVersion
}
