// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// KeyExchange is one key exchange algorithm's view of the handshake. The
// policy picks the implementation; the driver feeds it the messages it
// owns and asks it for the premaster secret at the end.
//
// The driver calls exactly one of ProcessServerCredentials and
// SkipServerCredentials, and exactly one of ProcessClientCertificate and
// SkipClientCredentials, depending on what was present.
type KeyExchange interface {
	Init(ctx *Context) error

	ProcessServerCredentials(credentials Credentials) error
	SkipServerCredentials() error

	// GenerateServerKeyExchange returns the ServerKeyExchange body, or
	// nil when the algorithm does not send one.
	GenerateServerKeyExchange() ([]byte, error)

	ValidateCertificateRequest(req *handshake.MessageCertificateRequest) error

	ProcessClientCertificate(cert *handshake.MessageCertificate) error
	SkipClientCredentials() error

	// ProcessClientKeyExchange consumes the raw ClientKeyExchange body;
	// its layout depends on the algorithm.
	ProcessClientKeyExchange(body []byte) error

	// GeneratePreMasterSecret yields the premaster secret the master
	// secret is derived from. The driver zeroes the returned slice once
	// the derivation is done.
	GeneratePreMasterSecret() ([]byte, error)
}
