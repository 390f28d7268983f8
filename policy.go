// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/extension"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// Cipher is the record-protection state for one epoch. The driver never
// touches it: the policy builds it from the negotiated parameters and
// the record layer consumes it when the pending epoch is installed.
type Cipher interface {
	Encrypt(raw []byte) ([]byte, error)
	Decrypt(in []byte) ([]byte, error)
}

// Credentials is the server's identity: the DER certificate chain sent
// in the Certificate message, leaf first.
type Credentials interface {
	Certificate() [][]byte
}

// ServerPolicy makes every negotiation decision for one handshake. The
// driver calls it synchronously, from a single goroutine, in the order
// the methods are listed here. An error from Init fails Accept before
// any alert can be sent; an error from any other method aborts the
// handshake with an internal_error alert.
type ServerPolicy interface {
	// Init hands the policy the connection context. The context stays
	// valid for the lifetime of the handshake.
	Init(ctx *Context) error

	NotifyClientVersion(version protocol.Version) error
	NotifyOfferedCipherSuites(ids []CipherSuiteID) error
	NotifyOfferedCompressionMethods(methods []CompressionMethodID) error
	NotifySecureRenegotiation(secure bool) error

	// ProcessClientExtensions is only called when the ClientHello
	// carried an extensions block.
	ProcessClientExtensions(extensions extension.List) error

	ServerVersion() (protocol.Version, error)
	SelectedCipherSuite() (CipherSuiteID, error)
	SelectedCompressionMethod() (CompressionMethodID, error)
	ServerExtensions() (extension.List, error)

	// ServerSupplementalData returns nil when no SupplementalData
	// message should be sent.
	ServerSupplementalData() ([]handshake.SupplementalDataEntry, error)

	KeyExchange() (KeyExchange, error)

	// Credentials returns nil for an anonymous server. Without
	// credentials no Certificate or CertificateRequest is sent.
	Credentials() (Credentials, error)

	// CertificateRequest returns nil when the server does not ask for
	// client authentication. Only consulted when Credentials returned
	// a non-nil value.
	CertificateRequest() (*handshake.MessageCertificateRequest, error)

	// ProcessClientSupplementalData receives the client's entries, or
	// nil when the client sent no SupplementalData message.
	ProcessClientSupplementalData(entries []handshake.SupplementalDataEntry) error

	// Cipher builds the record protection for the pending epoch from
	// the negotiated parameters and master secret.
	Cipher() (Cipher, error)

	// NewSessionTicket is only consulted when the negotiated server
	// extensions included SessionTicket.
	NewSessionTicket() (*handshake.MessageNewSessionTicket, error)

	NotifyHandshakeComplete() error
}
