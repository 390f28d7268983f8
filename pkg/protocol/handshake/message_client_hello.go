// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"

	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/extension"
	"golang.org/x/crypto/cryptobyte"
)

// MessageClientHello is for when a client first connects to a server it is
// required to send the ClientHello as its first message. The client can also send a
// ClientHello in response to a HelloRequest or on its own initiative in order
// to renegotiate the security parameters in an existing connection.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.1.2
type MessageClientHello struct {
	Version protocol.Version
	Random  Random

	SessionID []byte

	// DTLS addition over the TLS ClientHello
	// https://tools.ietf.org/html/rfc6347#section-4.2.1
	Cookie []byte

	CipherSuiteIDs     []uint16
	CompressionMethods []protocol.CompressionMethodID
	Extensions         extension.List
}

// Type returns the Handshake Type.
func (m MessageClientHello) Type() Type {
	return TypeClientHello
}

// Marshal encodes the Handshake.
func (m *MessageClientHello) Marshal() ([]byte, error) {
	if len(m.SessionID) > 32 {
		return nil, ErrSessionIDTooLong
	}
	if len(m.Cookie) > 255 {
		return nil, errCookieTooLong
	}

	var b cryptobyte.Builder
	b.AddUint8(m.Version.Major)
	b.AddUint8(m.Version.Minor)

	rand := m.Random.MarshalFixed()
	b.AddBytes(rand[:])

	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.SessionID)
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.Cookie)
	})
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, id := range m.CipherSuiteIDs {
			b.AddUint16(id)
		}
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, c := range m.CompressionMethods {
			b.AddUint8(byte(c))
		}
	})

	out, err := b.Bytes()
	if err != nil {
		return nil, err
	}

	extensions, err := m.Extensions.Marshal()
	if err != nil {
		return nil, err
	}

	return append(out, extensions...), nil
}

// Unmarshal populates the message from encoded data.
//
// The per-field length checks follow RFC 5246 Section 7.4.1.2 and
// RFC 6347 Section 4.2.1; callers distinguish wire-format errors from
// parameter-range errors by the returned error value.
func (m *MessageClientHello) Unmarshal(data []byte) error { //nolint:cyclop
	val := cryptobyte.String(data)

	if !val.ReadUint8(&m.Version.Major) || !val.ReadUint8(&m.Version.Minor) {
		return ErrBufferTooSmall
	}
	if !protocol.IsDTLS(m.Version.Major, m.Version.Minor) {
		return ErrNotDTLSVersion
	}

	var random [RandomLength]byte
	if !val.CopyBytes(random[:]) {
		return ErrBufferTooSmall
	}
	m.Random.UnmarshalFixed(random)

	var sessionID cryptobyte.String
	if !val.ReadUint8LengthPrefixed(&sessionID) {
		return ErrBufferTooSmall
	}
	if len(sessionID) > 32 {
		return ErrSessionIDTooLong
	}
	m.SessionID = append([]byte{}, sessionID...)

	var cookie cryptobyte.String
	if !val.ReadUint8LengthPrefixed(&cookie) {
		return ErrBufferTooSmall
	}
	m.Cookie = append([]byte{}, cookie...)

	var cipherSuitesLength uint16
	if !val.ReadUint16(&cipherSuitesLength) {
		return ErrBufferTooSmall
	}
	if cipherSuitesLength < 2 || cipherSuitesLength%2 != 0 {
		return ErrCipherSuitesBadLength
	}
	cipherSuites := make([]byte, cipherSuitesLength)
	if !val.CopyBytes(cipherSuites) {
		return ErrBufferTooSmall
	}
	m.CipherSuiteIDs = make([]uint16, 0, cipherSuitesLength/2)
	for i := 0; i < len(cipherSuites); i += 2 {
		m.CipherSuiteIDs = append(m.CipherSuiteIDs, binary.BigEndian.Uint16(cipherSuites[i:]))
	}

	var compressionMethodsLength uint8
	if !val.ReadUint8(&compressionMethodsLength) {
		return ErrBufferTooSmall
	}
	if compressionMethodsLength < 1 {
		return ErrCompressionMethodsEmpty
	}
	compressionMethods := make([]byte, compressionMethodsLength)
	if !val.CopyBytes(compressionMethods) {
		return ErrBufferTooSmall
	}
	m.CompressionMethods = make([]protocol.CompressionMethodID, 0, compressionMethodsLength)
	for _, c := range compressionMethods {
		m.CompressionMethods = append(m.CompressionMethods, protocol.CompressionMethodID(c))
	}

	// The extensions block is optional; anything left over must be a
	// well formed block with nothing trailing it.
	return m.Extensions.Unmarshal(val)
}
