// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/extension"
	"golang.org/x/crypto/cryptobyte"
)

// MessageServerHello is sent in response to a ClientHello
// message when it was able to find an acceptable set of algorithms.
// If it cannot find such a match, it will respond with a handshake
// failure alert.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.1.3
type MessageServerHello struct {
	Version protocol.Version
	Random  Random

	// Always empty: this implementation never offers session caching.
	SessionID []byte

	CipherSuiteID     uint16
	CompressionMethod protocol.CompressionMethodID
	Extensions        extension.List
}

// Type returns the Handshake Type.
func (m MessageServerHello) Type() Type {
	return TypeServerHello
}

// Marshal encodes the Handshake.
func (m *MessageServerHello) Marshal() ([]byte, error) {
	if m.CipherSuiteID == 0 {
		return nil, errCipherSuiteUnset
	}
	if len(m.SessionID) > 32 {
		return nil, ErrSessionIDTooLong
	}

	var b cryptobyte.Builder
	b.AddUint8(m.Version.Major)
	b.AddUint8(m.Version.Minor)

	rand := m.Random.MarshalFixed()
	b.AddBytes(rand[:])

	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.SessionID)
	})
	b.AddUint16(m.CipherSuiteID)
	b.AddUint8(byte(m.CompressionMethod))

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
func (m *MessageServerHello) Unmarshal(data []byte) error {
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

	if !val.ReadUint16(&m.CipherSuiteID) {
		return ErrBufferTooSmall
	}

	var compressionMethod uint8
	if !val.ReadUint8(&compressionMethod) {
		return ErrBufferTooSmall
	}
	m.CompressionMethod = protocol.CompressionMethodID(compressionMethod)

	return m.Extensions.Unmarshal(val)
}
