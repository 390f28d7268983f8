// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"
)

// MessageClientKeyExchange is sent by the client after the ServerHelloDone.
// With RFC 4279 PSK suites it carries the psk_identity; with ECDHE suites
// it carries the client's ephemeral public key.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.7
type MessageClientKeyExchange struct {
	IdentityHint []byte
	PublicKey    []byte
}

// Type returns the Handshake Type.
func (m MessageClientKeyExchange) Type() Type {
	return TypeClientKeyExchange
}

// Marshal encodes the Handshake.
func (m *MessageClientKeyExchange) Marshal() ([]byte, error) {
	switch {
	case (len(m.IdentityHint) != 0 && len(m.PublicKey) != 0) ||
		(len(m.IdentityHint) == 0 && len(m.PublicKey) == 0):
		return nil, errInvalidClientKeyExchange
	case len(m.PublicKey) != 0:
		return append([]byte{byte(len(m.PublicKey))}, m.PublicKey...), nil
	default:
		out := append([]byte{0x00, 0x00}, m.IdentityHint...)
		binary.BigEndian.PutUint16(out, uint16(len(out)-2)) //nolint:gosec // G115

		return out, nil
	}
}

// Unmarshal populates the message from encoded data.
func (m *MessageClientKeyExchange) Unmarshal(data []byte) error {
	if len(data) < 2 {
		return ErrBufferTooSmall
	}

	// If parsed as a public key the length byte must describe the rest of
	// the buffer exactly; otherwise it is a PSK identity, whose uint16
	// length must do the same.
	if publicKeyLength := int(data[0]); len(data) == publicKeyLength+1 {
		m.PublicKey = append([]byte{}, data[1:]...)

		return nil
	}

	pskLength := int(binary.BigEndian.Uint16(data))
	if len(data) != pskLength+2 {
		return errInvalidClientKeyExchange
	}

	m.IdentityHint = append([]byte{}, data[2:]...)

	return nil
}
