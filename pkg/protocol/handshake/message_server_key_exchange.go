// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// MessageServerKeyExchange carries the key exchange algorithm's
// ServerKeyExchange parameters. Their layout depends entirely on the
// negotiated algorithm, so the body is opaque at this layer; the key
// exchange that produced it is the only party that can interpret it.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.3
type MessageServerKeyExchange struct {
	Params []byte
}

// Type returns the Handshake Type.
func (m MessageServerKeyExchange) Type() Type {
	return TypeServerKeyExchange
}

// Marshal encodes the Handshake.
func (m *MessageServerKeyExchange) Marshal() ([]byte, error) {
	return append([]byte{}, m.Params...), nil
}

// Unmarshal populates the message from encoded data.
func (m *MessageServerKeyExchange) Unmarshal(data []byte) error {
	m.Params = append([]byte{}, data...)

	return nil
}
