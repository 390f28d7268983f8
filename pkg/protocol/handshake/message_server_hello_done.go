// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

// MessageServerHelloDone indicates the end of the ServerHello and
// associated messages. Its body is empty.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.5
type MessageServerHelloDone struct{}

// Type returns the Handshake Type.
func (m MessageServerHelloDone) Type() Type {
	return TypeServerHelloDone
}

// Marshal encodes the Handshake.
func (m *MessageServerHelloDone) Marshal() ([]byte, error) {
	return []byte{}, nil
}

// Unmarshal populates the message from encoded data.
func (m *MessageServerHelloDone) Unmarshal(data []byte) error {
	if len(data) != 0 {
		return ErrLengthMismatch
	}

	return nil
}
