// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"golang.org/x/crypto/cryptobyte"
)

// MessageNewSessionTicket hands the client a ticket it can present to
// resume this session later.
//
// https://tools.ietf.org/html/rfc5077#section-3.3
type MessageNewSessionTicket struct {
	TicketLifetimeHint uint32
	Ticket             []byte
}

// Type returns the Handshake Type.
func (m MessageNewSessionTicket) Type() Type {
	return TypeSessionTicket
}

// Marshal encodes the Handshake.
func (m *MessageNewSessionTicket) Marshal() ([]byte, error) {
	if len(m.Ticket) > 0xffff {
		return nil, errTicketTooLong
	}

	var b cryptobyte.Builder
	b.AddUint32(m.TicketLifetimeHint)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(m.Ticket)
	})

	return b.Bytes()
}

// Unmarshal populates the message from encoded data.
func (m *MessageNewSessionTicket) Unmarshal(data []byte) error {
	val := cryptobyte.String(data)

	if !val.ReadUint32(&m.TicketLifetimeHint) {
		return ErrBufferTooSmall
	}

	var ticket cryptobyte.String
	if !val.ReadUint16LengthPrefixed(&ticket) {
		return ErrBufferTooSmall
	}
	if !val.Empty() {
		return ErrLengthMismatch
	}
	m.Ticket = append([]byte{}, ticket...)

	return nil
}
