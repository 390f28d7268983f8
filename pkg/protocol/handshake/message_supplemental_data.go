// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"github.com/pion/dtlserver/internal/util"
	"golang.org/x/crypto/cryptobyte"
)

// SupplementalDataEntry is one typed datum inside a SupplementalData
// message.
type SupplementalDataEntry struct {
	DataType uint16
	Data     []byte
}

// MessageSupplementalData carries application-specific data the peers
// exchange before the rest of the handshake, negotiated out of band.
//
// https://tools.ietf.org/html/rfc4680
type MessageSupplementalData struct {
	Entries []SupplementalDataEntry
}

// Type returns the Handshake Type.
func (m MessageSupplementalData) Type() Type {
	return TypeSupplementalData
}

const supplementalDataLengthFieldSize = 3

// Marshal encodes the Handshake.
func (m *MessageSupplementalData) Marshal() ([]byte, error) {
	var b cryptobyte.Builder
	for _, e := range m.Entries {
		e := e
		b.AddUint16(e.DataType)
		b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
			b.AddBytes(e.Data)
		})
	}
	entries, err := b.Bytes()
	if err != nil {
		return nil, err
	}

	out := make([]byte, supplementalDataLengthFieldSize, supplementalDataLengthFieldSize+len(entries))
	util.PutBigEndianUint24(out, uint32(len(entries))) //nolint:gosec // G115

	return append(out, entries...), nil
}

// Unmarshal populates the message from encoded data.
func (m *MessageSupplementalData) Unmarshal(data []byte) error {
	if len(data) < supplementalDataLengthFieldSize {
		return ErrBufferTooSmall
	}
	if int(util.BigEndianUint24(data))+supplementalDataLengthFieldSize != len(data) {
		return ErrLengthMismatch
	}

	val := cryptobyte.String(data[supplementalDataLengthFieldSize:])
	for !val.Empty() {
		var entry SupplementalDataEntry
		var entryData cryptobyte.String
		if !val.ReadUint16(&entry.DataType) || !val.ReadUint16LengthPrefixed(&entryData) {
			return ErrBufferTooSmall
		}
		entry.Data = append([]byte{}, entryData...)
		m.Entries = append(m.Entries, entry)
	}

	return nil
}
