// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package extension implements the extension values in the ClientHello/ServerHello
package extension

import (
	"golang.org/x/crypto/cryptobyte"
)

// TypeValue is the 2 byte value for a TLS Extension as registered in the IANA
//
// https://www.iana.org/assignments/tls-extensiontype-values/tls-extensiontype-values.xhtml
type TypeValue uint16

// TypeValue constants.
const (
	ServerNameTypeValue                   TypeValue = 0
	SupportedEllipticCurvesTypeValue      TypeValue = 10
	SupportedPointFormatsTypeValue        TypeValue = 11
	SupportedSignatureAlgorithmsTypeValue TypeValue = 13
	UseSRTPTypeValue                      TypeValue = 14
	ALPNTypeValue                         TypeValue = 16
	UseExtendedMasterSecretTypeValue      TypeValue = 23
	SessionTicketTypeValue                TypeValue = 35
	RenegotiationInfoTypeValue            TypeValue = 65281
)

// Raw is a single extension as it appears on the wire: the registered
// type plus its opaque extension_data. The handshake driver treats
// extension payloads as opaque and hands them to the server policy.
type Raw struct {
	Type TypeValue
	Data []byte
}

// List is an ordered set of extensions. Order is the order the peer (or
// the policy) produced, and is preserved on the wire.
type List []Raw

// Unmarshal decodes a whole extensions block, outer length included.
// A nil or empty buffer decodes to a nil list, which callers use to
// distinguish "no extensions block" from "empty extensions block".
func (l *List) Unmarshal(buf []byte) error {
	if len(buf) == 0 {
		*l = nil

		return nil
	}

	val := cryptobyte.String(buf)
	var block cryptobyte.String
	if !val.ReadUint16LengthPrefixed(&block) || !val.Empty() {
		return errLengthMismatch
	}

	out := List{}
	for !block.Empty() {
		var typ uint16
		var data cryptobyte.String
		if !block.ReadUint16(&typ) || !block.ReadUint16LengthPrefixed(&data) {
			return errBufferTooSmall
		}
		out = append(out, Raw{Type: TypeValue(typ), Data: append([]byte{}, data...)})
	}
	*l = out

	return nil
}

// Marshal encodes the whole extensions block, outer length included.
// A nil list encodes to no bytes at all, mirroring Unmarshal.
func (l List) Marshal() ([]byte, error) {
	if l == nil {
		return nil, nil
	}

	var b cryptobyte.Builder
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, ext := range l {
			ext := ext
			b.AddUint16(uint16(ext.Type))
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes(ext.Data)
			})
		}
	})

	return b.Bytes()
}

// Find returns the extension_data of the first extension with the given
// type, and whether it was present at all.
func (l List) Find(typ TypeValue) ([]byte, bool) {
	for _, ext := range l {
		if ext.Type == typ {
			return ext.Data, true
		}
	}

	return nil, false
}

// Has reports whether the list carries an extension of the given type.
func (l List) Has(typ TypeValue) bool {
	_, ok := l.Find(typ)

	return ok
}
