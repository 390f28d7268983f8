// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"github.com/pion/dtlserver/pkg/crypto/clientcertificate"
	"github.com/pion/dtlserver/pkg/crypto/signaturehash"
	"golang.org/x/crypto/cryptobyte"
)

// MessageCertificateRequest is sent by a non-anonymous server to request
// a certificate from the client.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.4
type MessageCertificateRequest struct {
	CertificateTypes            []clientcertificate.Type
	SignatureHashAlgorithms     []signaturehash.Algorithm
	CertificateAuthoritiesNames [][]byte
}

// Type returns the Handshake Type.
func (m MessageCertificateRequest) Type() Type {
	return TypeCertificateRequest
}

// Marshal encodes the Handshake.
func (m *MessageCertificateRequest) Marshal() ([]byte, error) {
	var b cryptobyte.Builder

	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, v := range m.CertificateTypes {
			b.AddUint8(byte(v))
		}
	})

	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, v := range m.SignatureHashAlgorithms {
			b.AddUint8(uint8(v.Hash))      //nolint:gosec // G115
			b.AddUint8(uint8(v.Signature)) //nolint:gosec // G115
		}
	})

	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, name := range m.CertificateAuthoritiesNames {
			name := name
			b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
				b.AddBytes(name)
			})
		}
	})

	return b.Bytes()
}

// Unmarshal populates the message from encoded data.
func (m *MessageCertificateRequest) Unmarshal(data []byte) error { //nolint:cyclop
	val := cryptobyte.String(data)

	var certificateTypes cryptobyte.String
	if !val.ReadUint8LengthPrefixed(&certificateTypes) {
		return ErrBufferTooSmall
	}
	for _, t := range certificateTypes {
		if _, ok := clientcertificate.Types()[clientcertificate.Type(t)]; ok {
			m.CertificateTypes = append(m.CertificateTypes, clientcertificate.Type(t))
		}
	}

	var sigHashAlgs cryptobyte.String
	if !val.ReadUint16LengthPrefixed(&sigHashAlgs) || len(sigHashAlgs)%2 != 0 {
		return ErrBufferTooSmall
	}
	for i := 0; i < len(sigHashAlgs); i += 2 {
		if alg, err := signaturehash.Parse(sigHashAlgs[i], sigHashAlgs[i+1]); err == nil {
			m.SignatureHashAlgorithms = append(m.SignatureHashAlgorithms, alg)
		}
	}

	var caNames cryptobyte.String
	if !val.ReadUint16LengthPrefixed(&caNames) || !val.Empty() {
		return ErrBufferTooSmall
	}
	for !caNames.Empty() {
		var name cryptobyte.String
		if !caNames.ReadUint16LengthPrefixed(&name) {
			return ErrBufferTooSmall
		}
		m.CertificateAuthoritiesNames = append(m.CertificateAuthoritiesNames, append([]byte{}, name...))
	}

	return nil
}
