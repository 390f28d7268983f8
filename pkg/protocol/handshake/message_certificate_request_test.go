// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"testing"

	"github.com/pion/dtlserver/pkg/crypto/clientcertificate"
	"github.com/pion/dtlserver/pkg/crypto/hash"
	"github.com/pion/dtlserver/pkg/crypto/signature"
	"github.com/pion/dtlserver/pkg/crypto/signaturehash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeMessageCertificateRequest(t *testing.T) {
	cases := map[string]*MessageCertificateRequest{
		"Empty": {},
		"WithoutCertificateAuthorities": {
			CertificateTypes: []clientcertificate.Type{
				clientcertificate.RSASign,
				clientcertificate.ECDSASign,
			},
			SignatureHashAlgorithms: []signaturehash.Algorithm{
				{Hash: hash.SHA256, Signature: signature.ECDSA},
				{Hash: hash.SHA256, Signature: signature.RSA},
				{Hash: hash.SHA384, Signature: signature.ECDSA},
			},
		},
		"WithCertificateAuthorities": {
			CertificateTypes: []clientcertificate.Type{
				clientcertificate.ECDSASign,
			},
			SignatureHashAlgorithms: []signaturehash.Algorithm{
				{Hash: hash.SHA256, Signature: signature.ECDSA},
			},
			CertificateAuthoritiesNames: [][]byte{[]byte("test")},
		},
	}

	for name, parsed := range cases {
		parsed := parsed
		t.Run(name, func(t *testing.T) {
			raw, err := parsed.Marshal()
			require.NoError(t, err)

			unmarshaled := &MessageCertificateRequest{}
			require.NoError(t, unmarshaled.Unmarshal(raw))
			assert.Equal(t, parsed, unmarshaled)

			reencoded, err := unmarshaled.Marshal()
			require.NoError(t, err)
			assert.Equal(t, raw, reencoded)
		})
	}
}

func TestHandshakeMessageCertificateRequestErrors(t *testing.T) {
	cases := map[string][]byte{
		"Empty":                         {},
		"TruncatedSignatureHash":        {0x01, 0x01, 0x00, 0x03, 0x04},
		"TruncatedCertificateAuthority": {0x01, 0x01, 0x00, 0x02, 0x04, 0x03, 0x00, 0x04, 0x00, 0x06},
		"TrailingBytes":                 {0x00, 0x00, 0x00, 0x00, 0x00, 0xff},
	}

	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			certificateRequest := &MessageCertificateRequest{}
			assert.ErrorIs(t, certificateRequest.Unmarshal(data), ErrBufferTooSmall)
		})
	}
}
