// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"testing"

	"github.com/pion/dtlserver/pkg/crypto/hash"
	"github.com/pion/dtlserver/pkg/crypto/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeMessageCertificateVerify(t *testing.T) {
	rawCertificateVerify := []byte{
		0x04, 0x03, 0x00, 0x47, 0x30, 0x45, 0x02, 0x20, 0x6b, 0x63, 0x17, 0xad, 0xbe, 0xb7, 0x7b, 0x0f,
		0x86, 0x73, 0x39, 0x1e, 0xba, 0xb3, 0x50, 0x9c, 0xce, 0x9c, 0xe4, 0x8b, 0xe5, 0x13, 0x07, 0x59,
		0x18, 0x1f, 0xe5, 0xa0, 0x2b, 0xca, 0xa6, 0xad, 0x02, 0x21, 0x00, 0xd3, 0xb5, 0x01, 0xbe, 0x87,
		0x6c, 0x04, 0xa1, 0xdc, 0x8b, 0x76, 0xc0, 0x98, 0xf5, 0x34, 0x02, 0xac, 0x67, 0x42, 0x6c, 0x05,
		0x7f, 0x10, 0x86, 0xc9, 0xd3, 0x83, 0xdb, 0x70, 0xcd, 0xed, 0x83,
	}
	parsedCertificateVerify := &MessageCertificateVerify{
		HashAlgorithm:      hash.SHA256,
		SignatureAlgorithm: signature.ECDSA,
		Signature:          rawCertificateVerify[4:],
	}

	certificateVerify := &MessageCertificateVerify{}
	require.NoError(t, certificateVerify.Unmarshal(rawCertificateVerify))
	assert.Equal(t, parsedCertificateVerify, certificateVerify)

	raw, err := certificateVerify.Marshal()
	require.NoError(t, err)
	assert.Equal(t, rawCertificateVerify, raw)
}

func TestHandshakeMessageCertificateVerifyErrors(t *testing.T) {
	certificateVerify := &MessageCertificateVerify{}
	assert.ErrorIs(t, certificateVerify.Unmarshal([]byte{0x04}), ErrBufferTooSmall)
	assert.ErrorIs(t,
		certificateVerify.Unmarshal([]byte{0x09, 0x03, 0x00, 0x00}), errInvalidSignHashAlgorithm)
	assert.ErrorIs(t,
		certificateVerify.Unmarshal([]byte{0x04, 0x09, 0x00, 0x00}), errInvalidSignHashAlgorithm)
	assert.ErrorIs(t,
		certificateVerify.Unmarshal([]byte{0x04, 0x03, 0x00, 0x05, 0x01}), ErrLengthMismatch)
}
