// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"testing"
	"time"

	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/extension"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeMessageServerHello(t *testing.T) {
	cases := map[string]*MessageServerHello{
		"NoExtensions": {
			Version:           protocol.Version1_2,
			SessionID:         []byte{},
			CipherSuiteID:     0x002f,
			CompressionMethod: protocol.CompressionMethodNull,
		},
		"WithExtensions": {
			Version:           protocol.Version1_2,
			SessionID:         []byte{},
			CipherSuiteID:     0xc02b,
			CompressionMethod: protocol.CompressionMethodNull,
			Extensions: extension.List{
				{Type: extension.RenegotiationInfoTypeValue, Data: []byte{0x00}},
				{Type: extension.SessionTicketTypeValue, Data: []byte{}},
			},
		},
	}

	for name, parsed := range cases {
		parsed := parsed
		t.Run(name, func(t *testing.T) {
			parsed.Random = Random{
				GMTUnixTime: time.Unix(500, 0).UTC(),
				RandomBytes: [RandomBytesLength]byte{0x01, 0x02, 0x03},
			}

			raw, err := parsed.Marshal()
			require.NoError(t, err)

			unmarshaled := &MessageServerHello{}
			require.NoError(t, unmarshaled.Unmarshal(raw))
			assert.Equal(t, parsed, unmarshaled)

			reencoded, err := unmarshaled.Marshal()
			require.NoError(t, err)
			assert.Equal(t, raw, reencoded)
		})
	}
}

func TestHandshakeMessageServerHelloUnset(t *testing.T) {
	serverHello := &MessageServerHello{Version: protocol.Version1_2}
	_, err := serverHello.Marshal()
	assert.ErrorIs(t, err, errCipherSuiteUnset)
}
