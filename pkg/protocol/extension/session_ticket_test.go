// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTicketExtension(t *testing.T) {
	ticket := &SessionTicket{Ticket: []byte{0x01, 0x02}}
	raw, err := ticket.Marshal()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, raw)

	entry, err := ticket.Raw()
	require.NoError(t, err)
	assert.Equal(t, SessionTicketTypeValue, entry.Type)

	unmarshaled := &SessionTicket{}
	require.NoError(t, unmarshaled.Unmarshal(raw))
	assert.Equal(t, ticket.Ticket, unmarshaled.Ticket)
}
