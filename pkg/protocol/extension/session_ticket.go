// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

// SessionTicket is the SessionTicket extension of RFC 5077. The server
// answers a client's (possibly empty) ticket with an empty extension to
// announce that it will send a NewSessionTicket message.
//
// https://tools.ietf.org/html/rfc5077#section-3.2
type SessionTicket struct {
	Ticket []byte
}

// TypeValue returns the extension TypeValue.
func (s SessionTicket) TypeValue() TypeValue {
	return SessionTicketTypeValue
}

// Marshal encodes the extension_data, which is the bare ticket.
func (s *SessionTicket) Marshal() ([]byte, error) {
	return append([]byte{}, s.Ticket...), nil
}

// Unmarshal populates the extension from extension_data.
func (s *SessionTicket) Unmarshal(data []byte) error {
	s.Ticket = append([]byte{}, data...)

	return nil
}

// Raw returns the extension as a Raw list entry.
func (s *SessionTicket) Raw() (Raw, error) {
	data, err := s.Marshal()
	if err != nil {
		return Raw{}, err
	}

	return Raw{Type: s.TypeValue(), Data: data}, nil
}
