// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

// RenegotiationInfo allows a Client/Server to
// communicate their renegotiation support
//
// https://tools.ietf.org/html/rfc5746
type RenegotiationInfo struct {
	RenegotiatedConnection []byte
}

// TypeValue returns the extension TypeValue.
func (r RenegotiationInfo) TypeValue() TypeValue {
	return RenegotiationInfoTypeValue
}

// Marshal encodes the extension_data: a single opaque
// renegotiated_connection<0..255> vector.
func (r *RenegotiationInfo) Marshal() ([]byte, error) {
	if len(r.RenegotiatedConnection) > 255 {
		return nil, errRenegotiatedConnectionTooLong
	}

	out := make([]byte, 1+len(r.RenegotiatedConnection))
	out[0] = byte(len(r.RenegotiatedConnection))
	copy(out[1:], r.RenegotiatedConnection)

	return out, nil
}

// Unmarshal populates the extension from extension_data.
func (r *RenegotiationInfo) Unmarshal(data []byte) error {
	if len(data) < 1 {
		return errBufferTooSmall
	}
	if int(data[0]) != len(data)-1 {
		return errLengthMismatch
	}

	r.RenegotiatedConnection = append([]byte{}, data[1:]...)

	return nil
}

// Raw returns the extension as a Raw list entry.
func (r *RenegotiationInfo) Raw() (Raw, error) {
	data, err := r.Marshal()
	if err != nil {
		return Raw{}, err
	}

	return Raw{Type: r.TypeValue(), Data: data}, nil
}
