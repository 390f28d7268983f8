// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

// Transport is the authenticated, encrypted datagram channel a
// successful Accept returns. Reads and writes move whole datagrams
// through the record layer under the epoch negotiated by the handshake.
type Transport struct {
	recordLayer RecordLayer
	server      ServerPolicy
}

// Read reads a datagram of application data.
func (t *Transport) Read(p []byte) (int, error) {
	return t.recordLayer.Read(p)
}

// Write writes a datagram of application data.
func (t *Transport) Write(p []byte) (int, error) {
	return t.recordLayer.Write(p)
}

// Close closes the record layer and the transport underneath it.
func (t *Transport) Close() error {
	return t.recordLayer.Close()
}
