// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"io"

	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/alert"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// Message is one reassembled handshake message as delivered by the
// reliable handshake layer: the type from the DTLS handshake header and
// the defragmented body.
type Message struct {
	Type handshake.Type
	Body []byte
}

// RecordLayer is the encryption engine the handshake drives. It owns
// datagram framing, epochs and record protection; the driver only
// installs the pending epoch and reads the version the peer's records
// announced.
//
// Implementations live outside this module. Read and Write move
// application data once the handshake is done.
type RecordLayer interface {
	io.ReadWriteCloser

	// DiscoveredPeerVersion is the record-layer version observed on the
	// first record received from the peer.
	DiscoveredPeerVersion() protocol.Version

	// InitPendingEpoch prepares the next epoch with the given cipher.
	// The record layer activates it for reads when the peer's
	// ChangeCipherSpec arrives and for writes when the server's own
	// Finished flight is sent.
	InitPendingEpoch(cipher Cipher)

	// Notify emits an alert record to the peer.
	Notify(level alert.Level, desc alert.Description) error
}

// ReliableHandshake delivers ordered, defragmented handshake messages
// over the unreliable datagram substrate, retransmitting flights as
// needed, and maintains the running transcript hash over every message
// it has sent or delivered, with type/length framing included.
//
// Implementations live outside this module.
type ReliableHandshake interface {
	// ReceiveMessage blocks until the next handshake message is
	// complete. It may retransmit the previous flight internally while
	// waiting.
	ReceiveMessage() (Message, error)

	// SendMessage queues a handshake message for the current flight.
	SendMessage(typ handshake.Type, body []byte) error

	// CurrentHash snapshots the transcript hash over everything sent
	// and received so far.
	CurrentHash() []byte

	// NotifyHelloComplete is called once the ServerHello is on the
	// wire, when the negotiated PRF is known; the handshake layer can
	// switch its transcript bookkeeping to the negotiated hash.
	NotifyHelloComplete()

	// Finish flushes the final flight and stops retransmission.
	Finish() error
}
