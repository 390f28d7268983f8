// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package keyexchange provides KeyExchange implementations for the
// handshake driver.
package keyexchange

import (
	"encoding/binary"

	"github.com/pion/dtlserver"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// PSKCallback resolves the pre-shared key for the identity the client
// offered in its ClientKeyExchange.
//
// https://tools.ietf.org/html/rfc4279#section-2
type PSKCallback func(identity []byte) ([]byte, error)

// PSK is the plain pre-shared-key exchange of RFC 4279. The server may
// send an identity hint; the client answers with its identity and both
// sides derive the premaster secret from the key itself.
type PSK struct {
	callback     PSKCallback
	identityHint []byte

	psk []byte
}

// NewPSK builds a PSK key exchange. identityHint may be nil, in which
// case no ServerKeyExchange is sent.
func NewPSK(callback PSKCallback, identityHint []byte) *PSK {
	return &PSK{callback: callback, identityHint: identityHint}
}

// Init implements dtlserver.KeyExchange.
func (p *PSK) Init(*dtlserver.Context) error { return nil }

// ProcessServerCredentials implements dtlserver.KeyExchange. Plain PSK
// suites carry no server certificate.
func (p *PSK) ProcessServerCredentials(dtlserver.Credentials) error {
	return errCredentialsNotSupported
}

// SkipServerCredentials implements dtlserver.KeyExchange.
func (p *PSK) SkipServerCredentials() error { return nil }

// GenerateServerKeyExchange emits the psk_identity_hint, when one is
// configured.
func (p *PSK) GenerateServerKeyExchange() ([]byte, error) {
	if p.identityHint == nil {
		return nil, nil
	}

	out := make([]byte, 2+len(p.identityHint))
	binary.BigEndian.PutUint16(out, uint16(len(p.identityHint))) //nolint:gosec // G115
	copy(out[2:], p.identityHint)

	return out, nil
}

// ValidateCertificateRequest implements dtlserver.KeyExchange.
func (p *PSK) ValidateCertificateRequest(*handshake.MessageCertificateRequest) error {
	return errClientCertificateNotSupported
}

// ProcessClientCertificate implements dtlserver.KeyExchange.
func (p *PSK) ProcessClientCertificate(*handshake.MessageCertificate) error {
	return errClientCertificateNotSupported
}

// SkipClientCredentials implements dtlserver.KeyExchange.
func (p *PSK) SkipClientCredentials() error { return nil }

// ProcessClientKeyExchange resolves the client's identity to a key.
func (p *PSK) ProcessClientKeyExchange(body []byte) error {
	clientKeyExchange := &handshake.MessageClientKeyExchange{}
	if err := clientKeyExchange.Unmarshal(body); err != nil {
		return err
	}
	if len(clientKeyExchange.IdentityHint) == 0 {
		return errNoPSKIdentity
	}

	psk, err := p.callback(clientKeyExchange.IdentityHint)
	if err != nil {
		return err
	}
	if psk == nil {
		return errIdentityNoPSK
	}
	p.psk = psk

	return nil
}

// GeneratePreMasterSecret implements dtlserver.KeyExchange.
func (p *PSK) GeneratePreMasterSecret() ([]byte, error) {
	if p.psk == nil {
		return nil, errKeyExchangeIncomplete
	}

	return PreMasterSecretFromPSK(p.psk), nil
}

// PreMasterSecretFromPSK lays the key out the way RFC 4279 Section 2
// wants it: a zero-filled other_secret of the key's length, then the
// key, each with a uint16 length prefix. Both ends of the exchange
// derive the same bytes.
func PreMasterSecretFromPSK(psk []byte) []byte {
	out := make([]byte, 2+len(psk)+2+len(psk))
	binary.BigEndian.PutUint16(out, uint16(len(psk)))              //nolint:gosec // G115
	binary.BigEndian.PutUint16(out[2+len(psk):], uint16(len(psk))) //nolint:gosec // G115
	copy(out[2+len(psk)+2:], psk)

	return out
}
