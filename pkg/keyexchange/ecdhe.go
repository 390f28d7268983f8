// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package keyexchange

import (
	"crypto/rand"

	"github.com/pion/dtlserver"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
	"golang.org/x/crypto/curve25519"
)

const (
	ellipticCurveTypeNamedCurve = 3
	namedCurveX25519            = 0x001d
)

// ECDHE is an ephemeral X25519 Diffie-Hellman exchange. The server's
// ServerKeyExchange carries unsigned ECDH parameters, so on its own
// this is the ECDH_anon shape; suites that authenticate the parameters
// wrap it with their signing credentials.
//
// https://tools.ietf.org/html/rfc8422#section-5.4
type ECDHE struct {
	privateKey []byte
	publicKey  []byte

	preMasterSecret []byte
}

// NewECDHE builds an ECDHE key exchange; the ephemeral keypair is
// generated at Init.
func NewECDHE() *ECDHE {
	return &ECDHE{}
}

// Init implements dtlserver.KeyExchange.
func (e *ECDHE) Init(*dtlserver.Context) error {
	e.privateKey = make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(e.privateKey); err != nil {
		return err
	}

	publicKey, err := curve25519.X25519(e.privateKey, curve25519.Basepoint)
	if err != nil {
		return err
	}
	e.publicKey = publicKey

	return nil
}

// ProcessServerCredentials implements dtlserver.KeyExchange.
func (e *ECDHE) ProcessServerCredentials(dtlserver.Credentials) error { return nil }

// SkipServerCredentials implements dtlserver.KeyExchange.
func (e *ECDHE) SkipServerCredentials() error { return nil }

// GenerateServerKeyExchange emits the ECParameters and the server's
// ephemeral public key: curve_type named_curve, x25519, opaque8 point.
func (e *ECDHE) GenerateServerKeyExchange() ([]byte, error) {
	out := make([]byte, 4, 4+len(e.publicKey))
	out[0] = ellipticCurveTypeNamedCurve
	out[1] = byte(namedCurveX25519 >> 8)
	out[2] = byte(namedCurveX25519)
	out[3] = byte(len(e.publicKey))

	return append(out, e.publicKey...), nil
}

// ValidateCertificateRequest implements dtlserver.KeyExchange.
func (e *ECDHE) ValidateCertificateRequest(*handshake.MessageCertificateRequest) error { return nil }

// ProcessClientCertificate implements dtlserver.KeyExchange.
func (e *ECDHE) ProcessClientCertificate(*handshake.MessageCertificate) error { return nil }

// SkipClientCredentials implements dtlserver.KeyExchange.
func (e *ECDHE) SkipClientCredentials() error { return nil }

// ProcessClientKeyExchange derives the shared secret from the client's
// ephemeral public key.
func (e *ECDHE) ProcessClientKeyExchange(body []byte) error {
	clientKeyExchange := &handshake.MessageClientKeyExchange{}
	if err := clientKeyExchange.Unmarshal(body); err != nil {
		return err
	}
	if len(clientKeyExchange.PublicKey) == 0 {
		return errNoClientPublicKey
	}

	preMasterSecret, err := curve25519.X25519(e.privateKey, clientKeyExchange.PublicKey)
	if err != nil {
		return err
	}
	e.preMasterSecret = preMasterSecret

	return nil
}

// GeneratePreMasterSecret implements dtlserver.KeyExchange.
func (e *ECDHE) GeneratePreMasterSecret() ([]byte, error) {
	if e.preMasterSecret == nil {
		return nil, errKeyExchangeIncomplete
	}

	return append([]byte{}, e.preMasterSecret...), nil
}

// PublicKey exposes the server's ephemeral public key, as carried in
// the ServerKeyExchange params.
func (e *ECDHE) PublicKey() []byte {
	return e.publicKey
}
