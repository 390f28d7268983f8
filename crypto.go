// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"math/big"

	"github.com/pion/dtlserver/pkg/crypto/hash"
	"github.com/pion/dtlserver/pkg/crypto/signature"
)

type ecdsaSignature struct {
	R, S *big.Int
}

// verifyCertificateVerify checks the CertificateVerify signature against
// the leaf of the client's certificate chain. The signed content is the
// transcript hash the reliable handshake layer maintains, already
// condensed, so the message's hash algorithm must agree with it.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.8
func verifyCertificateVerify(
	transcriptHash []byte,
	hashAlgorithm hash.Algorithm,
	signatureAlgorithm signature.Algorithm,
	remoteKeySignature []byte,
	rawCertificates [][]byte,
) error {
	if len(rawCertificates) == 0 {
		return errNoSigningCertificate
	}
	certificate, err := x509.ParseCertificate(rawCertificates[0])
	if err != nil {
		return err
	}

	switch pubKey := certificate.PublicKey.(type) {
	case ed25519.PublicKey:
		// Ed25519 signs the message itself, never a digest; with only
		// the transcript hash available it cannot be checked here.
		return errKeySignatureVerifyUnimplemented
	case *ecdsa.PublicKey:
		if signatureAlgorithm != signature.ECDSA {
			return errKeySignatureMismatch
		}
		ecdsaSig := &ecdsaSignature{}
		if _, err := asn1.Unmarshal(remoteKeySignature, ecdsaSig); err != nil {
			return err
		}
		if ecdsaSig.R.Sign() <= 0 || ecdsaSig.S.Sign() <= 0 {
			return errInvalidECDSASignature
		}
		if !ecdsa.Verify(pubKey, transcriptHash, ecdsaSig.R, ecdsaSig.S) {
			return errKeySignatureMismatch
		}

		return nil
	case *rsa.PublicKey:
		if signatureAlgorithm != signature.RSA {
			return errKeySignatureMismatch
		}
		if err := rsa.VerifyPKCS1v15(
			pubKey, hashAlgorithm.CryptoHash(), transcriptHash, remoteKeySignature); err != nil {
			return errKeySignatureMismatch
		}

		return nil
	}

	return errKeySignatureVerifyUnimplemented
}
