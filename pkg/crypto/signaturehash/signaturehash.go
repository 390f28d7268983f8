// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package signaturehash provides the SignatureHashAlgorithm as defined in TLS 1.2
package signaturehash

import (
	"errors"

	"github.com/pion/dtlserver/pkg/crypto/hash"
	"github.com/pion/dtlserver/pkg/crypto/signature"
)

var errInvalidSignatureHashAlgorithm = errors.New("invalid signature hash algorithm") //nolint:err113

// Algorithm is a signature/hash algorithm pair as it is carried in
// CertificateRequest and CertificateVerify.
//
// https://tools.ietf.org/html/rfc5246#section-7.4.1.4.1
type Algorithm struct {
	Hash      hash.Algorithm
	Signature signature.Algorithm
}

// Algorithms are the default SignatureHashAlgorithms supported by DTLS 1.2.
func Algorithms() []Algorithm {
	return []Algorithm{
		{hash.SHA256, signature.ECDSA},
		{hash.SHA384, signature.ECDSA},
		{hash.SHA512, signature.ECDSA},
		{hash.SHA256, signature.RSA},
		{hash.SHA384, signature.RSA},
		{hash.SHA512, signature.RSA},
		{hash.Ed25519, signature.Ed25519},
	}
}

// Parse reads a pair of wire bytes into an Algorithm, rejecting values
// outside the registered sets.
func Parse(hashByte, signatureByte uint8) (Algorithm, error) {
	h := hash.Algorithm(hashByte)
	if _, ok := hash.Algorithms()[h]; !ok {
		return Algorithm{}, errInvalidSignatureHashAlgorithm
	}
	s := signature.Algorithm(signatureByte)
	if _, ok := signature.Algorithms()[s]; !ok {
		return Algorithm{}, errInvalidSignatureHashAlgorithm
	}

	return Algorithm{Hash: h, Signature: s}, nil
}
