// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package prf implements TLS 1.0/1.2 Pseudorandom Functions
package prf

import ( //nolint:gci
	"crypto/hmac"
	"crypto/md5"  //nolint:gosec
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"

	"github.com/pion/dtlserver/pkg/protocol"
)

const (
	// MasterSecretLength is fixed by RFC 5246 Section 8.1.
	MasterSecretLength = 48

	// VerifyDataLength: any cipher suite which does not explicitly
	// specify verify_data_length has a verify_data_length of 12. That
	// includes every suite this module negotiates.
	//
	// https://tools.ietf.org/html/rfc5246#section-7.4.9
	VerifyDataLength = 12

	masterSecretLabel     = "master secret"
	verifyDataClientLabel = "client finished"
	verifyDataServerLabel = "server finished"
)

var errInvalidPRFAlgorithm = errors.New("invalid PRF algorithm") //nolint:err113

// HashFunc allows callers to decide what hash is used in the PRF.
type HashFunc func() hash.Hash

// Algorithm selects the PRF construction negotiated for a session.
type Algorithm int

// PRF Algorithms. Legacy is the TLS 1.0/1.1 MD5/SHA-1 combination used
// by DTLS 1.0; the others are the TLS 1.2 constructions.
const (
	Legacy Algorithm = iota + 1
	SHA256
	SHA384
)

func (a Algorithm) String() string {
	switch a {
	case Legacy:
		return "PRF_legacy"
	case SHA256:
		return "PRF_SHA256"
	case SHA384:
		return "PRF_SHA384"
	default:
		return "PRF_unknown"
	}
}

// AlgorithmFor derives the PRF algorithm from the negotiated protocol
// version and cipher suite: DTLS 1.0 always uses the legacy PRF; DTLS 1.2
// uses SHA-384 for the suites isSHA384CipherSuite lists and SHA-256 for
// every other suite, including SHA-384 suites that list does not name.
func AlgorithmFor(version protocol.Version, cipherSuiteID uint16) Algorithm {
	if version.Equal(protocol.Version1_0) {
		return Legacy
	}
	if isSHA384CipherSuite(cipherSuiteID) {
		return SHA384
	}

	return SHA256
}

// The SHA-384 suites recognised here: the RSA and ECDHE AES-256 SHA-384
// suites below. Other SHA-384 suites (PSK, DHE, ECDH, ...) are not listed.
func isSHA384CipherSuite(id uint16) bool {
	switch id {
	case 0x009d, // TLS_RSA_WITH_AES_256_GCM_SHA384
		0xc024, // TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA384
		0xc028, // TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA384
		0xc02c, // TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384
		0xc030: // TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384
		return true
	}

	return false
}

// PHash is the TLS P_hash data-expansion function.
//
// https://tools.ietf.org/html/rfc4346#section-5
func PHash(secret, seed []byte, requestedLength int, hashFunc HashFunc) ([]byte, error) {
	hmacSHA := func(key, data []byte) ([]byte, error) {
		mac := hmac.New(hashFunc, key)
		if _, err := mac.Write(data); err != nil {
			return nil, err
		}

		return mac.Sum(nil), nil
	}

	var err error
	lastRound := seed
	out := []byte{}

	iterations := int(float64(requestedLength)/float64(hashFunc().Size())) + 1
	for i := 0; i < iterations; i++ {
		lastRound, err = hmacSHA(secret, lastRound)
		if err != nil {
			return nil, err
		}
		withSecret, err := hmacSHA(secret, append(lastRound, seed...))
		if err != nil {
			return nil, err
		}
		out = append(out, withSecret...)
	}

	return out[:requestedLength], nil
}

// Compute runs the PRF for the given algorithm.
func Compute(algorithm Algorithm, secret []byte, label string, seed []byte, requestedLength int) ([]byte, error) {
	labelAndSeed := append([]byte(label), seed...)

	switch algorithm {
	case SHA256:
		return PHash(secret, labelAndSeed, requestedLength, sha256.New)
	case SHA384:
		return PHash(secret, labelAndSeed, requestedLength, sha512.New384)
	case Legacy:
		return legacyPRF(secret, labelAndSeed, requestedLength)
	default:
		return nil, fmt.Errorf("%w: %s", errInvalidPRFAlgorithm, algorithm)
	}
}

// legacyPRF is the TLS 1.0/1.1 construction: the secret is split in
// half and the halves expanded with P_MD5 and P_SHA1, XORed together.
//
// https://tools.ietf.org/html/rfc4346#section-5
func legacyPRF(secret, labelAndSeed []byte, requestedLength int) ([]byte, error) {
	half := (len(secret) + 1) / 2
	s1 := secret[:half]
	s2 := secret[len(secret)-half:]

	md5Out, err := PHash(s1, labelAndSeed, requestedLength, md5.New)
	if err != nil {
		return nil, err
	}
	sha1Out, err := PHash(s2, labelAndSeed, requestedLength, sha1.New)
	if err != nil {
		return nil, err
	}

	out := make([]byte, requestedLength)
	for i := range out {
		out[i] = md5Out[i] ^ sha1Out[i]
	}

	return out, nil
}

// MasterSecret derives the 48-byte master secret from the premaster
// secret and both hello randoms.
//
// https://tools.ietf.org/html/rfc5246#section-8.1
func MasterSecret(algorithm Algorithm, preMasterSecret, clientRandom, serverRandom []byte) ([]byte, error) {
	seed := append(append([]byte{}, clientRandom...), serverRandom...)

	return Compute(algorithm, preMasterSecret, masterSecretLabel, seed, MasterSecretLength)
}

// VerifyDataClient computes the verify_data the client attaches to its
// Finished, over the given transcript hash.
func VerifyDataClient(algorithm Algorithm, masterSecret, transcriptHash []byte) ([]byte, error) {
	return Compute(algorithm, masterSecret, verifyDataClientLabel, transcriptHash, VerifyDataLength)
}

// VerifyDataServer computes the verify_data the server attaches to its
// Finished, over the given transcript hash.
func VerifyDataServer(algorithm Algorithm, masterSecret, transcriptHash []byte) ([]byte, error) {
	return Compute(algorithm, masterSecret, verifyDataServerLabel, transcriptHash, VerifyDataLength)
}
