// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import "errors"

// Typed errors. The handshake driver maps these onto DTLS alerts, so
// wire-format errors and parameter-range errors stay distinguishable.
var (
	ErrBufferTooSmall           = errors.New("buffer is too small")
	ErrLengthMismatch           = errors.New("data length and declared length do not match")
	ErrNotDTLSVersion           = errors.New("version is not a DTLS version")
	ErrSessionIDTooLong         = errors.New("session_id must not be longer than 32 bytes")
	ErrCipherSuitesBadLength    = errors.New("cipher_suites length must be even and at least 2")
	ErrCompressionMethodsEmpty  = errors.New("compression_methods must not be empty")
	errCookieTooLong            = errors.New("cookie must not be longer than 255 bytes")
	errInvalidClientKeyExchange = errors.New("unable to determine if ClientKeyExchange is a public key or PSK Identity")
	errInvalidSignHashAlgorithm = errors.New("invalid signature hash algorithm")
	errCipherSuiteUnset         = errors.New("server hello can not be created without a cipher suite")
	errTicketTooLong            = errors.New("session ticket is over 65535 bytes")
)
