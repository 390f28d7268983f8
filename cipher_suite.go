// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"fmt"
)

// CipherSuiteID is an ID for our supported CipherSuites.
type CipherSuiteID uint16

// CipherSuite IDs the selection policy deals in. TLS_NULL_WITH_NULL_NULL
// and the renegotiation SCSV are never selectable; they are listed
// because the driver must recognize them in the offered set.
const (
	TLS_NULL_WITH_NULL_NULL            CipherSuiteID = 0x0000 //nolint:revive,stylecheck
	TLS_RSA_WITH_AES_128_CBC_SHA       CipherSuiteID = 0x002f //nolint:revive,stylecheck
	TLS_RSA_WITH_AES_256_CBC_SHA       CipherSuiteID = 0x0035 //nolint:revive,stylecheck
	TLS_PSK_WITH_AES_128_CBC_SHA       CipherSuiteID = 0x008c //nolint:revive,stylecheck
	TLS_PSK_WITH_AES_128_GCM_SHA256    CipherSuiteID = 0x00a8 //nolint:revive,stylecheck
	TLS_PSK_WITH_AES_128_CBC_SHA256    CipherSuiteID = 0x00ae //nolint:revive,stylecheck
	TLS_EMPTY_RENEGOTIATION_INFO_SCSV  CipherSuiteID = 0x00ff //nolint:revive,stylecheck
	TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA CipherSuiteID = 0xc014 //nolint:revive,stylecheck

	TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256 CipherSuiteID = 0xc02b //nolint:revive,stylecheck
	TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256   CipherSuiteID = 0xc02f //nolint:revive,stylecheck
)

func (c CipherSuiteID) String() string {
	switch c {
	case TLS_NULL_WITH_NULL_NULL:
		return "TLS_NULL_WITH_NULL_NULL"
	case TLS_RSA_WITH_AES_128_CBC_SHA:
		return "TLS_RSA_WITH_AES_128_CBC_SHA"
	case TLS_RSA_WITH_AES_256_CBC_SHA:
		return "TLS_RSA_WITH_AES_256_CBC_SHA"
	case TLS_PSK_WITH_AES_128_CBC_SHA:
		return "TLS_PSK_WITH_AES_128_CBC_SHA"
	case TLS_PSK_WITH_AES_128_GCM_SHA256:
		return "TLS_PSK_WITH_AES_128_GCM_SHA256"
	case TLS_PSK_WITH_AES_128_CBC_SHA256:
		return "TLS_PSK_WITH_AES_128_CBC_SHA256"
	case TLS_EMPTY_RENEGOTIATION_INFO_SCSV:
		return "TLS_EMPTY_RENEGOTIATION_INFO_SCSV"
	case TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA:
		return "TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA"
	case TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256:
		return "TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256"
	case TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256:
		return "TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint16(c))
	}
}

// isRC4CipherSuite reports whether the suite uses the RC4 stream cipher.
// RC4 MUST NOT be used with DTLS.
//
// https://tools.ietf.org/html/rfc6347#section-4.1.2.5
func isRC4CipherSuite(id CipherSuiteID) bool {
	switch uint16(id) {
	case 0x0003, // TLS_RSA_EXPORT_WITH_RC4_40_MD5
		0x0004, // TLS_RSA_WITH_RC4_128_MD5
		0x0005, // TLS_RSA_WITH_RC4_128_SHA
		0x0017, // TLS_DH_anon_EXPORT_WITH_RC4_40_MD5
		0x0018, // TLS_DH_anon_WITH_RC4_128_MD5
		0x008a, // TLS_PSK_WITH_RC4_128_SHA
		0x008e, // TLS_DHE_PSK_WITH_RC4_128_SHA
		0x0092, // TLS_RSA_PSK_WITH_RC4_128_SHA
		0xc002, // TLS_ECDH_ECDSA_WITH_RC4_128_SHA
		0xc007, // TLS_ECDHE_ECDSA_WITH_RC4_128_SHA
		0xc00c, // TLS_ECDH_RSA_WITH_RC4_128_SHA
		0xc011, // TLS_ECDHE_RSA_WITH_RC4_128_SHA
		0xc016, // TLS_ECDH_anon_WITH_RC4_128_SHA
		0xc033: // TLS_ECDHE_PSK_WITH_RC4_128_SHA
		return true
	}

	return false
}

// validateSelectedCipherSuite rejects suites a DTLS server may never
// negotiate, whatever the policy asked for.
func validateSelectedCipherSuite(id CipherSuiteID) error {
	if isRC4CipherSuite(id) {
		return errCipherSuiteNotAdmissible
	}

	return nil
}

func cipherSuiteIDsContain(haystack []CipherSuiteID, needle CipherSuiteID) bool {
	for _, id := range haystack {
		if id == needle {
			return true
		}
	}

	return false
}
