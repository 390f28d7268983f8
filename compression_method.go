// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import "github.com/pion/dtlserver/pkg/protocol"

// CompressionMethodID identifies a compression method offered by the
// client. Only null compression is ever selected in practice, but the
// offered list is carried verbatim to the policy.
type CompressionMethodID = protocol.CompressionMethodID

func compressionMethodsContain(haystack []CompressionMethodID, needle CompressionMethodID) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}

	return false
}
