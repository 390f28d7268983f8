// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package keyexchange

import (
	"errors"

	"github.com/pion/dtlserver/pkg/protocol"
)

var (
	errCredentialsNotSupported = &protocol.FatalError{
		Err: errors.New("key exchange does not use server credentials"), //nolint:err113
	}
	errClientCertificateNotSupported = &protocol.FatalError{
		Err: errors.New("key exchange does not use client certificates"), //nolint:err113
	}
	errNoPSKIdentity = &protocol.FatalError{
		Err: errors.New("ClientKeyExchange carried no PSK identity"), //nolint:err113
	}
	errIdentityNoPSK = &protocol.FatalError{
		Err: errors.New("no pre-shared key for the offered identity"), //nolint:err113
	}
	errNoClientPublicKey = &protocol.FatalError{
		Err: errors.New("ClientKeyExchange carried no public key"), //nolint:err113
	}
	errKeyExchangeIncomplete = &protocol.InternalError{
		Err: errors.New("premaster secret requested before ClientKeyExchange"), //nolint:err113
	}
)
