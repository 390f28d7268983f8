// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package extension

import (
	"errors"

	"github.com/pion/dtlserver/pkg/protocol"
)

var (
	errBufferTooSmall = &protocol.TemporaryError{
		Err: errors.New("buffer is too small"), //nolint:err113
	}
	errLengthMismatch = &protocol.InternalError{
		Err: errors.New("data length and declared length do not match"), //nolint:err113
	}
	errRenegotiatedConnectionTooLong = &protocol.FatalError{
		Err: errors.New("renegotiated_connection is over 255 bytes"), //nolint:err113
	}
)
