// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"errors"
	"fmt"

	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/alert"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// Typed errors.
var (
	//nolint:err113
	errNilServerPolicy = &FatalError{Err: errors.New("server policy must not be nil")}
	//nolint:err113
	errNilTransport = &FatalError{Err: errors.New("datagram transport must not be nil")}
	//nolint:err113
	errNoConfigProvided = &FatalError{Err: errors.New("no config provided")}
	//nolint:err113
	errNoRecordLayerFactory = &FatalError{Err: errors.New("config must provide a record layer factory")}
	//nolint:err113
	errNoReliableHandshakeFactory = &FatalError{Err: errors.New("config must provide a reliable handshake factory")}

	//nolint:err113
	errUnexpectedMessage = &FatalError{Err: errors.New("peer sent a handshake message the state machine did not expect")}
	//nolint:err113
	errRenegotiationInfoNotEmpty = &FatalError{
		Err: errors.New("renegotiated_connection must be empty on an initial handshake"),
	}
	//nolint:err113
	errVerifyDataMismatch = &FatalError{Err: errors.New("expected and actual verify data does not match")}
	//nolint:err113
	errClientCertificateRequired = &FatalError{Err: errors.New("server required client verification, but got none")}
	//nolint:err113
	errClientCertificateNotVerified = &FatalError{Err: errors.New("client sent certificate but did not verify it")}
	//nolint:err113
	errNoSigningCertificate = &FatalError{Err: errors.New("certificate verify received without a client certificate")}
	//nolint:err113
	errKeySignatureMismatch = &FatalError{Err: errors.New("expected and actual key signature do not match")}
	//nolint:err113
	errInvalidECDSASignature = &FatalError{Err: errors.New("ECDSA signature contained zero or negative values")}

	//nolint:err113
	errNoSessionTicket = &InternalError{
		Err: errors.New("SessionTicket extension negotiated but the policy returned no ticket"),
	}
	//nolint:err113
	errServerVersionTooNew = &InternalError{Err: errors.New("policy selected a server version newer than the client's")}
	//nolint:err113
	errCipherSuiteNotOffered = &InternalError{Err: errors.New("policy selected a cipher suite the client did not offer")}
	//nolint:err113
	errCipherSuiteNotAdmissible = &InternalError{Err: errors.New("policy selected a cipher suite DTLS forbids")}
	//nolint:err113
	errCompressionMethodNotOffered = &InternalError{
		Err: errors.New("policy selected a compression method the client did not offer"),
	}
	//nolint:err113
	errKeySignatureVerifyUnimplemented = &InternalError{Err: errors.New("unable to verify key signature, unimplemented")}
)

// FatalError indicates that the DTLS connection is no longer available.
// It is mainly caused by wrong configuration of server or client.
type FatalError = protocol.FatalError

// InternalError indicates an internal error caused by the implementation,
// and the DTLS connection is no longer available.
// It is mainly caused by bugs or tried to use unimplemented features.
type InternalError = protocol.InternalError

// TemporaryError indicates that the DTLS connection is still available, but the request was failed temporary.
type TemporaryError = protocol.TemporaryError

// TimeoutError indicates that the request was timed out.
type TimeoutError = protocol.TimeoutError

// HandshakeError indicates that the handshake failed.
type HandshakeError = protocol.HandshakeError

// alertError pairs the DTLS alert the driver sends with the error that
// caused it. Every handshake failure that is not a transport failure is
// one of these.
type alertError struct {
	*alert.Alert
	Err error
}

func (e *alertError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("alert: %s: %v", e.Alert.String(), e.Err)
	}

	return fmt.Sprintf("alert: %s", e.Alert.String())
}

func (e *alertError) Unwrap() error { return e.Err }

func (e *alertError) Is(err error) bool {
	var other *alertError
	if errors.As(err, &other) {
		return e.Level == other.Level && e.Description == other.Description
	}

	return false
}

// fatalAlert builds the error the driver surfaces for a failure that
// maps onto a DTLS alert.
func fatalAlert(desc alert.Description, cause error) error {
	return &alertError{
		Alert: &alert.Alert{Level: alert.Fatal, Description: desc},
		Err:   cause,
	}
}

// alertDescriptionForParseError classifies codec errors the way RFC 5246
// Section 7.2.2 wants them reported: parameter-range problems are
// illegal_parameter, everything else about the wire bytes is a
// decode_error.
func alertDescriptionForParseError(err error) alert.Description {
	switch {
	case errors.Is(err, handshake.ErrNotDTLSVersion),
		errors.Is(err, handshake.ErrSessionIDTooLong),
		errors.Is(err, handshake.ErrCompressionMethodsEmpty):
		return alert.IllegalParameter
	default:
		return alert.DecodeError
	}
}
