// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"crypto/subtle"

	"github.com/pion/dtlserver/pkg/crypto/prf"
	"github.com/pion/dtlserver/pkg/protocol/alert"
	"github.com/pion/dtlserver/pkg/protocol/extension"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
)

// serverHandshakeState is the driver's private scratchpad for one
// handshake. It is never shared and dies with Accept.
type serverHandshakeState struct {
	server ServerPolicy
	ctx    *Context

	offeredCipherSuites       []CipherSuiteID
	offeredCompressionMethods []CompressionMethodID

	clientExtensions extension.List
	serverExtensions extension.List

	// Valid only once generateServerHello has run; selecting
	// TLS_NULL_WITH_NULL_NULL is rejected there, so the zero value
	// cannot be confused with a selection.
	selectedCipherSuite       CipherSuiteID
	selectedCompressionMethod CompressionMethodID

	secureRenegotiation bool
	expectSessionTicket bool

	keyExchange        KeyExchange
	certificateRequest *handshake.MessageCertificateRequest

	clientCertificate   *handshake.MessageCertificate
	certificateVerified bool
}

// serverHandshake runs the whole server side of the handshake: one
// strictly sequential pass over the flights of RFC 6347 Section 4.2.4,
// with exactly one acceptable peer message per state.
func (p *ServerProtocol) serverHandshake( //nolint:cyclop,gocognit,maintidx
	state *serverHandshakeState,
	recordLayer RecordLayer,
	reliableHandshake ReliableHandshake,
) (*Transport, error) {
	clientMessage, err := reliableHandshake.ReceiveMessage()
	if err != nil {
		return nil, err
	}

	// After the first record from the client the record layer knows the
	// version the peer talks; the ClientHello body refines it below.
	state.ctx.clientVersion = recordLayer.DiscoveredPeerVersion()

	if clientMessage.Type != handshake.TypeClientHello {
		return nil, fatalAlert(alert.UnexpectedMessage, errUnexpectedMessage)
	}
	if err := p.processClientHello(state, clientMessage.Body); err != nil {
		return nil, err
	}

	serverHelloBody, err := p.generateServerHello(state)
	if err != nil {
		return nil, err
	}
	if err := reliableHandshake.SendMessage(handshake.TypeServerHello, serverHelloBody); err != nil {
		return nil, err
	}
	p.log.Tracef("[handshake:server] -> ServerHello (version %s, suite %s)",
		versionString(state.ctx.serverVersion), state.selectedCipherSuite)

	securityParameters := state.ctx.SecurityParameters()
	securityParameters.PRFAlgorithm = prf.AlgorithmFor(state.ctx.serverVersion, uint16(state.selectedCipherSuite))
	securityParameters.CompressionAlgorithm = state.selectedCompressionMethod
	securityParameters.VerifyDataLength = prf.VerifyDataLength
	reliableHandshake.NotifyHelloComplete()

	serverSupplementalData, err := state.server.ServerSupplementalData()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if serverSupplementalData != nil {
		supplementalDataBody, err := (&handshake.MessageSupplementalData{Entries: serverSupplementalData}).Marshal()
		if err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
		if err := reliableHandshake.SendMessage(handshake.TypeSupplementalData, supplementalDataBody); err != nil {
			return nil, err
		}
	}

	if state.keyExchange, err = state.server.KeyExchange(); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if err := state.keyExchange.Init(state.ctx); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}

	serverCredentials, err := state.server.Credentials()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if serverCredentials == nil {
		if err := state.keyExchange.SkipServerCredentials(); err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
	} else {
		if err := state.keyExchange.ProcessServerCredentials(serverCredentials); err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}

		certificateBody, err := (&handshake.MessageCertificate{Certificate: serverCredentials.Certificate()}).Marshal()
		if err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
		if err := reliableHandshake.SendMessage(handshake.TypeCertificate, certificateBody); err != nil {
			return nil, err
		}
	}

	serverKeyExchange, err := state.keyExchange.GenerateServerKeyExchange()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if serverKeyExchange != nil {
		if err := reliableHandshake.SendMessage(handshake.TypeServerKeyExchange, serverKeyExchange); err != nil {
			return nil, err
		}
	}

	if serverCredentials != nil {
		if state.certificateRequest, err = state.server.CertificateRequest(); err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
		if state.certificateRequest != nil {
			if err := state.keyExchange.ValidateCertificateRequest(state.certificateRequest); err != nil {
				return nil, fatalAlert(alert.InternalError, err)
			}

			certificateRequestBody, err := state.certificateRequest.Marshal()
			if err != nil {
				return nil, fatalAlert(alert.InternalError, err)
			}
			if err := reliableHandshake.SendMessage(handshake.TypeCertificateRequest, certificateRequestBody); err != nil {
				return nil, err
			}
		}
	}

	if err := reliableHandshake.SendMessage(handshake.TypeServerHelloDone, []byte{}); err != nil {
		return nil, err
	}
	p.log.Tracef("[handshake:server] -> ServerHelloDone")

	if clientMessage, err = reliableHandshake.ReceiveMessage(); err != nil {
		return nil, err
	}

	if clientMessage.Type == handshake.TypeSupplementalData {
		if err := p.processClientSupplementalData(state, clientMessage.Body); err != nil {
			return nil, err
		}
		if clientMessage, err = reliableHandshake.ReceiveMessage(); err != nil {
			return nil, err
		}
	} else if err := state.server.ProcessClientSupplementalData(nil); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}

	if clientMessage.Type == handshake.TypeCertificate {
		if state.certificateRequest == nil {
			return nil, fatalAlert(alert.UnexpectedMessage, errUnexpectedMessage)
		}
		if err := p.processClientCertificate(state, clientMessage.Body); err != nil {
			return nil, err
		}
		if clientMessage, err = reliableHandshake.ReceiveMessage(); err != nil {
			return nil, err
		}
	} else if err := state.keyExchange.SkipClientCredentials(); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}

	if state.certificateRequest != nil && p.verifyRequests && !state.clientCertificatePresent() {
		return nil, fatalAlert(alert.HandshakeFailure, errClientCertificateRequired)
	}

	if clientMessage.Type != handshake.TypeClientKeyExchange {
		return nil, fatalAlert(alert.UnexpectedMessage, errUnexpectedMessage)
	}
	if err := p.processClientKeyExchange(state, clientMessage.Body); err != nil {
		return nil, err
	}

	cipher, err := state.server.Cipher()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	recordLayer.InitPendingEpoch(cipher)

	// The transcript the client's Finished covers excludes the Finished
	// itself, so snapshot before receiving it.
	clientFinishedHash := reliableHandshake.CurrentHash()

	if clientMessage, err = reliableHandshake.ReceiveMessage(); err != nil {
		return nil, err
	}

	if clientMessage.Type == handshake.TypeCertificateVerify {
		if err := p.processCertificateVerify(state, clientMessage.Body, clientFinishedHash); err != nil {
			return nil, err
		}

		// CertificateVerify is part of the transcript the Finished
		// covers; take a fresh snapshot.
		clientFinishedHash = reliableHandshake.CurrentHash()
		if clientMessage, err = reliableHandshake.ReceiveMessage(); err != nil {
			return nil, err
		}
	}

	if state.certificateRequest != nil && p.verifyRequests &&
		state.clientCertificatePresent() && !state.certificateVerified {
		return nil, fatalAlert(alert.HandshakeFailure, errClientCertificateNotVerified)
	}

	if clientMessage.Type != handshake.TypeFinished {
		return nil, fatalAlert(alert.UnexpectedMessage, errUnexpectedMessage)
	}
	expectedClientVerifyData, err := prf.VerifyDataClient(
		securityParameters.PRFAlgorithm, securityParameters.MasterSecret(), clientFinishedHash)
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if err := processFinished(clientMessage.Body, expectedClientVerifyData); err != nil {
		return nil, err
	}
	p.log.Tracef("[handshake:server] <- Finished (verified)")

	if state.expectSessionTicket {
		newSessionTicket, err := state.server.NewSessionTicket()
		if err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
		if newSessionTicket == nil {
			return nil, fatalAlert(alert.InternalError, errNoSessionTicket)
		}
		newSessionTicketBody, err := newSessionTicket.Marshal()
		if err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
		if err := reliableHandshake.SendMessage(handshake.TypeSessionTicket, newSessionTicketBody); err != nil {
			return nil, err
		}
	}

	// The server's own Finished covers everything up to but excluding
	// itself, so the hash is taken before it is sent.
	serverVerifyData, err := prf.VerifyDataServer(
		securityParameters.PRFAlgorithm, securityParameters.MasterSecret(), reliableHandshake.CurrentHash())
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if err := reliableHandshake.SendMessage(handshake.TypeFinished, serverVerifyData); err != nil {
		return nil, err
	}
	p.log.Tracef("[handshake:server] -> Finished")

	if err := reliableHandshake.Finish(); err != nil {
		return nil, err
	}
	if err := state.server.NotifyHandshakeComplete(); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}

	return &Transport{recordLayer: recordLayer, server: state.server}, nil
}

func (s *serverHandshakeState) clientCertificatePresent() bool {
	return s.clientCertificate != nil && len(s.clientCertificate.Certificate) > 0
}

// processClientHello parses the ClientHello body, feeds the policy, and
// runs the RFC 5746 Section 3.6 initial-handshake checks.
func (p *ServerProtocol) processClientHello(state *serverHandshakeState, body []byte) error { //nolint:cyclop
	clientHello := &handshake.MessageClientHello{}
	if err := clientHello.Unmarshal(body); err != nil {
		return fatalAlert(alertDescriptionForParseError(err), err)
	}

	// The cookie is captured but not validated: HelloVerifyRequest is
	// handled before a connection reaches this driver, if at all.

	state.ctx.clientVersion = clientHello.Version
	state.offeredCipherSuites = make([]CipherSuiteID, 0, len(clientHello.CipherSuiteIDs))
	for _, id := range clientHello.CipherSuiteIDs {
		state.offeredCipherSuites = append(state.offeredCipherSuites, CipherSuiteID(id))
	}
	state.offeredCompressionMethods = clientHello.CompressionMethods
	state.clientExtensions = clientHello.Extensions

	if err := state.server.NotifyClientVersion(clientHello.Version); err != nil {
		return fatalAlert(alert.InternalError, err)
	}

	state.ctx.securityParameters.ClientRandom = clientHello.Random

	if err := state.server.NotifyOfferedCipherSuites(state.offeredCipherSuites); err != nil {
		return fatalAlert(alert.InternalError, err)
	}
	if err := state.server.NotifyOfferedCompressionMethods(state.offeredCompressionMethods); err != nil {
		return fatalAlert(alert.InternalError, err)
	}

	// RFC 5746 3.6. Server Behavior: Initial Handshake
	if cipherSuiteIDsContain(state.offeredCipherSuites, TLS_EMPTY_RENEGOTIATION_INFO_SCSV) {
		state.secureRenegotiation = true
	}
	if renegotiationInfo, ok := state.clientExtensions.Find(extension.RenegotiationInfoTypeValue); ok {
		state.secureRenegotiation = true

		// The renegotiated_connection field must be the empty vector on
		// an initial handshake.
		emptyRenegotiationInfo := &extension.RenegotiationInfo{}
		expected, err := emptyRenegotiationInfo.Marshal()
		if err != nil {
			return fatalAlert(alert.InternalError, err)
		}
		if subtle.ConstantTimeEq(int32(len(renegotiationInfo)), int32(len(expected))) != 1 || //nolint:gosec
			subtle.ConstantTimeCompare(renegotiationInfo, expected) != 1 {
			return fatalAlert(alert.HandshakeFailure, errRenegotiationInfoNotEmpty)
		}
	}
	if err := state.server.NotifySecureRenegotiation(state.secureRenegotiation); err != nil {
		return fatalAlert(alert.InternalError, err)
	}

	if state.clientExtensions != nil {
		if err := state.server.ProcessClientExtensions(state.clientExtensions); err != nil {
			return fatalAlert(alert.InternalError, err)
		}
	}

	p.log.Tracef("[handshake:server] <- ClientHello (version %s, %d suites)",
		versionString(clientHello.Version), len(state.offeredCipherSuites))

	return nil
}

// generateServerHello asks the policy for every negotiated parameter,
// validates the answers against the offered sets, and encodes the
// ServerHello body.
func (p *ServerProtocol) generateServerHello(state *serverHandshakeState) ([]byte, error) { //nolint:cyclop
	serverVersion, err := state.server.ServerVersion()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if !serverVersion.IsEqualOrEarlier(state.ctx.clientVersion) {
		return nil, fatalAlert(alert.InternalError, errServerVersionTooNew)
	}
	state.ctx.serverVersion = serverVersion

	selectedCipherSuite, err := state.server.SelectedCipherSuite()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if !cipherSuiteIDsContain(state.offeredCipherSuites, selectedCipherSuite) ||
		selectedCipherSuite == TLS_NULL_WITH_NULL_NULL ||
		selectedCipherSuite == TLS_EMPTY_RENEGOTIATION_INFO_SCSV {
		return nil, fatalAlert(alert.InternalError, errCipherSuiteNotOffered)
	}
	if err := validateSelectedCipherSuite(selectedCipherSuite); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	state.selectedCipherSuite = selectedCipherSuite

	selectedCompressionMethod, err := state.server.SelectedCompressionMethod()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}
	if !compressionMethodsContain(state.offeredCompressionMethods, selectedCompressionMethod) {
		return nil, fatalAlert(alert.InternalError, errCompressionMethodNotOffered)
	}
	state.selectedCompressionMethod = selectedCompressionMethod

	if state.serverExtensions, err = state.server.ServerExtensions(); err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}

	// RFC 5746 3.6: when the secure_renegotiation flag is set the
	// ServerHello must carry an empty renegotiation_info extension,
	// whether or not the policy thought of it.
	if state.secureRenegotiation && !state.serverExtensions.Has(extension.RenegotiationInfoTypeValue) {
		emptyRenegotiationInfo := &extension.RenegotiationInfo{}
		raw, err := emptyRenegotiationInfo.Raw()
		if err != nil {
			return nil, fatalAlert(alert.InternalError, err)
		}
		state.serverExtensions = append(state.serverExtensions, raw)
	}

	state.expectSessionTicket = state.serverExtensions.Has(extension.SessionTicketTypeValue)

	serverHello := &handshake.MessageServerHello{
		Version:           serverVersion,
		Random:            state.ctx.securityParameters.ServerRandom,
		CipherSuiteID:     uint16(state.selectedCipherSuite),
		CompressionMethod: state.selectedCompressionMethod,
		Extensions:        state.serverExtensions,
	}

	out, err := serverHello.Marshal()
	if err != nil {
		return nil, fatalAlert(alert.InternalError, err)
	}

	return out, nil
}

func (p *ServerProtocol) processClientSupplementalData(state *serverHandshakeState, body []byte) error {
	supplementalData := &handshake.MessageSupplementalData{}
	if err := supplementalData.Unmarshal(body); err != nil {
		return fatalAlert(alertDescriptionForParseError(err), err)
	}

	if err := state.server.ProcessClientSupplementalData(supplementalData.Entries); err != nil {
		return fatalAlert(alert.InternalError, err)
	}

	return nil
}

func (p *ServerProtocol) processClientCertificate(state *serverHandshakeState, body []byte) error {
	clientCertificate := &handshake.MessageCertificate{}
	if err := clientCertificate.Unmarshal(body); err != nil {
		return fatalAlert(alertDescriptionForParseError(err), err)
	}
	state.clientCertificate = clientCertificate

	if err := state.keyExchange.ProcessClientCertificate(clientCertificate); err != nil {
		return fatalAlert(alert.InternalError, err)
	}

	p.log.Tracef("[handshake:server] <- Certificate (%d entries)", len(clientCertificate.Certificate))

	return nil
}

// processCertificateVerify checks the client's possession of the private
// key for the certificate it sent. The signed content is the transcript
// snapshot taken before the CertificateVerify itself.
func (p *ServerProtocol) processCertificateVerify(
	state *serverHandshakeState, body []byte, transcriptHash []byte,
) error {
	certificateVerify := &handshake.MessageCertificateVerify{}
	if err := certificateVerify.Unmarshal(body); err != nil {
		return fatalAlert(alertDescriptionForParseError(err), err)
	}

	if !state.clientCertificatePresent() {
		return fatalAlert(alert.UnexpectedMessage, errNoSigningCertificate)
	}

	if err := verifyCertificateVerify(
		transcriptHash,
		certificateVerify.HashAlgorithm,
		certificateVerify.SignatureAlgorithm,
		certificateVerify.Signature,
		state.clientCertificate.Certificate,
	); err != nil {
		return fatalAlert(alert.DecryptError, err)
	}
	state.certificateVerified = true

	return nil
}

// processClientKeyExchange hands the body to the key exchange and then
// derives the master secret; the premaster secret is wiped immediately
// afterwards.
func (p *ServerProtocol) processClientKeyExchange(state *serverHandshakeState, body []byte) error {
	if err := state.keyExchange.ProcessClientKeyExchange(body); err != nil {
		return fatalAlert(alert.DecodeError, err)
	}

	preMasterSecret, err := state.keyExchange.GeneratePreMasterSecret()
	if err != nil {
		return fatalAlert(alert.InternalError, err)
	}

	securityParameters := state.ctx.SecurityParameters()
	clientRandom := securityParameters.ClientRandom.MarshalFixed()
	serverRandom := securityParameters.ServerRandom.MarshalFixed()

	masterSecret, err := prf.MasterSecret(
		securityParameters.PRFAlgorithm, preMasterSecret, clientRandom[:], serverRandom[:])
	for i := range preMasterSecret {
		preMasterSecret[i] = 0
	}
	if err != nil {
		return fatalAlert(alert.InternalError, err)
	}
	securityParameters.setMasterSecret(masterSecret)

	return nil
}

// processFinished compares the peer's verify_data in constant time.
func processFinished(body, expectedVerifyData []byte) error {
	finished := &handshake.MessageFinished{}
	if err := finished.Unmarshal(body); err != nil {
		return fatalAlert(alertDescriptionForParseError(err), err)
	}

	if subtle.ConstantTimeEq(int32(len(finished.VerifyData)), int32(len(expectedVerifyData))) != 1 || //nolint:gosec
		subtle.ConstantTimeCompare(finished.VerifyData, expectedVerifyData) != 1 {
		return fatalAlert(alert.DecryptError, errVerifyDataMismatch)
	}

	return nil
}
