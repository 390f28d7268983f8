// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtlserver

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/pion/dtlserver/internal/util"
	"github.com/pion/dtlserver/pkg/crypto/hash"
	"github.com/pion/dtlserver/pkg/crypto/prf"
	cryptosignature "github.com/pion/dtlserver/pkg/crypto/signature"
	"github.com/pion/dtlserver/pkg/protocol"
	"github.com/pion/dtlserver/pkg/protocol/alert"
	"github.com/pion/dtlserver/pkg/protocol/extension"
	"github.com/pion/dtlserver/pkg/protocol/handshake"
	"golang.org/x/crypto/curve25519"
)

// frameMessage prepends the type/length framing the test adapters hash
// into the transcript.
func frameMessage(typ handshake.Type, body []byte) []byte {
	out := make([]byte, 4+len(body))
	out[0] = byte(typ)
	util.PutBigEndianUint24(out[1:], uint32(len(body))) //nolint:gosec
	copy(out[4:], body)

	return out
}

// testRecordLayer is the record layer double: it remembers the pending
// epoch and the alerts the driver asked it to send, and loops
// application data back for Transport tests.
type testRecordLayer struct {
	peerVersion protocol.Version

	pendingCipher  Cipher
	pendingEpochs  int
	notifiedAlerts []alert.Alert
	closed         bool

	loopback bytes.Buffer
}

func (r *testRecordLayer) Read(p []byte) (int, error) {
	if r.closed {
		return 0, io.EOF
	}

	return r.loopback.Read(p)
}

func (r *testRecordLayer) Write(p []byte) (int, error) {
	if r.closed {
		return 0, io.ErrClosedPipe
	}

	return r.loopback.Write(p)
}

func (r *testRecordLayer) Close() error {
	r.closed = true

	return nil
}

func (r *testRecordLayer) DiscoveredPeerVersion() protocol.Version {
	return r.peerVersion
}

func (r *testRecordLayer) InitPendingEpoch(cipher Cipher) {
	r.pendingCipher = cipher
	r.pendingEpochs++
}

func (r *testRecordLayer) Notify(level alert.Level, desc alert.Description) error {
	r.notifiedAlerts = append(r.notifiedAlerts, alert.Alert{Level: level, Description: desc})

	return nil
}

// testReliableHandshake keeps the shared transcript the way a real
// reliable handshake layer would: every message it delivers or sends is
// appended, framed, in order.
type testReliableHandshake struct {
	client *testClient

	transcript    []byte
	helloComplete bool
	finished      bool
}

func (h *testReliableHandshake) currentHash() []byte {
	sum := sha256.Sum256(h.transcript)

	return sum[:]
}

func (h *testReliableHandshake) ReceiveMessage() (Message, error) {
	msg, err := h.client.nextMessage(h)
	if err != nil {
		return Message{}, err
	}
	h.transcript = append(h.transcript, frameMessage(msg.Type, msg.Body)...)

	return msg, nil
}

func (h *testReliableHandshake) SendMessage(typ handshake.Type, body []byte) error {
	// The hash a Finished covers excludes the Finished itself, so hand
	// the client the snapshot from before this message.
	preHash := h.currentHash()
	h.transcript = append(h.transcript, frameMessage(typ, body)...)
	h.client.onServerMessage(Message{Type: typ, Body: body}, preHash)

	return nil
}

func (h *testReliableHandshake) CurrentHash() []byte {
	return h.currentHash()
}

func (h *testReliableHandshake) NotifyHelloComplete() {
	h.helloComplete = true
}

func (h *testReliableHandshake) Finish() error {
	h.finished = true

	return nil
}

type clientKeyExchangeMode int

const (
	clientKeyExchangePSK clientKeyExchangeMode = iota
	clientKeyExchangeECDHE
)

// testClient plays the connecting peer. It answers the driver's
// ReceiveMessage calls from a tiny state machine of its own and checks
// the server's Finished the way a real client would.
type testClient struct {
	// configuration
	clientHelloBody []byte
	firstMessage    *Message
	kxMode          clientKeyExchangeMode
	psk             []byte
	pskIdentity     []byte
	certificate     [][]byte
	signer          *ecdsa.PrivateKey
	corruptFinished bool

	// observed
	serverMessages    []Message
	serverHello       handshake.MessageServerHello
	serverKeyExchange []byte
	sawServerFinished bool
	serverFinishedOK  bool
	newSessionTicket  *handshake.MessageNewSessionTicket

	masterSecret []byte
	step         int
	plan         []func(*testClient, *testReliableHandshake) (Message, error)
}

func defaultClientHelloBody(suites []uint16, extensions extension.List) []byte {
	hello := &handshake.MessageClientHello{
		Version:            protocol.Version1_2,
		SessionID:          []byte{},
		Cookie:             []byte{},
		CipherSuiteIDs:     suites,
		CompressionMethods: []protocol.CompressionMethodID{protocol.CompressionMethodNull},
		Extensions:         extensions,
	}
	if err := hello.Random.Populate(); err != nil {
		panic(err) //nolint:forbidigo
	}

	body, err := hello.Marshal()
	if err != nil {
		panic(err) //nolint:forbidigo
	}

	return body
}

func newPSKTestClient(suites []uint16, extensions extension.List) *testClient {
	return &testClient{
		clientHelloBody: defaultClientHelloBody(suites, extensions),
		kxMode:          clientKeyExchangePSK,
		psk:             []byte{0xAB, 0xC1, 0x23, 0x00, 0xFF},
		pskIdentity:     []byte("dtlserver-test"),
	}
}

func (c *testClient) onServerMessage(msg Message, preHash []byte) {
	c.serverMessages = append(c.serverMessages, msg)

	switch msg.Type {
	case handshake.TypeServerHello:
		_ = c.serverHello.Unmarshal(msg.Body)
	case handshake.TypeServerKeyExchange:
		c.serverKeyExchange = msg.Body
	case handshake.TypeSessionTicket:
		ticket := &handshake.MessageNewSessionTicket{}
		if err := ticket.Unmarshal(msg.Body); err == nil {
			c.newSessionTicket = ticket
		}
	case handshake.TypeFinished:
		c.sawServerFinished = true
		expected, err := prf.VerifyDataServer(prf.SHA256, c.masterSecret, preHash)
		if err == nil && bytes.Equal(expected, msg.Body) {
			c.serverFinishedOK = true
		}
	}
}

func (c *testClient) clientRandom() []byte {
	hello := &handshake.MessageClientHello{}
	if err := hello.Unmarshal(c.clientHelloBody); err != nil {
		return nil
	}
	random := hello.Random.MarshalFixed()

	return random[:]
}

func (c *testClient) nextMessage(h *testReliableHandshake) (Message, error) {
	if c.step == 0 {
		c.step++
		if c.firstMessage != nil {
			return *c.firstMessage, nil
		}

		return Message{Type: handshake.TypeClientHello, Body: c.clientHelloBody}, nil
	}

	if c.plan == nil {
		if c.certificate != nil {
			c.plan = append(c.plan, (*testClient).certificateMessage)
		}
		c.plan = append(c.plan, (*testClient).clientKeyExchange)
		if c.signer != nil {
			c.plan = append(c.plan, (*testClient).certificateVerify)
		}
		c.plan = append(c.plan, (*testClient).finished)
	}
	if len(c.plan) == 0 {
		return Message{}, io.EOF
	}

	next := c.plan[0]
	c.plan = c.plan[1:]

	return next(c, h)
}

func (c *testClient) certificateMessage(*testReliableHandshake) (Message, error) {
	body, err := (&handshake.MessageCertificate{Certificate: c.certificate}).Marshal()
	if err != nil {
		return Message{}, err
	}

	return Message{Type: handshake.TypeCertificate, Body: body}, nil
}

func (c *testClient) certificateVerify(h *testReliableHandshake) (Message, error) {
	// The signature covers the transcript up to but excluding the
	// CertificateVerify itself.
	signature, err := ecdsa.SignASN1(rand.Reader, c.signer, h.CurrentHash())
	if err != nil {
		return Message{}, err
	}

	body, err := (&handshake.MessageCertificateVerify{
		HashAlgorithm:      hash.SHA256,
		SignatureAlgorithm: cryptosignature.ECDSA,
		Signature:          signature,
	}).Marshal()
	if err != nil {
		return Message{}, err
	}

	return Message{Type: handshake.TypeCertificateVerify, Body: body}, nil
}

func (c *testClient) clientKeyExchange(*testReliableHandshake) (Message, error) {
	var (
		clientKeyExchange handshake.MessageClientKeyExchange
		preMasterSecret   []byte
	)

	switch c.kxMode {
	case clientKeyExchangePSK:
		clientKeyExchange.IdentityHint = c.pskIdentity
		preMasterSecret = pskPreMasterSecret(c.psk)
	case clientKeyExchangeECDHE:
		privateKey := make([]byte, curve25519.ScalarSize)
		if _, err := rand.Read(privateKey); err != nil {
			return Message{}, err
		}
		publicKey, err := curve25519.X25519(privateKey, curve25519.Basepoint)
		if err != nil {
			return Message{}, err
		}
		clientKeyExchange.PublicKey = publicKey

		// The server's public key is the opaque8 tail of its
		// ServerKeyExchange params.
		serverPublicKey := c.serverKeyExchange[4:]
		if preMasterSecret, err = curve25519.X25519(privateKey, serverPublicKey); err != nil {
			return Message{}, err
		}
	}

	serverRandom := c.serverHello.Random.MarshalFixed()
	masterSecret, err := prf.MasterSecret(prf.SHA256, preMasterSecret, c.clientRandom(), serverRandom[:])
	if err != nil {
		return Message{}, err
	}
	c.masterSecret = masterSecret

	body, err := clientKeyExchange.Marshal()
	if err != nil {
		return Message{}, err
	}

	return Message{Type: handshake.TypeClientKeyExchange, Body: body}, nil
}

func (c *testClient) finished(h *testReliableHandshake) (Message, error) {
	verifyData, err := prf.VerifyDataClient(prf.SHA256, c.masterSecret, h.CurrentHash())
	if err != nil {
		return Message{}, err
	}
	if c.corruptFinished {
		verifyData[0] ^= 0xff
	}

	return Message{Type: handshake.TypeFinished, Body: verifyData}, nil
}

// testCipher is the record protection double the policy hands back.
type testCipher struct{}

func (testCipher) Encrypt(raw []byte) ([]byte, error) { return raw, nil }
func (testCipher) Decrypt(in []byte) ([]byte, error) { return in, nil }

// testCredentials is a canned DER chain.
type testCredentials struct {
	chain [][]byte
}

func (c *testCredentials) Certificate() [][]byte { return c.chain }

// testPolicy is a fully scripted ServerPolicy.
type testPolicy struct {
	serverVersion     protocol.Version
	cipherSuite       CipherSuiteID
	compressionMethod CompressionMethodID
	serverExtensions  extension.List
	supplementalData  []handshake.SupplementalDataEntry
	keyExchange       KeyExchange
	credentials       Credentials
	certRequest       *handshake.MessageCertificateRequest
	sessionTicket     *handshake.MessageNewSessionTicket

	ctx                       *Context
	notifiedClientVersion     protocol.Version
	offeredCipherSuites       []CipherSuiteID
	offeredCompressionMethods []CompressionMethodID
	secureRenegotiation       bool
	clientExtensions          extension.List
	clientSupplementalData    []handshake.SupplementalDataEntry
	supplementalDataDelivered bool
	handshakeComplete         bool
}

func newPSKTestPolicy() *testPolicy {
	return &testPolicy{
		serverVersion:     protocol.Version1_2,
		cipherSuite:       TLS_RSA_WITH_AES_128_CBC_SHA,
		compressionMethod: protocol.CompressionMethodNull,
		keyExchange:       &testPSKKeyExchange{psk: []byte{0xAB, 0xC1, 0x23, 0x00, 0xFF}},
	}
}

func (p *testPolicy) Init(ctx *Context) error { p.ctx = ctx; return nil }

func (p *testPolicy) NotifyClientVersion(version protocol.Version) error {
	p.notifiedClientVersion = version

	return nil
}

func (p *testPolicy) NotifyOfferedCipherSuites(ids []CipherSuiteID) error {
	p.offeredCipherSuites = ids

	return nil
}

func (p *testPolicy) NotifyOfferedCompressionMethods(methods []CompressionMethodID) error {
	p.offeredCompressionMethods = methods

	return nil
}

func (p *testPolicy) NotifySecureRenegotiation(secure bool) error {
	p.secureRenegotiation = secure

	return nil
}

func (p *testPolicy) ProcessClientExtensions(extensions extension.List) error {
	p.clientExtensions = extensions

	return nil
}

func (p *testPolicy) ServerVersion() (protocol.Version, error) { return p.serverVersion, nil }

func (p *testPolicy) SelectedCipherSuite() (CipherSuiteID, error) { return p.cipherSuite, nil }

func (p *testPolicy) SelectedCompressionMethod() (CompressionMethodID, error) {
	return p.compressionMethod, nil
}

func (p *testPolicy) ServerExtensions() (extension.List, error) { return p.serverExtensions, nil }

func (p *testPolicy) ServerSupplementalData() ([]handshake.SupplementalDataEntry, error) {
	return p.supplementalData, nil
}

func (p *testPolicy) KeyExchange() (KeyExchange, error) { return p.keyExchange, nil }

func (p *testPolicy) Credentials() (Credentials, error) { return p.credentials, nil }

func (p *testPolicy) CertificateRequest() (*handshake.MessageCertificateRequest, error) {
	return p.certRequest, nil
}

func (p *testPolicy) ProcessClientSupplementalData(entries []handshake.SupplementalDataEntry) error {
	p.clientSupplementalData = entries
	p.supplementalDataDelivered = true

	return nil
}

func (p *testPolicy) Cipher() (Cipher, error) { return testCipher{}, nil }

func (p *testPolicy) NewSessionTicket() (*handshake.MessageNewSessionTicket, error) {
	return p.sessionTicket, nil
}

func (p *testPolicy) NotifyHandshakeComplete() error {
	p.handshakeComplete = true

	return nil
}

// pskPreMasterSecret lays the key out per RFC 4279 Section 2, the same
// on both ends of the exchange.
func pskPreMasterSecret(psk []byte) []byte {
	out := make([]byte, 2+len(psk)+2+len(psk))
	out[1] = byte(len(psk))
	out[2+len(psk)+1] = byte(len(psk))
	copy(out[2+len(psk)+2:], psk)

	return out
}

// testPSKKeyExchange is a fixed-key PSK exchange double.
type testPSKKeyExchange struct {
	psk      []byte
	received bool
}

func (k *testPSKKeyExchange) Init(*Context) error { return nil }
func (k *testPSKKeyExchange) ProcessServerCredentials(Credentials) error { return nil }
func (k *testPSKKeyExchange) SkipServerCredentials() error { return nil }
func (k *testPSKKeyExchange) GenerateServerKeyExchange() ([]byte, error) { return nil, nil }
func (k *testPSKKeyExchange) SkipClientCredentials() error { return nil }

func (k *testPSKKeyExchange) ValidateCertificateRequest(*handshake.MessageCertificateRequest) error {
	return nil
}

func (k *testPSKKeyExchange) ProcessClientCertificate(*handshake.MessageCertificate) error {
	return nil
}

func (k *testPSKKeyExchange) ProcessClientKeyExchange(body []byte) error {
	clientKeyExchange := &handshake.MessageClientKeyExchange{}
	if err := clientKeyExchange.Unmarshal(body); err != nil {
		return err
	}
	k.received = true

	return nil
}

func (k *testPSKKeyExchange) GeneratePreMasterSecret() ([]byte, error) {
	if !k.received {
		return nil, errUnexpectedMessage
	}

	return pskPreMasterSecret(k.psk), nil
}

// testECDHEKeyExchange is an ephemeral X25519 exchange double.
type testECDHEKeyExchange struct {
	privateKey      []byte
	publicKey       []byte
	preMasterSecret []byte
}

func (k *testECDHEKeyExchange) Init(*Context) error {
	k.privateKey = make([]byte, curve25519.ScalarSize)
	if _, err := rand.Read(k.privateKey); err != nil {
		return err
	}

	publicKey, err := curve25519.X25519(k.privateKey, curve25519.Basepoint)
	if err != nil {
		return err
	}
	k.publicKey = publicKey

	return nil
}

func (k *testECDHEKeyExchange) ProcessServerCredentials(Credentials) error { return nil }
func (k *testECDHEKeyExchange) SkipServerCredentials() error { return nil }
func (k *testECDHEKeyExchange) SkipClientCredentials() error { return nil }

func (k *testECDHEKeyExchange) GenerateServerKeyExchange() ([]byte, error) {
	out := []byte{3, 0x00, 0x1d, byte(len(k.publicKey))}

	return append(out, k.publicKey...), nil
}

func (k *testECDHEKeyExchange) ValidateCertificateRequest(*handshake.MessageCertificateRequest) error {
	return nil
}

func (k *testECDHEKeyExchange) ProcessClientCertificate(*handshake.MessageCertificate) error {
	return nil
}

func (k *testECDHEKeyExchange) ProcessClientKeyExchange(body []byte) error {
	clientKeyExchange := &handshake.MessageClientKeyExchange{}
	if err := clientKeyExchange.Unmarshal(body); err != nil {
		return err
	}

	preMasterSecret, err := curve25519.X25519(k.privateKey, clientKeyExchange.PublicKey)
	if err != nil {
		return err
	}
	k.preMasterSecret = preMasterSecret

	return nil
}

func (k *testECDHEKeyExchange) GeneratePreMasterSecret() ([]byte, error) {
	return append([]byte{}, k.preMasterSecret...), nil
}
