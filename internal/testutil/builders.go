// Package testutil provides testing utilities and helpers for the portal login flow.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
)

// MechanismBuilder provides a fluent interface for building Mechanism values for testing.
type MechanismBuilder struct {
	m domainauth.Mechanism
}

// NewMechanism creates a MechanismBuilder with sensible defaults.
func NewMechanism(id string) *MechanismBuilder {
	return &MechanismBuilder{
		m: domainauth.Mechanism{
			ID:          id,
			Version:     domainauth.ProtocolV3,
			Host:        "idp.campus.test",
			Port:        443,
			Context:     "/cas",
			Affiliation: "campus",
		},
	}
}

// WithVersion sets the CAS protocol version.
func (b *MechanismBuilder) WithVersion(v domainauth.ProtocolVersion) *MechanismBuilder {
	b.m.Version = v
	return b
}

// WithEndpoint sets the provider host and port.
func (b *MechanismBuilder) WithEndpoint(host string, port int) *MechanismBuilder {
	b.m.Host = host
	b.m.Port = port
	return b
}

// WithContext sets the provider URL context path.
func (b *MechanismBuilder) WithContext(context string) *MechanismBuilder {
	b.m.Context = context
	return b
}

// WithValidateSSL sets the TLS verification flag explicitly.
func (b *MechanismBuilder) WithValidateSSL(validate bool) *MechanismBuilder {
	b.m.ValidateSSL = &validate
	return b
}

// WithCACert sets the CA bundle path used to verify the provider.
func (b *MechanismBuilder) WithCACert(path string) *MechanismBuilder {
	b.m.CACertFile = path
	return b
}

// WithAffiliation sets the affiliation stamped onto provisioned users.
func (b *MechanismBuilder) WithAffiliation(affiliation string) *MechanismBuilder {
	b.m.Affiliation = affiliation
	return b
}

// WithAttributeMap sets the provider-to-local attribute name mapping.
func (b *MechanismBuilder) WithAttributeMap(m map[string]string) *MechanismBuilder {
	b.m.AttributeMap = m
	return b
}

// WithDefaultGroup sets the group stamped onto provisioned users.
func (b *MechanismBuilder) WithDefaultGroup(group string) *MechanismBuilder {
	b.m.DefaultGroup = group
	return b
}

// Build returns the constructed Mechanism.
func (b *MechanismBuilder) Build() domainauth.Mechanism {
	return b.m
}

// CASSuccessXML renders a serviceValidate success response for a stub provider.
// Attribute pairs are rendered inside cas:attributes.
func CASSuccessXML(user string, attrs map[string]string) string {
	var sb strings.Builder
	sb.WriteString(`<cas:serviceResponse xmlns:cas="http://www.yale.edu/tp/cas">`)
	sb.WriteString(`<cas:authenticationSuccess>`)
	fmt.Fprintf(&sb, `<cas:user>%s</cas:user>`, user)
	if len(attrs) > 0 {
		sb.WriteString(`<cas:attributes>`)
		for k, v := range attrs {
			fmt.Fprintf(&sb, `<cas:%s>%s</cas:%s>`, k, v, k)
		}
		sb.WriteString(`</cas:attributes>`)
	}
	sb.WriteString(`</cas:authenticationSuccess></cas:serviceResponse>`)
	return sb.String()
}

// CASFailureXML renders a serviceValidate failure response.
func CASFailureXML(code, message string) string {
	return fmt.Sprintf(
		`<cas:serviceResponse xmlns:cas="http://www.yale.edu/tp/cas">`+
			`<cas:authenticationFailure code=%q>%s</cas:authenticationFailure>`+
			`</cas:serviceResponse>`, code, message)
}

// WriteKeypairPEM generates an RSA keypair and writes both halves as PEM
// files under dir. Returns the private and public key file paths.
func WriteKeypairPEM(t TestingTB, dir string) (privFile, pubFile string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal("generate keypair:", err)
	}

	privFile = filepath.Join(dir, "private.pem")
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(privFile, privPEM, 0o600); err != nil {
		t.Fatal("write private key:", err)
	}

	pubFile = filepath.Join(dir, "public.pem")
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal("marshal public key:", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	if err := os.WriteFile(pubFile, pubPEM, 0o644); err != nil {
		t.Fatal("write public key:", err)
	}

	return privFile, pubFile
}
