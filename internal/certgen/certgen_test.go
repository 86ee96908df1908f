package certgen

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/subwaymap/internal/client/transport"
)

func TestGenerateCA(t *testing.T) {
	ca, err := GenerateCA("subway dev CA")
	require.NoError(t, err)

	cert, key, err := ParsePair(ca)
	require.NoError(t, err)
	assert.True(t, cert.IsCA)
	assert.True(t, cert.BasicConstraintsValid)
	assert.Equal(t, "subway dev CA", cert.Subject.CommonName)
	assert.NotZero(t, cert.KeyUsage&x509.KeyUsageCertSign)
	assert.Greater(t, cert.NotAfter.Sub(cert.NotBefore), 9*365*24*time.Hour)
	assert.Equal(t, 256, key.Curve.Params().BitSize)
}

func TestGenerateServerCertificate_VerifiesAgainstCA(t *testing.T) {
	ca, err := GenerateCA("test CA")
	require.NoError(t, err)
	srv, err := GenerateServerCertificate([]string{"localhost", "127.0.0.1"}, ca)
	require.NoError(t, err)

	caCert, _, err := ParsePair(ca)
	require.NoError(t, err)
	cert, _, err := ParsePair(srv)
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())

	pool := x509.NewCertPool()
	pool.AddCert(caCert)
	for _, host := range []string{"localhost", "127.0.0.1"} {
		_, err := cert.Verify(x509.VerifyOptions{DNSName: host, Roots: pool})
		assert.NoError(t, err, host)
	}
	_, err = cert.Verify(x509.VerifyOptions{DNSName: "example.com", Roots: pool})
	assert.Error(t, err)
}

func TestGenerateServerCertificate_Errors(t *testing.T) {
	_, err := GenerateServerCertificate(nil, Pair{})
	assert.Error(t, err)

	_, err = GenerateServerCertificate([]string{"localhost"}, Pair{CertPEM: []byte("junk")})
	assert.ErrorContains(t, err, "invalid cert PEM")
}

func TestPair_WriteLoad(t *testing.T) {
	ca, err := GenerateCA("test CA")
	require.NoError(t, err)

	dir := t.TempDir()
	certPath, keyPath := filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")
	require.NoError(t, ca.Write(certPath, keyPath))

	loaded, err := LoadPair(certPath, keyPath)
	require.NoError(t, err)
	assert.Equal(t, ca, loaded)

	_, err = LoadPair(filepath.Join(dir, "missing.crt"), keyPath)
	assert.ErrorContains(t, err, "read cert")
}

// The client built with --ca accepts a server using the issued pair.
func TestClientTrustsIssuedServerCertificate(t *testing.T) {
	ca, err := GenerateCA("test CA")
	require.NoError(t, err)
	pair, err := GenerateServerCertificate([]string{"127.0.0.1"}, ca)
	require.NoError(t, err)

	tlsCert, err := tls.X509KeyPair(pair.CertPEM, pair.KeyPEM)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{tlsCert}, MinVersion: tls.VersionTLS12}
	srv.StartTLS()
	defer srv.Close()

	caPath := filepath.Join(t.TempDir(), "ca.crt")
	require.NoError(t, ca.Write(caPath, filepath.Join(t.TempDir(), "ca.key")))

	hc, err := transport.NewHTTPClient(caPath, time.Second)
	require.NoError(t, err)
	resp, err := transport.New(hc, zap.NewNop()).Do(t.Context(), http.MethodDelete, srv.URL+"/lines/1", nil, "tok")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}
