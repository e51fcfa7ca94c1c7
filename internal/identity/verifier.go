// Package identity verifies third-party identity tokens and provisions local
// user records for verified subjects.
package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// Claims carries the fields extracted from a verified identity token.
type Claims struct {
	UID   string
	Email string
}

// TokenVerifier abstracts identity-token verification so the transport layer
// can be tested without a live identity provider.
type TokenVerifier interface {
	Verify(idToken string) (*Claims, error)
}

// Verifier validates RS256 identity tokens issued for a single Firebase
// project against Google's current signing certificates. Construct one at
// startup and inject it where needed; it caches certificates until the
// provider's max-age expires and is safe for concurrent use.
type Verifier struct {
	projectID string
	certsURL  string
	client    *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time
}

func NewVerifier(projectID string) *Verifier {
	return &Verifier{
		projectID: projectID,
		certsURL:  defaultCertsURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *Verifier) Verify(idToken string) (*Claims, error) {
	token, err := jwt.Parse(idToken, v.keyFunc,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("identity token verification failed: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return nil, fmt.Errorf("identity token has malformed claims")
	}

	sub, err := claims.GetSubject()

	if err != nil || sub == "" {
		return nil, fmt.Errorf("identity token has no subject")
	}

	email, _ := claims["email"].(string)

	return &Claims{UID: sub, Email: email}, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, ok := token.Header["kid"].(string)

	if !ok || kid == "" {
		return nil, fmt.Errorf("token has no key id")
	}

	return v.signingKey(kid)
}

func (v *Verifier) signingKey(kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Now().Before(v.expiresAt)
	v.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := v.refreshKeys(); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	key, ok = v.keys[kid]

	if !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}

	return key, nil
}

// refreshKeys fetches the provider's current X.509 certificates, keyed by kid.
func (v *Verifier) refreshKeys() error {
	resp, err := v.client.Get(v.certsURL)

	if err != nil {
		return fmt.Errorf("failed to fetch signing certificates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("signing certificate endpoint returned %d", resp.StatusCode)
	}

	var certs map[string]string

	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("failed to decode signing certificates: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))

	for kid, certPEM := range certs {
		block, _ := pem.Decode([]byte(certPEM))

		if block == nil {
			return fmt.Errorf("invalid certificate PEM for key %q", kid)
		}

		cert, err := x509.ParseCertificate(block.Bytes)

		if err != nil {
			return fmt.Errorf("failed to parse certificate for key %q: %w", kid, err)
		}

		rsaKey, ok := cert.PublicKey.(*rsa.PublicKey)

		if !ok {
			return fmt.Errorf("certificate for key %q is not RSA", kid)
		}

		keys[kid] = rsaKey
	}

	v.mu.Lock()
	v.keys = keys
	v.expiresAt = time.Now().Add(cacheMaxAge(resp.Header.Get("Cache-Control")))
	v.mu.Unlock()

	return nil
}

// cacheMaxAge extracts max-age from a Cache-Control header, falling back to an
// hour when the header is missing or unparsable.
func cacheMaxAge(header string) time.Duration {
	for _, directive := range strings.Split(header, ",") {
		directive = strings.TrimSpace(directive)

		if value, ok := strings.CutPrefix(directive, "max-age="); ok {
			if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}

	return time.Hour
}
