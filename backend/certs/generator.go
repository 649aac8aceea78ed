package certs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Certificate describes one issued completion certificate.
type Certificate struct {
	ID         string    `json:"id"`
	Path       string    `json:"-"`
	VerifyCode string    `json:"verify_code"`
	VerifyURL  string    `json:"verify_url,omitempty"`
	IssuedAt   time.Time `json:"issued_at"`
}

// Generator writes certificate artifacts into Dir. VerifyBaseURL, when
// set, is prepended to the verification code to form a public URL.
type Generator struct {
	Dir           string
	VerifyBaseURL string
}

func NewGenerator(dir, verifyBaseURL string) *Generator {
	return &Generator{Dir: dir, VerifyBaseURL: verifyBaseURL}
}

// Generate issues a certificate for a passed course and saves it as a
// text artifact named after a timestamp-derived id.
func (g *Generator) Generate(username, courseTitle string) (*Certificate, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create certificate dir: %w", err)
	}

	now := time.Now().UTC()
	certID := fmt.Sprintf("cert-%d", now.UnixNano())
	cert := &Certificate{
		ID:         certID,
		Path:       filepath.Join(g.Dir, certID+".txt"),
		VerifyCode: uuid.NewString(),
		IssuedAt:   now,
	}
	if g.VerifyBaseURL != "" {
		cert.VerifyURL = strings.TrimSuffix(g.VerifyBaseURL, "/") + "/" + cert.VerifyCode
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Certificate of Completion\n")
	fmt.Fprintf(&body, "Awarded to %s for completing %s on %s\n", username, courseTitle, now.Format("2006-01-02"))
	fmt.Fprintf(&body, "Verification code: %s\n", cert.VerifyCode)
	if cert.VerifyURL != "" {
		fmt.Fprintf(&body, "Verify at: %s\n", cert.VerifyURL)
	}

	if err := os.WriteFile(cert.Path, []byte(body.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write certificate: %w", err)
	}
	return cert, nil
}
