// Package smtp sends notification emails through an SMTP relay.
package smtp

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"time"

	"heartlink/internal/feature/notification/domain"
)

// Config holds relay settings.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

const (
	dialTimeout = 10 * time.Second
	// ioTimeout caps one whole SMTP conversation.
	ioTimeout = time.Minute
)

// Mailer delivers multipart text/HTML emails.
type Mailer struct {
	cfg     Config
	send    sendFunc
	timeout time.Duration
}

// NewMailer returns a Mailer for cfg. Port 465 uses implicit TLS; other ports use STARTTLS when offered.
func NewMailer(cfg Config) *Mailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	m := &Mailer{cfg: cfg, timeout: ioTimeout}
	m.send = m.sendSTARTTLS
	if cfg.Port == "465" {
		m.send = m.sendImplicitTLS
	}
	return m
}

// Send delivers e, giving up when ctx is done.
func (m *Mailer) Send(ctx context.Context, e domain.Email) error {
	msg, err := buildMessage(m.cfg.From, e)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- m.send(addr, auth, m.cfg.From, []string{e.To}, msg) }()
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp send to %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mailer) sendSTARTTLS(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := (&net.Dialer{Timeout: dialTimeout}).Dial("tcp", addr)
	if err != nil {
		return err
	}
	return m.deliver(conn, true, a, from, to, msg)
}

func (m *Mailer) sendImplicitTLS(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: dialTimeout}, "tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return err
	}
	return m.deliver(conn, false, a, from, to, msg)
}

// deliver runs the SMTP conversation on conn and always closes it.
func (m *Mailer) deliver(conn net.Conn, startTLS bool, a smtp.Auth, from string, to []string, msg []byte) error {
	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		_ = conn.Close()
		return err
	}
	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if startTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
				return err
			}
		}
	}
	if a != nil {
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from string, e domain.Email) ([]byte, error) {
	boundary, err := newBoundary()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: \"HeartLink\" <%s>\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", e.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", e.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	for _, part := range []struct{ contentType, body string }{
		{"text/plain", e.Text},
		{"text/html", e.HTML},
	} {
		if part.body == "" {
			continue
		}
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=\"utf-8\"\r\n", part.contentType)
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		qp := quotedprintable.NewWriter(&buf)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("\r\n")
	}
	fmt.Fprintf(&buf, "--%s--\r\n", boundary)
	return buf.Bytes(), nil
}

func newBoundary() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "hl-" + hex.EncodeToString(b), nil
}
