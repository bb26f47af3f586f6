package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/formgate/formgate-backend/config"
	"github.com/formgate/formgate-backend/logger"
)

// smtpProvider is a connection-pooled SMTP transport. It keeps at most
// MaxConnections live sessions, retires a session after MaxMessages sends,
// and spaces outbound messages by RateDeltaMillis. Callers block on the pool
// when every connection is busy.
type smtpProvider struct {
	cfg *config.EmailConfig

	mu       sync.Mutex
	idle     []*smtpConn
	open     int
	nextSend time.Time
	// signaled when a connection is returned or retired
	slot chan struct{}
}

type smtpConn struct {
	client *smtp.Client
	sent   int
}

func newSMTPProvider(cfg *config.EmailConfig) *smtpProvider {
	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 5
	}
	return &smtpProvider{
		cfg:  cfg,
		slot: make(chan struct{}, maxConns),
	}
}

func (p *smtpProvider) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := p.waitRate(ctx); err != nil {
		return err
	}

	conn, err := p.acquire(ctx)
	if err != nil {
		return err
	}

	msg := buildMessage(p.cfg.FromAddress(), to, subject, htmlBody)

	// net/smtp has no context support; run the transaction in a goroutine and
	// abandon the connection if the deadline fires first.
	done := make(chan error, 1)
	go func() {
		done <- p.transact(conn, to, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			p.retire(conn)
			return err
		}
		p.release(conn)
		return nil
	case <-ctx.Done():
		go func() {
			<-done
			p.retire(conn)
		}()
		return fmt.Errorf("smtp send timed out: %w", ctx.Err())
	}
}

// waitRate enforces the minimum gap between outbound messages.
func (p *smtpProvider) waitRate(ctx context.Context) error {
	delta := time.Duration(p.cfg.RateDeltaMillis) * time.Millisecond
	if delta <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	at := p.nextSend
	if at.Before(now) {
		at = now
	}
	p.nextSend = at.Add(delta)
	p.mu.Unlock()

	wait := time.Until(at)
	if wait <= 0 {
		return nil
	}
	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// acquire returns an idle connection, dials a new one under the cap, or
// blocks until another sender releases.
func (p *smtpProvider) acquire(ctx context.Context) (*smtpConn, error) {
	for {
		p.mu.Lock()
		if n := len(p.idle); n > 0 {
			conn := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return conn, nil
		}
		if p.open < cap(p.slot) {
			p.open++
			p.mu.Unlock()
			conn, err := p.dial()
			if err != nil {
				p.mu.Lock()
				p.open--
				p.mu.Unlock()
				p.signal()
				return nil, err
			}
			return conn, nil
		}
		p.mu.Unlock()

		select {
		case <-p.slot:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (p *smtpProvider) release(conn *smtpConn) {
	conn.sent++
	maxMessages := p.cfg.MaxMessages
	if maxMessages <= 0 {
		maxMessages = 100
	}
	if conn.sent >= maxMessages {
		p.retire(conn)
		return
	}

	p.mu.Lock()
	p.idle = append(p.idle, conn)
	p.mu.Unlock()
	p.signal()
}

func (p *smtpProvider) retire(conn *smtpConn) {
	if conn.client != nil {
		if err := conn.client.Quit(); err != nil {
			_ = conn.client.Close()
		}
	}
	p.mu.Lock()
	p.open--
	p.mu.Unlock()
	p.signal()
}

func (p *smtpProvider) signal() {
	select {
	case p.slot <- struct{}{}:
	default:
	}
}

// dial opens and authenticates a new SMTP session. TLS when EMAIL_SECURE,
// AUTH only when credentials are present on a secure channel.
func (p *smtpProvider) dial() (*smtpConn, error) {
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	var client *smtp.Client
	if p.cfg.Secure {
		conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: p.cfg.Host})
		if err != nil {
			return nil, fmt.Errorf("dial tls: %w", err)
		}
		client, err = smtp.NewClient(conn, p.cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("new client: %w", err)
		}
	} else {
		var err error
		client, err = smtp.Dial(addr)
		if err != nil {
			return nil, fmt.Errorf("dial: %w", err)
		}
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: p.cfg.Host}); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if p.cfg.Username != "" && p.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
			if err := client.Auth(auth); err != nil {
				_ = client.Close()
				return nil, fmt.Errorf("auth: %w", err)
			}
		}
	}

	logger.GetLogger().Debugw("SMTP connection established", "host", p.cfg.Host)
	return &smtpConn{client: client}, nil
}

func (p *smtpProvider) transact(conn *smtpConn, to, msg string) error {
	c := conn.client
	if err := c.Mail(parseFromEmail(p.cfg.FromAddress())); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return w.Close()
}

func buildMessage(from, to, subject, htmlBody string) string {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody
}

func parseFromEmail(from string) string {
	if i := strings.Index(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return strings.TrimSpace(from[i+1 : i+j])
		}
	}
	return strings.TrimSpace(from)
}
