package smtpgw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
	"github.com/deepcatch/deepcatch/internal/trust"
)

// PostfixGateway runs as a Postfix content filter: it accepts mail on a
// local SMTP port, analyzes the text content, stamps verdict headers, and
// re-injects the message into Postfix.
type PostfixGateway struct {
	service          *core.AnalysisService
	trusted          *trust.Checker
	logger           *zap.Logger
	listenAddr       string
	server           *smtp.Server
	blockHighRisk    bool
	verdictHeader    string
	confidenceHeader string
	reasonHeader     string
	postfixAddr      string
	postfixPort      int
	postfixEnabled   bool
	subjectPrefix    string
	modifySubject    bool
}

// NewPostfixGateway creates a new Postfix content filter gateway
func NewPostfixGateway(
	service *core.AnalysisService,
	trusted *trust.Checker,
	logger *zap.Logger,
	listenAddr string,
	blockHighRisk bool,
	verdictHeader string,
	confidenceHeader string,
	reasonHeader string,
	postfixAddr string,
	postfixPort int,
	postfixEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *PostfixGateway {
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[PHISHING] "
	}

	return &PostfixGateway{
		service:          service,
		trusted:          trusted,
		logger:           logger,
		listenAddr:       listenAddr,
		blockHighRisk:    blockHighRisk,
		verdictHeader:    verdictHeader,
		confidenceHeader: confidenceHeader,
		reasonHeader:     reasonHeader,
		postfixAddr:      postfixAddr,
		postfixPort:      postfixPort,
		postfixEnabled:   postfixEnabled,
		subjectPrefix:    subjectPrefix,
		modifySubject:    modifySubject,
	}
}

// Start starts the SMTP gateway
func (g *PostfixGateway) Start() error {
	g.server = smtp.NewServer(&smtpBackend{gateway: g})

	g.server.Addr = g.listenAddr
	g.server.Domain = "localhost"
	g.server.ReadTimeout = 30 * time.Second
	g.server.WriteTimeout = 30 * time.Second
	g.server.MaxMessageBytes = 30 * 1024 * 1024
	g.server.MaxRecipients = 50
	g.server.AllowInsecureAuth = true

	g.logger.Info("SMTP gateway starting", zap.String("address", g.listenAddr))

	go func() {
		if err := g.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				g.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP gateway
func (g *PostfixGateway) Stop() error {
	if g.server != nil {
		return g.server.Close()
	}
	return nil
}

// sendToPostfix re-injects the stamped message into Postfix
func (g *PostfixGateway) sendToPostfix(sender string, recipients []string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", g.postfixAddr, g.postfixPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			g.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		g.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	gateway *PostfixGateway
}

func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		gateway:    b.gateway,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	gateway    *PostfixGateway
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message body and forwards the stamped message
func (s *smtpSession) Data(r io.Reader) error {
	g := s.gateway

	rawData, err := io.ReadAll(r)
	if err != nil {
		g.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		g.logger.Error("Failed to parse message", zap.Error(err))
		return err
	}

	senderDomain := "unknown"
	if parts := strings.Split(s.sender, "@"); len(parts) == 2 {
		senderDomain = strings.TrimSuffix(parts[1], ">")
	}

	if g.trusted.IsTrusted(s.sender) {
		g.logger.Info("Skipping analysis for trusted sender",
			zap.String("sender_domain", senderDomain))
		if g.postfixEnabled {
			return g.sendToPostfix(s.sender, s.recipients, rawData)
		}
		return nil
	}

	textContent, err := extractTextContent(msg)
	if err != nil {
		g.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	report, analysisErr := g.service.Analyze(ctx, textContent)
	if analysisErr != nil {
		g.logger.Error("Failed to analyze message",
			zap.Error(analysisErr),
			zap.String("sender_domain", senderDomain))

		// Fail open: mail flows on with an error marker, never bounces on
		// an analysis outage.
		report = &core.AnalysisReport{
			Verdict:     core.VerdictSafe,
			Confidence:  0,
			Explanation: fmt.Sprintf("Error during analysis: %v", analysisErr),
			Degraded:    true,
		}
	}

	if report.Verdict == core.VerdictHighRisk && g.blockHighRisk && analysisErr == nil {
		g.logger.Info("Rejecting high-risk message",
			zap.String("sender_domain", senderDomain),
			zap.Int("confidence", report.Confidence),
			zap.String("reason", report.Explanation))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as phishing (confidence: %d)", report.Confidence),
		}
	}

	stamped := s.stampMessage(msg, rawData, report, analysisErr)

	if g.postfixEnabled {
		if err := g.sendToPostfix(s.sender, s.recipients, stamped); err != nil {
			g.logger.Error("Failed to send message back to Postfix",
				zap.Error(err),
				zap.String("sender_domain", senderDomain))
			return err
		}
	} else {
		g.logger.Warn("Postfix forwarding disabled, this is likely a misconfiguration")
	}

	g.logger.Info("Processed message",
		zap.String("sender_domain", senderDomain),
		zap.String("verdict", string(report.Verdict)),
		zap.Int("confidence", report.Confidence),
		zap.Bool("degraded", report.Degraded))

	return nil
}

// stampMessage rebuilds the message with verdict headers prepended and the
// original body preserved byte for byte.
func (s *smtpSession) stampMessage(msg *mail.Message, rawData []byte, report *core.AnalysisReport, analysisErr error) []byte {
	g := s.gateway
	var out bytes.Buffer

	fmt.Fprintf(&out, "%s: %s\r\n", g.verdictHeader, report.Verdict)
	fmt.Fprintf(&out, "%s: %d\r\n", g.confidenceHeader, report.Confidence)
	fmt.Fprintf(&out, "%s: %s\r\n", g.reasonHeader, sanitizeHeaderValue(report.Explanation))
	if analysisErr != nil {
		fmt.Fprintf(&out, "X-Phishing-Analysis-Error: %s\r\n", sanitizeHeaderValue(analysisErr.Error()))
	}

	suspicious := report.Verdict != core.VerdictSafe
	rewriteSubject := suspicious && g.modifySubject && g.subjectPrefix != ""

	if rewriteSubject {
		subject := msg.Header.Get("Subject")
		if decoded, err := decodeEncodedHeader(subject); err == nil {
			subject = decoded
		}
		if !strings.HasPrefix(subject, g.subjectPrefix) {
			subject = g.subjectPrefix + subject
		}
		fmt.Fprintf(&out, "Subject: %s\r\n", subject)
	}

	for key, values := range msg.Header {
		if rewriteSubject && strings.EqualFold(key, "Subject") {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(&out, "%s: %s\r\n", key, value)
		}
	}
	out.WriteString("\r\n")

	// Body is copied from the raw bytes so MIME parts and attachments
	// survive untouched.
	if i := bytes.Index(rawData, []byte("\r\n\r\n")); i >= 0 {
		out.Write(rawData[i+4:])
	} else if i := bytes.Index(rawData, []byte("\n\n")); i >= 0 {
		out.Write(rawData[i+2:])
	} else if body, err := io.ReadAll(msg.Body); err == nil {
		out.Write(body)
	}

	return out.Bytes()
}

// sanitizeHeaderValue folds the value onto a single header line
func sanitizeHeaderValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

func (s *smtpSession) Logout() error {
	return nil
}
