package utils

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
)

func smtpEnv() (host, port, username, password, fromName, fromEmail string) {
	return os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_PORT"),
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM_NAME"),
		os.Getenv("SMTP_FROM_EMAIL")
}

// sendEmail delivers one plain-text message over SMTP with STARTTLS.
// With no SMTP configured it logs and returns nil so flows that email
// as a side effect keep working in dev.
func sendEmail(to, subject, body string) error {
	host, port, username, password, fromName, fromEmail := smtpEnv()

	if host == "" || username == "" || password == "" {
		fmt.Printf("⚠️ SMTP not configured, skipping email to %s (%s)\n", to, subject)
		return nil
	}
	if fromEmail == "" {
		fromEmail = username
	}

	client, err := smtp.Dial(fmt.Sprintf("%s:%s", host, port))
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := client.Auth(smtp.PlainAuth("", username, password, host)); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	if _, err = w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}

// SendResetLink emails a password reset URL
func SendResetLink(toEmail, resetToken string) error {
	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", baseURL, resetToken)
	body := fmt.Sprintf("Click here to reset your password: %s\n\nIf you did not request this reset, ignore this email.", resetURL)
	return sendEmail(toEmail, "Reset your password", body)
}

// SendHostApprovalEmail notifies an approved host account
func SendHostApprovalEmail(toEmail, fullName string) {
	body := fmt.Sprintf("Hello %s, your host account has been approved. You can now log in and publish events.", fullName)
	_ = sendEmail(toEmail, "Your host account has been approved", body)
}

// SendHostRejectionEmail notifies a rejected host applicant
func SendHostRejectionEmail(toEmail, fullName, reason string) {
	body := fmt.Sprintf("Hello %s, your host application was rejected.\nReason: %s", fullName, reason)
	_ = sendEmail(toEmail, "Your host application was rejected", body)
}

// SendRSVPDecisionEmail notifies a member about an RSVP decision
func SendRSVPDecisionEmail(toEmail, eventTitle, status string) {
	subject := fmt.Sprintf("Your request for %q was %s", eventTitle, status)
	body := fmt.Sprintf("Your RSVP for %q is now %s.", eventTitle, status)
	_ = sendEmail(toEmail, subject, body)
}
