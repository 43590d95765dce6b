package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// SendMail delivers an HTML email through the SMTP server configured by
// SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASSWORD. When no SMTP host is
// configured the message is logged instead, which keeps local development
// working without a mail account.
func SendMail(to string, subject string, html string) (bool, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Printf("email (SMTP unconfigured) to=%s subject=%q", to, subject)
		return false, nil
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = user
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n"+
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, html)

	auth := smtp.PlainAuth("", user, password, host)
	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg)); err != nil {
		return false, err
	}

	return true, nil
}
