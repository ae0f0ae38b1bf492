package utils

import (
	"gopkg.in/gomail.v2"

	"godown-app/config"
)

// SendReportEmail mails an HTML report with one attached file. SMTP settings
// come from the environment; callers get the dial error back untouched.
func SendReportEmail(to []string, subject, htmlBody, attachmentPath string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPUser)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if attachmentPath != "" {
		msg.Attach(attachmentPath)
	}

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}
