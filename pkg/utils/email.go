package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "Jeep Adventures"
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Arial, sans-serif; margin: 0; padding: 40px 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 40px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #999; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2025 Jeep Adventures. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"
	headers["X-Mailer"] = "JeepAdventures-Mailer"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendOTPEmail sends the 6-digit verification code to a guest.
func SendOTPEmail(email, otpCode string) error {
	subject := "Your verification code - Jeep Adventures"
	body := fmt.Sprintf(emailHeader+`
				<div style="text-align: center; padding: 20px 0;">
					<div style="font-size: 72px; font-weight: 700; color: #1a1a1a; letter-spacing: 12px; font-family: 'Courier New', monospace; margin-bottom: 20px; line-height: 1;">
						%s
					</div>
					<p style="font-size: 14px; color: #666; margin: 0;">
						This code expires in 10 minutes
					</p>
				</div>`+emailFooter,
		otpCode)

	return sendEmail([]string{email}, subject, body)
}

// SendAccessLinkEmail sends the passwordless trip link for a booking.
func SendAccessLinkEmail(email, accessLink, bookingID string) error {
	shortID := bookingID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	subject := "Your Jeep Adventures trip link"
	body := fmt.Sprintf(emailHeader+`
				<h1 style="color: #1a1a1a; font-size: 24px; margin-bottom: 20px; text-align: center;">
					Your Jeep Adventures Trip Link
				</h1>
				<p style="color: #666; font-size: 16px; line-height: 1.6; margin-bottom: 30px;">
					Use this link to return to your trip or complete your return.
				</p>
				<div style="text-align: center; margin: 40px 0;">
					<a href="%s" style="display: inline-block; background-color: #2563eb; color: #ffffff; padding: 16px 32px; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px;">
						Access Your Trip
					</a>
				</div>
				<p style="color: #999; font-size: 14px; line-height: 1.6; margin-top: 30px; text-align: center;">
					If the button doesn't work, copy and paste this link into your browser:<br>
					<a href="%s" style="color: #2563eb; word-break: break-all;">%s</a>
				</p>
				<p style="color: #999; font-size: 12px; margin-top: 40px; text-align: center;">
					Booking ID: %s...
				</p>`+emailFooter,
		accessLink, accessLink, accessLink, shortID)

	return sendEmail([]string{email}, subject, body)
}
