package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type EmailService struct {
	apiKey      string
	fromEmail   string
	frontendURL string
}

func NewEmailService(apiKey, fromEmail, frontendURL string) *EmailService {
	return &EmailService{
		apiKey:      apiKey,
		fromEmail:   fromEmail,
		frontendURL: frontendURL,
	}
}

// SendInvitation tells a dependant they have been added to a household.
func (s *EmailService) SendInvitation(to, inviterName string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>You have been added to a household</h2>
        <p><strong>%s</strong> added you as a dependant on their Accountant household.</p>
        <p>Sign up with this e-mail address to see anything assigned to you:</p>
        <p><a href="%s/signup" style="display: inline-block; background: #1a7f5a; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px;">Create your account</a></p>
    </div>
</body>
</html>
	`, inviterName, s.frontendURL)

	subject := fmt.Sprintf("%s added you to their household", inviterName)
	return s.send(to, subject, htmlBody)
}

// SendVerification carries the account verification link.
func (s *EmailService) SendVerification(to, token string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>Verify your e-mail</h2>
        <p>Confirm this address to finish setting up your Accountant profile.</p>
        <p><a href="%s" style="display: inline-block; background: #1a7f5a; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px;">Verify e-mail</a></p>
        <p style="color: #888;">This link expires in 30 minutes.</p>
    </div>
</body>
</html>
	`, verifyURL)

	return s.send(to, "Verify your Accountant e-mail", htmlBody)
}

// SendPasswordReset carries the reset code.
func (s *EmailService) SendPasswordReset(to, code string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, code)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2>Reset your password</h2>
        <p>Someone (hopefully you) asked to reset your Accountant password.</p>
        <p><a href="%s" style="display: inline-block; background: #1a7f5a; color: white; padding: 14px 28px; text-decoration: none; border-radius: 8px;">Choose a new password</a></p>
        <p style="color: #888;">This link expires in 5 hours. If you did not ask for it, ignore this e-mail.</p>
    </div>
</body>
</html>
	`, resetURL)

	return s.send(to, "Reset your Accountant password", htmlBody)
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("Accountant <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}

	return nil
}
