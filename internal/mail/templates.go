package mail

import "fmt"

// VerificationEmail renders the email-verification message around the given
// link. The link embeds the raw single-use secret.
func VerificationEmail(name, verificationURL string) (subject, html, text string) {
	subject = "Verify Your Email - User Account Service"
	html = fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #333;">Email Verification</h2>
    <p>Hello %s,</p>
    <p>Please verify your email address by clicking the link below:</p>
    <a href="%s"
       style="background-color: #4361ee; color: white; padding: 12px 24px;
              text-decoration: none; border-radius: 5px; display: inline-block;">
        Verify Email
    </a>
    <p>This link will expire in 1 hour.</p>
    <p>If you didn't create an account, please ignore this email.</p>
</div>`, name, verificationURL)
	text = fmt.Sprintf("Hello %s,\n\nPlease verify your email address by opening this link:\n%s\n\nThis link will expire in 1 hour.\nIf you didn't create an account, please ignore this email.\n", name, verificationURL)
	return subject, html, text
}

// ResetEmail renders the password-reset message around the given link.
func ResetEmail(name, resetURL string) (subject, html, text string) {
	subject = "Password Reset Request - User Account Service"
	html = fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #333;">Password Reset</h2>
    <p>Hello %s,</p>
    <p>You requested a password reset. Click the link below to reset your password:</p>
    <a href="%s"
       style="background-color: #4361ee; color: white; padding: 12px 24px;
              text-decoration: none; border-radius: 5px; display: inline-block;">
        Reset Password
    </a>
    <p>This link will expire in 1 hour.</p>
    <p>If you didn't request this, please ignore this email.</p>
</div>`, name, resetURL)
	text = fmt.Sprintf("Hello %s,\n\nYou requested a password reset. Open this link to reset your password:\n%s\n\nThis link will expire in 1 hour.\nIf you didn't request this, please ignore this email.\n", name, resetURL)
	return subject, html, text
}
