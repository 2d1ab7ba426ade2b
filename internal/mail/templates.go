package mail

import "fmt"

// ConfirmationEmail returns the subject and HTML body for the registration
// confirmation email carrying the single-use code.
func ConfirmationEmail(code string) (subject, html string) {
	subject = "Finish registration"
	html = fmt.Sprintf(
		`<h1>Thanks for registering</h1><p>To finish registration please follow the link below:<br><a href="https://blogger-platform.example.com/confirm-email?code=%s">complete registration</a></p>`,
		code,
	)
	return subject, html
}

// RecoveryEmail returns the subject and HTML body for the password-recovery
// email carrying the single-use code.
func RecoveryEmail(code string) (subject, html string) {
	subject = "Password recovery"
	html = fmt.Sprintf(
		`<h1>Password recovery</h1><p>To set a new password please follow the link below:<br><a href="https://blogger-platform.example.com/password-recovery?recoveryCode=%s">recover password</a></p>`,
		code,
	)
	return subject, html
}
