package config

import (
	"time"

	"github.com/ncobase/shopauth/emailverify"
	"github.com/ncobase/shopauth/messaging/email"
	"github.com/spf13/viper"
)

// Email groups the email validation and email sending configuration.
type Email struct {
	Validation *emailverify.Config
	Sender     *email.Email
}

// getEmailConfig returns the email config.
func getEmailConfig(v *viper.Viper) *Email {
	return &Email{
		Validation: getEmailValidationConfig(v),
		Sender:     getEmailSenderConfig(v),
	}
}

func getEmailValidationConfig(v *viper.Viper) *emailverify.Config {
	cfg := &emailverify.Config{
		URL:     v.GetString("email.validation.url"),
		APIKey:  v.GetString("email.validation.api_key"),
		Timeout: v.GetDuration("email.validation.timeout"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return cfg
}

func getEmailSenderConfig(v *viper.Viper) *email.Email {
	return &email.Email{
		Provider: v.GetString("email.sender.provider"),
		Mailgun: &email.MailgunConfig{
			Key:    v.GetString("email.sender.mailgun.key"),
			Domain: v.GetString("email.sender.mailgun.domain"),
			From:   v.GetString("email.sender.mailgun.from"),
		},
		SendGrid: &email.SendGridConfig{
			Key:  v.GetString("email.sender.sendgrid.key"),
			From: v.GetString("email.sender.sendgrid.from"),
		},
		SMTP: &email.SMTPConfig{
			SMTPHost: v.GetString("email.sender.smtp.host"),
			SMTPPort: v.GetString("email.sender.smtp.port"),
			Username: v.GetString("email.sender.smtp.username"),
			Password: v.GetString("email.sender.smtp.password"),
			From:     v.GetString("email.sender.smtp.from"),
		},
	}
}
