package app

import (
	"github.com/uptrack-app/uptrack/internal/config"
	"github.com/uptrack-app/uptrack/internal/mailer"
)

var globalMailer mailer.Mailer

func MustInitMailer() {
	cfg := config.Global()
	if cfg.SMTP.Host == "" {
		globalMailer = mailer.Noop{}
		globalLogger.Warn().Msg("no smtp host configured, outbound mail disabled")
		return
	}

	smtp, err := mailer.NewSMTP(
		globalLogger,
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.HTTP.FrontendURL,
	)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to initialize mailer")
		panic(err)
	}

	globalMailer = smtp
	globalLogger.Info().
		Str("host", cfg.SMTP.Host).
		Int("port", cfg.SMTP.Port).
		Msg("initialized mailer")
}
