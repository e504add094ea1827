package di

import (
	"context"
	"fmt"
	"log/slog"

	notificationadapters "heartlink/internal/feature/notification/adapters"
	"heartlink/internal/feature/notification/adapters/mailtemplate"
	"heartlink/internal/feature/notification/adapters/smtp"
	notificationusecase "heartlink/internal/feature/notification/usecase"
	s3adapter "heartlink/internal/feature/profile/adapters/s3"
	visionadapter "heartlink/internal/feature/profile/adapters/vision"
	profileusecase "heartlink/internal/feature/profile/usecase"
	"heartlink/internal/platform/config"
	"heartlink/internal/platform/metrics"
)

// NewDispatcher builds the notification dispatcher. Emails are only logged when
// SMTP_HOST is unset.
func NewDispatcher(cfg *config.Config, m *metrics.Metrics) (*notificationusecase.Dispatcher, error) {
	renderer, err := mailtemplate.New(cfg.ClientURL)
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	var mailer notificationusecase.Mailer
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP_HOST is not set. Emails will be logged instead of sent.")
		mailer = notificationadapters.NewLogMailer(slog.Default())
	} else {
		mailer = smtp.NewMailer(smtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	var opts []notificationusecase.Option
	if m != nil {
		opts = append(opts, notificationusecase.WithResultFunc(m.ObserveNotification))
	}
	return notificationusecase.NewDispatcher(renderer, mailer, cfg.NotificationWorkers, cfg.NotificationQueue, opts...), nil
}

// NewPictureStore returns the S3 store, or nil when S3_BUCKET is unset.
func NewPictureStore(ctx context.Context, cfg *config.Config) (profileusecase.PictureStore, error) {
	if cfg.S3Bucket == "" {
		slog.Warn("S3_BUCKET is not set. Picture uploads are disabled.")
		return nil, nil
	}
	store, err := s3adapter.NewS3PictureStore(ctx, cfg.S3Bucket, cfg.S3PublicBaseURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewModerator returns the SafeSearch moderator and its close function, or nil
// when MODERATE_PICTURES is off.
func NewModerator(ctx context.Context, cfg *config.Config) (profileusecase.PictureModerator, func() error, error) {
	if !cfg.ModeratePictures {
		return nil, func() error { return nil }, nil
	}
	m, err := visionadapter.NewSafeSearchModerator(ctx)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Close, nil
}
