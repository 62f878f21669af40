// Package delivery hands finished documents to their buyers, by download
// link or by email. Every path is gated on the document being paid for.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"formfill-backend/internal/shared/mailer"
	"formfill-backend/internal/shared/storage/object"
)

// ErrUnpaid blocks delivery of a document whose checkout has not completed.
var ErrUnpaid = errors.New("document not paid for")

// Document is the delivery-facing view of a generated instance.
type Document struct {
	ID      string
	FileKey string
	Paid    bool
}

// Service resolves download URLs and sends link emails.
type Service struct {
	Store   object.Store
	Mailer  mailer.Mailer
	LinkTTL time.Duration

	// PublicBaseURL anchors the streaming download route used when the
	// store cannot presign.
	PublicBaseURL string
	// EmailFrom is the sender address on link emails.
	EmailFrom string
}

// DownloadURL returns a time-bounded URL for a paid document. Stores that
// cannot presign return object.ErrPresignUnsupported; callers stream the
// bytes through Open instead.
func (s *Service) DownloadURL(ctx context.Context, doc Document) (string, error) {
	if !doc.Paid {
		return "", ErrUnpaid
	}
	return s.Store.DownloadURL(ctx, doc.FileKey, s.LinkTTL)
}

// Open streams a paid document's bytes.
func (s *Service) Open(ctx context.Context, doc Document) (io.ReadCloser, error) {
	if !doc.Paid {
		return nil, ErrUnpaid
	}
	return s.Store.Open(ctx, doc.FileKey)
}

// SendDownloadLink emails a download link for a paid document. It reports
// only the transmission attempt; there is no retry or delivery tracking.
func (s *Service) SendDownloadLink(ctx context.Context, doc Document, address string) error {
	url, err := s.DownloadURL(ctx, doc)
	presigned := err == nil
	if err != nil {
		if !errors.Is(err, object.ErrPresignUnsupported) {
			return err
		}
		// The streaming route does not expire.
		url = fmt.Sprintf("%s/api/v1/instances/%s/download", s.PublicBaseURL, doc.ID)
	}

	body := fmt.Sprintf("Your document is ready.\r\n\r\nDownload it here: %s\r\n", url)
	if presigned {
		body += fmt.Sprintf("\r\nThe link expires after %s.\r\n", s.LinkTTL)
	}
	return s.Mailer.Send(ctx, mailer.Email{
		From:    s.EmailFrom,
		To:      []string{address},
		Subject: "Your PDF document is ready",
		Text:    body,
	})
}
