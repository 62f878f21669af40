package delivery

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"formfill-backend/internal/shared/mailer"
	"formfill-backend/internal/shared/storage/object"
)

// presignStore fakes an object store that can mint URLs.
type presignStore struct{}

func (presignStore) SaveWithKey(context.Context, string, string, io.Reader) (int64, error) {
	return 0, nil
}
func (presignStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("pdf bytes for " + key)), nil
}
func (presignStore) Delete(context.Context, string) error { return nil }
func (presignStore) DownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return "https://cdn.example.com/" + key + "?ttl=" + expires.String(), nil
}

// streamOnlyStore fakes a store without presign support.
type streamOnlyStore struct{ presignStore }

func (streamOnlyStore) DownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", object.ErrPresignUnsupported
}

type mailerSpy struct {
	sent []mailer.Email
}

func (m *mailerSpy) Send(_ context.Context, e mailer.Email) error {
	m.sent = append(m.sent, e)
	return nil
}

func TestDownloadURLGatedOnPayment(t *testing.T) {
	svc := &Service{Store: presignStore{}, LinkTTL: time.Hour}

	doc := Document{ID: "inst-1", FileKey: "template-instances/inst-1.pdf"}
	if _, err := svc.DownloadURL(context.Background(), doc); !errors.Is(err, ErrUnpaid) {
		t.Fatalf("expected ErrUnpaid, got %v", err)
	}

	doc.Paid = true
	url, err := svc.DownloadURL(context.Background(), doc)
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if !strings.Contains(url, doc.FileKey) {
		t.Fatalf("expected URL for %s, got %s", doc.FileKey, url)
	}
}

func TestOpenGatedOnPayment(t *testing.T) {
	svc := &Service{Store: presignStore{}}

	if _, err := svc.Open(context.Background(), Document{ID: "inst-1"}); !errors.Is(err, ErrUnpaid) {
		t.Fatalf("expected ErrUnpaid, got %v", err)
	}
}

func TestSendDownloadLinkUsesPresignedURL(t *testing.T) {
	spy := &mailerSpy{}
	svc := &Service{
		Store:     presignStore{},
		Mailer:    spy,
		LinkTTL:   time.Hour,
		EmailFrom: "no-reply@example.com",
	}
	doc := Document{ID: "inst-1", FileKey: "template-instances/inst-1.pdf", Paid: true}

	if err := svc.SendDownloadLink(context.Background(), doc, "jane@example.com"); err != nil {
		t.Fatalf("SendDownloadLink: %v", err)
	}
	if len(spy.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(spy.sent))
	}
	e := spy.sent[0]
	if e.From != "no-reply@example.com" || len(e.To) != 1 || e.To[0] != "jane@example.com" {
		t.Fatalf("unexpected envelope: %+v", e)
	}
	if !strings.Contains(e.Text, "https://cdn.example.com/template-instances/inst-1.pdf") {
		t.Fatalf("expected presigned link in body, got %q", e.Text)
	}
	if !strings.Contains(e.Text, "expires after 1h0m0s") {
		t.Fatalf("expected expiry notice for presigned link, got %q", e.Text)
	}
}

func TestSendDownloadLinkFallsBackToStreamingRoute(t *testing.T) {
	spy := &mailerSpy{}
	svc := &Service{
		Store:         streamOnlyStore{},
		Mailer:        spy,
		LinkTTL:       time.Hour,
		PublicBaseURL: "http://localhost:8080",
		EmailFrom:     "no-reply@example.com",
	}
	doc := Document{ID: "inst-1", FileKey: "template-instances/inst-1.pdf", Paid: true}

	if err := svc.SendDownloadLink(context.Background(), doc, "jane@example.com"); err != nil {
		t.Fatalf("SendDownloadLink: %v", err)
	}
	if !strings.Contains(spy.sent[0].Text, "http://localhost:8080/api/v1/instances/inst-1/download") {
		t.Fatalf("expected streaming route link, got %q", spy.sent[0].Text)
	}
	if strings.Contains(spy.sent[0].Text, "expires") {
		t.Fatalf("streaming route link does not expire, body claims otherwise: %q", spy.sent[0].Text)
	}
}

func TestSendDownloadLinkGatedOnPayment(t *testing.T) {
	spy := &mailerSpy{}
	svc := &Service{Store: presignStore{}, Mailer: spy}

	err := svc.SendDownloadLink(context.Background(), Document{ID: "inst-1"}, "jane@example.com")
	if !errors.Is(err, ErrUnpaid) {
		t.Fatalf("expected ErrUnpaid, got %v", err)
	}
	if len(spy.sent) != 0 {
		t.Fatal("expected no email for unpaid document")
	}
}
