package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"gmailreader/internal/config"
	"gmailreader/internal/domain"
)

const fullMessage = `{
  "id": "m1",
  "threadId": "t1",
  "labelIds": ["UNREAD", "INBOX"],
  "payload": {
    "partId": "",
    "mimeType": "multipart/mixed",
    "headers": [
      {"name": "Subject", "value": "Invoice"},
      {"name": "From", "value": "billing@example.com"}
    ],
    "body": {"size": 0},
    "parts": [
      {"partId": "0", "mimeType": "text/plain", "body": {"size": 5, "data": "aGVsbG8"}},
      {"partId": "1", "mimeType": "application/pdf", "filename": "invoice.pdf", "body": {"size": 1024, "attachmentId": "att-1"}}
    ]
  }
}`

// fakeGmail — минимальная имитация Gmail API
type fakeGmail struct {
	modified []string
	deleted  []string
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idx := strings.Index(r.URL.Path, "/users/me/messages")
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path[idx:], "/users/me/messages")

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && path == "":
		io.WriteString(w, `{"messages": [{"id": "m1", "threadId": "t1"}, {"id": "m2", "threadId": "t2"}]}`)
	case r.Method == http.MethodGet && path == "/m1":
		io.WriteString(w, fullMessage)
	case r.Method == http.MethodGet && path == "/m1/attachments/att-1":
		data := base64.URLEncoding.EncodeToString([]byte("%PDF-1.4 fake"))
		io.WriteString(w, `{"size": 13, "data": "`+data+`"}`)
	case r.Method == http.MethodPost && path == "/m1/modify":
		body, _ := io.ReadAll(r.Body)
		f.modified = append(f.modified, string(body))
		io.WriteString(w, `{"id": "m1", "labelIds": ["INBOX"]}`)
	case r.Method == http.MethodDelete && path == "/m1":
		f.deleted = append(f.deleted, "m1")
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && path == "/locked":
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"code": 403, "message": "Insufficient Permission"}}`)
	case r.Method == http.MethodGet && path == "/garbled":
		io.WriteString(w, `{"id": "garbled", "payload": {"mimeType": "text/plain", "body": {"size": 9, "data": "aGVs!!bG8"}}}`)
	case r.Method == http.MethodDelete && path == "/throttled":
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"code": 403, "message": "Rate Limit Exceeded", "errors": [{"reason": "rateLimitExceeded"}]}}`)
	case r.Method == http.MethodGet && path == "/broken":
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error": {"code": 503, "message": "Backend Error"}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": {"code": 404, "message": "Requested entity was not found."}}`)
	}
}

func newTestClient(t *testing.T) (*Client, *fakeGmail) {
	t.Helper()

	fake := &fakeGmail{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := config.GmailConfig{UserID: "me"}
	client := NewClient(cfg, zap.NewNop().Sugar(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	return client, fake
}

func TestMailbox_GetMessage(t *testing.T) {
	client, _ := newTestClient(t)

	mb, err := client.Mailbox(context.Background(), "token")
	if err != nil {
		t.Fatalf("Mailbox() error = %v", err)
	}

	msg, err := mb.GetMessage(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetMessage() error = %v", err)
	}

	if subject, _ := msg.Header("Subject"); subject != "Invoice" {
		t.Errorf("Subject = %q, want Invoice", subject)
	}
	if msg.Payload == nil || len(msg.Payload.Parts) != 2 {
		t.Fatalf("unexpected payload: %+v", msg.Payload)
	}

	plain := msg.Payload.Parts[0]
	if string(plain.Body.Data) != "hello" {
		t.Errorf("plain body = %q, want hello", plain.Body.Data)
	}

	pdf := msg.Payload.Parts[1]
	if pdf.Filename != "invoice.pdf" || pdf.AttachmentID() != "att-1" || pdf.Body.Size != 1024 {
		t.Errorf("unexpected attachment part: %+v", pdf)
	}
}

func TestMailbox_GetAttachment(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	data, err := mb.GetAttachment(context.Background(), "m1", "att-1")
	if err != nil {
		t.Fatalf("GetAttachment() error = %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Errorf("data = %q", data)
	}
}

func TestMailbox_ListMessages(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	refs, err := mb.ListMessages(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(refs) != 2 || refs[0].ID != "m1" || refs[1].ThreadID != "t2" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestMailbox_RemoveLabelsIsIdempotent(t *testing.T) {
	client, fake := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	for i := 0; i < 2; i++ {
		if err := mb.RemoveLabels(context.Background(), "m1", "UNREAD"); err != nil {
			t.Fatalf("RemoveLabels() #%d error = %v", i+1, err)
		}
	}

	if len(fake.modified) != 2 || !strings.Contains(fake.modified[0], `"removeLabelIds":["UNREAD"]`) {
		t.Errorf("modify requests = %v", fake.modified)
	}
}

func TestMailbox_DeleteMessage(t *testing.T) {
	client, fake := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	if err := mb.DeleteMessage(context.Background(), "m1"); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}
	if len(fake.deleted) != 1 {
		t.Errorf("deleted = %v", fake.deleted)
	}

	err := mb.DeleteMessage(context.Background(), "locked")
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("error = %v, want ErrPermissionDenied", err)
	}
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != 403 || upstream.Message != "Insufficient Permission" {
		t.Errorf("upstream = %+v", upstream)
	}
}

func TestMailbox_ErrorMapping(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	if _, err := mb.GetMessage(context.Background(), "missing"); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("missing: error = %v, want ErrMessageNotFound", err)
	}
	if _, err := mb.GetMessage(context.Background(), "broken"); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("broken: error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestClient_MailboxRequiresToken(t *testing.T) {
	client, _ := newTestClient(t)

	if _, err := client.Mailbox(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestDecodeData(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"url-safe without padding", "aGk_Pz4-", "hi??>>"},
		{"standard with padding", "aGk/Pz4+", "hi??>>"},
		{"padded", "aGVsbG8=", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeData(tt.input)
			if err != nil {
				t.Fatalf("decodeData() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("decodeData() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_NotFoundDoesNotOpenBreaker(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	for i := 0; i < 10; i++ {
		if _, err := mb.GetMessage(context.Background(), "missing"); !errors.Is(err, domain.ErrMessageNotFound) {
			t.Fatalf("GetMessage(missing) #%d error = %v, want ErrMessageNotFound", i+1, err)
		}
	}

	if state := client.BreakerState(); state != "closed" {
		t.Errorf("BreakerState() = %q, want closed", state)
	}
	if _, err := mb.GetMessage(context.Background(), "m1"); err != nil {
		t.Fatalf("GetMessage(m1) after 404s error = %v", err)
	}
}

func TestClient_ServerErrorsOpenBreaker(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	for i := 0; i < 6; i++ {
		mb.GetMessage(context.Background(), "broken")
	}

	if state := client.BreakerState(); state != "open" {
		t.Fatalf("BreakerState() = %q, want open", state)
	}
	if _, err := mb.GetMessage(context.Background(), "m1"); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestMailbox_GarbledPartHasNoData(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	msg, err := mb.GetMessage(context.Background(), "garbled")
	if err != nil {
		t.Fatalf("GetMessage() error = %v", err)
	}
	if msg.Payload == nil || msg.Payload.Body == nil {
		t.Fatalf("unexpected payload: %+v", msg.Payload)
	}
	if msg.Payload.Body.Data != nil {
		t.Errorf("body data = %q, want nil", msg.Payload.Body.Data)
	}
}

func TestMailbox_RateLimitedDelete(t *testing.T) {
	client, _ := newTestClient(t)
	mb, _ := client.Mailbox(context.Background(), "token")

	err := mb.DeleteMessage(context.Background(), "throttled")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("error = %v, want ErrUpstreamUnavailable", err)
	}
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != 403 {
		t.Errorf("upstream = %+v, want status 403", upstream)
	}
}
