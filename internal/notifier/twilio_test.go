package notifier

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/amishk599/internwatch/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecords() []model.Record {
	return []model.Record{
		{
			Category: model.CategorySWE,
			Source:   model.SourceInternList,
			Company:  "Acme",
			Title:    "SWE Intern",
			Location: "NYC",
			URL:      "https://x/1",
		},
	}
}

func newTestTwilio(srv *httptest.Server, to []string) *TwilioNotifier {
	n := NewTwilioNotifier("AC123", "token", "+15550001111", to, srv.Client(), discardLogger())
	n.baseURL = srv.URL
	return n
}

func TestTwilioNotify_SendsFormEncodedSMS(t *testing.T) {
	var (
		gotPath string
		gotForm url.Values
		gotUser string
		gotPass string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		body, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(body))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	n := newTestTwilio(srv, []string{"+15550002222"})
	if err := n.Notify(testRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "token" {
		t.Errorf("basic auth = %q/%q", gotUser, gotPass)
	}
	if gotForm.Get("From") != "+15550001111" {
		t.Errorf("From = %q", gotForm.Get("From"))
	}
	if gotForm.Get("To") != "+15550002222" {
		t.Errorf("To = %q", gotForm.Get("To"))
	}
	body := gotForm.Get("Body")
	if !strings.Contains(body, "• [SWE] [InternList] Acme — SWE Intern — NYC") {
		t.Errorf("Body missing entry line: %q", body)
	}
	if !strings.Contains(body, "https://x/1") {
		t.Errorf("Body missing URL: %q", body)
	}
}

func TestTwilioNotify_OneMessagePerRecipient(t *testing.T) {
	var recipients []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		recipients = append(recipients, form.Get("To"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := newTestTwilio(srv, []string{"+15550002222", "+15550003333"})
	if err := n.Notify(testRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recipients) != 2 {
		t.Fatalf("requests = %d, want one per recipient", len(recipients))
	}
	if recipients[0] != "+15550002222" || recipients[1] != "+15550003333" {
		t.Errorf("recipients = %v", recipients)
	}
}

func TestTwilioNotify_PartialRecipientFailureIsNotFatal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":21211,"message":"invalid number"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := newTestTwilio(srv, []string{"+1bad", "+15550003333"})
	if err := n.Notify(testRecords()); err != nil {
		t.Errorf("one good recipient should keep Notify successful, got %v", err)
	}
}

func TestTwilioNotify_AllRecipientsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":20003,"message":"authenticate"}`))
	}))
	defer srv.Close()

	n := newTestTwilio(srv, []string{"+15550002222", "+15550003333"})
	if err := n.Notify(testRecords()); err == nil {
		t.Fatal("expected error when every recipient fails")
	}
}

func TestTwilioNotify_EmptyBatchIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty batch")
	}))
	defer srv.Close()

	n := newTestTwilio(srv, []string{"+15550002222"})
	if err := n.Notify(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
