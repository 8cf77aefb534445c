package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/internwatch/internal/model"
)

func TestSimplify_Fetch(t *testing.T) {
	page := `<html><body>
		<div>Acme • Remote<a href="/jobs/123-ml-intern">Machine Learning Intern</a></div>
		<div><a href="/jobs/456-pm">Product Manager Intern</a></div>
		<div><a href="https://simplify.jobs/jobs/789">Quantitative Trading Intern</a></div>
		<a href="/about">About us</a>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/internships" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	s := NewSimplify("simplify", testClient(srv))
	s.baseURL = srv.URL

	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	if records[0].Company != "Acme" {
		t.Errorf("Company = %q, want Acme", records[0].Company)
	}
	if records[0].Category != model.CategoryMLAI {
		t.Errorf("Category = %s, want MLAI from title keywords", records[0].Category)
	}
	if records[0].URL != srv.URL+"/jobs/123-ml-intern" {
		t.Errorf("URL = %q", records[0].URL)
	}

	if records[1].Category != model.CategoryPM {
		t.Errorf("Category = %s, want PM", records[1].Category)
	}

	// No keyword signal falls back to SWE; absolute hrefs pass through.
	if records[2].Category != model.CategorySWE {
		t.Errorf("Category = %s, want SWE fallback", records[2].Category)
	}
	if records[2].URL != "https://simplify.jobs/jobs/789" {
		t.Errorf("URL = %q, want absolute href kept", records[2].URL)
	}
}

func TestSimplify_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSimplify("simplify", testClient(srv))
	s.baseURL = srv.URL

	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for HTTP 403, got nil")
	}
}
