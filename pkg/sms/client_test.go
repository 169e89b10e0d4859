package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aldousari/sooqfresh-backend/pkg/config"
)

func testConfig(baseURL string) config.TwilioConfig {
	return config.TwilioConfig{
		AccountSID:     "AC123",
		AuthToken:      "token",
		SMSFromNumber:  "+14155550100",
		WhatsAppNumber: "+14155550101",
		BaseURL:        baseURL,
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "local kuwaiti number", input: "99887766", want: "+96599887766"},
		{name: "already e164", input: "+96599887766", want: "+96599887766"},
		{name: "spaces and dashes", input: "9988 77-66", want: "+96599887766"},
		{name: "double zero prefix", input: "0096599887766", want: "+96599887766"},
		{name: "non kuwaiti with plus", input: "+34612345678", want: "+34612345678"},
		{name: "long number without plus", input: "34612345678", want: "+34612345678"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "letters", input: "99887abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSendSMSPostsForm(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.SendSMS(context.Background(), "+96599887766", "2kg Apple(Spain)"); err != nil {
		t.Fatalf("send sms: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC123/Messages.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUser != "AC123" || gotPass != "token" {
		t.Fatalf("unexpected basic auth %q/%q", gotUser, gotPass)
	}
	if gotFrom != "+14155550100" {
		t.Fatalf("unexpected from %q", gotFrom)
	}
	if gotTo != "+96599887766" {
		t.Fatalf("unexpected to %q", gotTo)
	}
	if gotBody != "2kg Apple(Spain)" {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestSendWhatsAppPrefixesChannel(t *testing.T) {
	var gotFrom, gotTo string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.SendWhatsApp(context.Background(), "+96599887766", "order update"); err != nil {
		t.Fatalf("send whatsapp: %v", err)
	}

	if gotFrom != "whatsapp:+14155550101" {
		t.Fatalf("unexpected from %q", gotFrom)
	}
	if gotTo != "whatsapp:+96599887766" {
		t.Fatalf("unexpected to %q", gotTo)
	}
}

func TestSendSMSSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"auth failed"}`))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.SendSMS(context.Background(), "+96599887766", "hello"); err == nil {
		t.Fatal("expected error from non-2xx response")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(config.TwilioConfig{SMSFromNumber: "+1"}); err == nil {
		t.Fatal("expected error when credentials are missing")
	}
	if _, err := NewClient(config.TwilioConfig{AccountSID: "AC", AuthToken: "t"}); err == nil {
		t.Fatal("expected error when from number is missing")
	}
}
