package goGate

import "testing"

func TestParseCredentials(t *testing.T) {
	cases := []struct {
		name    string
		email   string
		secret  string
		wantErr bool
	}{
		{"valid", "ada@example.com", "hunter2", false},
		{"exactly minimum length", "ada@example.com", "123456", false},
		{"leading space", " ada@example.com", "hunter2", true},
		{"surrounding space", "  ada@example.com ", "hunter2", true},
		{"missing email", "", "hunter2", true},
		{"missing secret", "ada@example.com", "", true},
		{"no at sign", "ada.example.com", "hunter2", true},
		{"display name form", "Ada <ada@example.com>", "hunter2", true},
		{"short secret", "ada@example.com", "12345", true},
		{"whitespace secret counts", "ada@example.com", "      ", false},
	}

	for _, tc := range cases {
		email, secret, err := parseCredentials(map[string]string{
			CredentialFieldEmail:  tc.email,
			CredentialFieldSecret: tc.secret,
		}, 6)

		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected rejection", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if email != tc.email || secret != tc.secret {
			t.Fatalf("%s: parse altered the submission: %q / %q", tc.name, email, secret)
		}
	}
}

func TestParseCredentialsMissingFields(t *testing.T) {
	if _, _, err := parseCredentials(nil, 6); err == nil {
		t.Fatal("expected rejection for nil submission")
	}
	if _, _, err := parseCredentials(map[string]string{"user": "ada"}, 6); err == nil {
		t.Fatal("expected rejection for unrelated fields")
	}
}
