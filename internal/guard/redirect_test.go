package guard

import "testing"

func TestSafeReturnPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"/dashboard?tab=intel&id=SES-7A3F", "/dashboard?tab=intel&id=SES-7A3F"},
		{"", "/home"},
		{"dashboard", "/home"},
		{"//evil.example/x", "/home"},
		{"/\\evil.example", "/home"},
		{"https://evil.example/", "/home"},
		{"/ok\r\nSet-Cookie: x=1", "/home"},
	}
	for _, tc := range cases {
		if got := SafeReturnPath(tc.in, "/home"); got != tc.want {
			t.Fatalf("SafeReturnPath(%q)=%q want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoginURL(t *testing.T) {
	if got := LoginURL("/login", ""); got != "/login" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := LoginURL("/login", "/dashboard?tab=intel"); got != "/login?from=%2Fdashboard%3Ftab%3Dintel" {
		t.Fatalf("unexpected: %q", got)
	}
}
