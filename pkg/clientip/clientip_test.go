package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.7:51234":   "203.0.113.7",
		"[2001:db8::1]:443":   "2001:db8::1",
		"198.51.100.2":        "198.51.100.2",
		" not-an-ip ":         "not-an-ip",
		"[2001:DB8:0::1]:443": "2001:db8::1",
	}
	for remote, want := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = remote
		assert.Equal(t, want, RealClientIP(r), remote)
	}
}
