package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPINPattern(t *testing.T) {
	for _, pin := range []string{"0000", "1234", "9999"} {
		require.True(t, pinPattern.MatchString(pin), "pin %q", pin)
	}
	for _, pin := range []string{"", "123", "12345", "12a4", " 1234", "12.4"} {
		require.False(t, pinPattern.MatchString(pin), "pin %q", pin)
	}
}

func TestAuthedEndpointsRejectMissingIdentity(t *testing.T) {
	auth := &AuthHandler{}
	wallet := &WalletHandler{}

	endpoints := map[string]http.HandlerFunc{
		"me":           auth.Me,
		"set pin":      auth.SetPIN,
		"verify pin":   auth.VerifyPIN,
		"recipients":   wallet.SearchRecipient,
		"transfer":     wallet.SendTransfer,
		"transactions": wallet.Transactions,
		"insight":      wallet.Insight,
	}
	for name, handler := range endpoints {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "endpoint %s", name)
	}
}
