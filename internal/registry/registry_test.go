package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidRegNum(t *testing.T) {
	valid := []string{"40003026637", "45403000253", "42103005057", "50003000000"}
	for _, num := range valid {
		assert.True(t, ValidRegNum(num), num)
	}

	invalid := []string{"", "4000302663", "400030266370", "30003026637", "4000302663a", "not-a-number"}
	for _, num := range invalid {
		assert.False(t, ValidRegNum(num), num)
	}
}

func TestHTTPClient_RegistrationDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)

		switch r.URL.Query().Get("reg_num") {
		case "40003026637":
			_ = json.NewEncoder(w).Encode(map[string]string{"winner_reg_date": "20.07.2004"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "user", "secret")

	date, err := client.RegistrationDate(context.Background(), "40003026637")
	require.NoError(t, err)
	assert.Equal(t, "20.07.2004", date)

	date, err = client.RegistrationDate(context.Background(), "45403000253")
	require.NoError(t, err)
	assert.Empty(t, date, "unknown companies resolve to an empty date")
}

func TestHTTPClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", "")
	_, err := client.RegistrationDate(context.Background(), "40003026637")
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	date, err := Noop{}.RegistrationDate(context.Background(), "40003026637")
	require.NoError(t, err)
	assert.Empty(t, date)
}
