package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srvURL string) *Client {
	c := NewClient("AC123", "token", "whatsapp:+14155238886")
	c.apiBase = srvURL
	return c
}

func TestSendWhatsApp(t *testing.T) {
	var gotPath string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"From":     r.PostFormValue("From"),
			"To":       r.PostFormValue("To"),
			"Body":     r.PostFormValue("Body"),
			"MediaUrl": r.PostFormValue("MediaUrl"),
		}

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM1", "status": "queued", "to": "whatsapp:+972501234567"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	msg, err := c.SendWhatsApp(context.Background(), "whatsapp:+972501234567", "הדוח מוכן", "https://example.com/r.pdf")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "whatsapp:+14155238886", gotForm["From"])
	assert.Equal(t, "whatsapp:+972501234567", gotForm["To"])
	assert.Equal(t, "הדוח מוכן", gotForm["Body"])
	assert.Equal(t, "https://example.com/r.pdf", gotForm["MediaUrl"])
	assert.Equal(t, "SM1", msg.SID)
	assert.Equal(t, "queued", msg.Status)
}

func TestSendWhatsApp_NoMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, hasMedia := r.PostForm["MediaUrl"]
		assert.False(t, hasMedia)
		w.Write([]byte(`{"sid": "SM2", "status": "queued"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SendWhatsApp(context.Background(), "whatsapp:+972501234567", "שלום", "")
	require.NoError(t, err)
}

func TestSendWhatsApp_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": 20003, "message": "Authenticate"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SendWhatsApp(context.Background(), "whatsapp:+972501234567", "שלום", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUpdateWebhook(t *testing.T) {
	var gotPath, gotSmsURL, gotMethod string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotSmsURL = r.PostFormValue("SmsUrl")
		gotMethod = r.PostFormValue("SmsMethod")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.UpdateWebhook(context.Background(), "https://abc123.ngrok.io/webhook")
	require.NoError(t, err)

	assert.Equal(t, "/2010-04-01/Accounts/AC123/Sandbox.json", gotPath)
	assert.Equal(t, "https://abc123.ngrok.io/webhook", gotSmsURL)
	assert.Equal(t, "POST", gotMethod)
}
