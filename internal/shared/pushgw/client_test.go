package pushgw

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, tokenCalls *int32, messageCode int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["app_secret"] != "secret" {
			json.NewEncoder(w).Encode(map[string]interface{}{"code": 401, "msg": "bad secret"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"code": 0, "access_token": "tok-1", "expire": 7200})
	})
	mux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var msg Message
		json.NewDecoder(r.Body).Decode(&msg)
		if messageCode != 0 {
			json.NewEncoder(w).Encode(map[string]interface{}{"code": messageCode, "msg": "rejected"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"data": map[string]string{"message_id": "m-" + msg.UserID},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSendMessage(t *testing.T) {
	var tokenCalls int32
	srv := newGateway(t, &tokenCalls, 0)
	c := NewClient(srv.URL+"/", "app", "secret", time.Second)

	id, err := c.SendMessage(context.Background(), Message{UserID: "u1", Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "m-u1", id)

	_, err = c.SendMessage(context.Background(), Message{UserID: "u2", Text: "again"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "token should be cached")
}

func TestSendMessageGatewayError(t *testing.T) {
	var tokenCalls int32
	srv := newGateway(t, &tokenCalls, 500)
	c := NewClient(srv.URL, "app", "secret", 0)

	_, err := c.SendMessage(context.Background(), Message{UserID: "u1", Text: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway error[500]")
}

func TestAccessTokenRejected(t *testing.T) {
	var tokenCalls int32
	srv := newGateway(t, &tokenCalls, 0)
	c := NewClient(srv.URL, "app", "wrong", 0)

	_, err := c.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad secret")
}
