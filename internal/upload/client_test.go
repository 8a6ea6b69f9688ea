package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/resume-intake/internal/common"
	"github.com/joseph-ayodele/resume-intake/internal/entity"
)

func testFields() entity.ResumeFields {
	return entity.ResumeFields{Name: "王小明", HouseholdCity: "台北市"}
}

func TestUploadSuccess(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"result":"success","url":"https://drive.example/file123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	url, err := c.Upload(context.Background(), "resume.pdf", "application/pdf", "QkFTRTY0", testFields())
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example/file123", url)

	assert.Equal(t, "upload", got["action"])
	assert.Equal(t, "resume.pdf", got["filename"])
	assert.Equal(t, "application/pdf", got["mimeType"])
	assert.Equal(t, "QkFTRTY0", got["fileContent"])
	resumeData, ok := got["resumeData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "王小明", resumeData["name"])
}

func TestUploadErrorShapes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "script error with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result":"error","error":"Apps Script 版本過舊"}`))
			},
			wantMsg: "Apps Script 版本過舊",
		},
		{
			name: "success without url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"result":"success"}`))
			},
			wantMsg: "script returned error",
		},
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantMsg: "non-2xx status",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>not json</html>`))
			},
			wantMsg: "decode script response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, time.Second, nil)
			_, err := c.Upload(context.Background(), "r.pdf", "application/pdf", "QQ==", testFields())
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrUpload))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestUploadTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.Upload(context.Background(), "r.pdf", "application/pdf", "QQ==", testFields())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpload))
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "ok", body: `{"result":"success","message":"連線成功"}`},
		{name: "script error", body: `{"result":"error","error":"boom"}`, wantErr: true},
		{name: "unexpected shape", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAction string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				body, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(body, &req)
				gotAction, _ = req["action"].(string)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL, time.Second, nil).Probe(context.Background())
			assert.Equal(t, "test", gotAction)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
