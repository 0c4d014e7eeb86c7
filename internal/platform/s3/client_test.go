package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	platformaws "github.com/imamik/qhub/internal/platform/aws"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String(server.URL),
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})
	return &Client{s3: client}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func s3Error(code string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>%s</Code>
  <Message>%s</Message>
</Error>`, code, code)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), platformaws.Options{
		Region:    "eu-central-1",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		Endpoint:  "https://objects.example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client == nil || client.s3 == nil {
		t.Fatal("expected non-nil client")
	}
	if !client.s3.Options().UsePathStyle {
		t.Error("expected path-style addressing for a custom endpoint")
	}
}

func TestPutObject_CreateOnly(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var capturedBody []byte
	var ifNoneMatch string

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/configs/qhub-config.yaml" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		mu.Lock()
		capturedBody, _ = io.ReadAll(r.Body)
		ifNoneMatch = r.Header.Get("If-None-Match")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	data := []byte("project_name: demo\n")
	if err := client.PutObject(context.Background(), "configs", "qhub-config.yaml", data, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !bytes.Equal(capturedBody, data) {
		t.Errorf("expected body %q, got %q", data, capturedBody)
	}
	if ifNoneMatch != "*" {
		t.Errorf("expected If-None-Match: *, got %q", ifNoneMatch)
	}
}

func TestPutObject_Overwrite(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" {
			t.Errorf("unexpected conditional write")
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.PutObject(context.Background(), "configs", "k", []byte("x"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutObject_Exists(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusPreconditionFailed, s3Error("PreconditionFailed"))
	}))

	err := client.PutObject(context.Background(), "configs", "k", []byte("x"), false)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got: %v", err)
	}
}

func TestPutObject_Error(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, s3Error("AccessDenied"))
	}))

	err := client.PutObject(context.Background(), "test-bucket", "test-key", []byte("data"), true)
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to put object test-key in bucket test-bucket") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGetObject_Success(t *testing.T) {
	t.Parallel()

	expected := []byte("project_name: demo\n")
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(expected)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(expected)
	}))

	data, err := client.GetObject(context.Background(), "test-bucket", "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(data, expected) {
		t.Errorf("expected %q, got %q", expected, data)
	}
}

func TestGetObject_NotFound(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusNotFound, s3Error("NoSuchKey"))
	}))

	_, err := client.GetObject(context.Background(), "test-bucket", "missing-key")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if !strings.Contains(err.Error(), "s3://test-bucket/missing-key") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestGetObject_Error(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, s3Error("AccessDenied"))
	}))

	_, err := client.GetObject(context.Background(), "test-bucket", "test-key")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("access denied must not read as not found")
	}
}

func TestIsNotFoundError_WrappedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"wrapped NoSuchKey", fmt.Errorf("outer: %w", &s3types.NoSuchKey{}), true},
		{"wrapped NoSuchBucket", fmt.Errorf("outer: %w", &s3types.NoSuchBucket{}), true},
		{"wrapped NotFound", fmt.Errorf("outer: %w", &s3types.NotFound{}), true},
		{"wrapped generic error", fmt.Errorf("outer: %w", fmt.Errorf("inner error")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := isNotFoundError(tt.err)
			if got != tt.want {
				t.Errorf("isNotFoundError() = %v, want %v", got, tt.want)
			}
		})
	}
}
