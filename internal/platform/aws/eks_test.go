package aws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEKSClient(t *testing.T, handler http.HandlerFunc) *EKSClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := aws.Config{
		Region:      "us-west-2",
		Credentials: credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	}
	return newEKSClient(cfg, srv.URL)
}

func TestEKSClient_KubernetesVersions(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := testEKSClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/cluster-versions", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("maxResults"))
		auth := r.Header.Get("Authorization")
		assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 "), auth)
		assert.Contains(t, auth, "/eu-west-1/eks/aws4_request")

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("nextToken") == "" {
			_, _ = w.Write([]byte(`{"clusterVersions": [
				{"clusterVersion": "1.21", "status": "STANDARD_SUPPORT"},
				{"clusterVersion": "1.16", "status": "UNSUPPORTED"}
			], "nextToken": "page2"}`))
			return
		}
		assert.Equal(t, "page2", r.URL.Query().Get("nextToken"))
		_, _ = w.Write([]byte(`{"clusterVersions": [
			{"clusterVersion": "1.20", "versionStatus": "EXTENDED_SUPPORT"},
			{"clusterVersion": "1.19", "versionStatus": "unsupported"}
		]}`))
	})

	versions, err := c.KubernetesVersions(context.Background(), "eu-west-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.20", "1.21"}, versions)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEKSClient_DefaultRegion(t *testing.T) {
	t.Parallel()

	c := testEKSClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "/us-west-2/eks/aws4_request")
		_, _ = w.Write([]byte(`{"clusterVersions": []}`))
	})

	versions, err := c.KubernetesVersions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestEKSClient_Errors(t *testing.T) {
	t.Parallel()

	t.Run("api error", func(t *testing.T) {
		t.Parallel()
		c := testEKSClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Amzn-Errortype", "AccessDeniedException")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message": "not authorized"}`))
		})
		_, err := c.KubernetesVersions(context.Background(), "us-east-1")
		require.Error(t, err)
		var respErr *awshttp.ResponseError
		require.True(t, errors.As(err, &respErr), err.Error())
		assert.Equal(t, http.StatusForbidden, respErr.HTTPStatusCode())
		assert.Contains(t, err.Error(), "us-east-1")
	})

	t.Run("no region", func(t *testing.T) {
		t.Parallel()
		c := newEKSClient(aws.Config{}, "")
		_, err := c.KubernetesVersions(context.Background(), "")
		require.ErrorIs(t, err, ErrNoRegion)
	})

	t.Run("no credentials", func(t *testing.T) {
		t.Parallel()
		c := newEKSClient(aws.Config{Region: "us-east-1"}, "http://127.0.0.1:1")
		_, err := c.KubernetesVersions(context.Background(), "")
		require.ErrorIs(t, err, ErrNoCredentials)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(context.Background(), Options{Region: "ap-south-1", AccessKey: "AKID", SecretKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", cfg.Region)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKID", creds.AccessKeyID)
}
