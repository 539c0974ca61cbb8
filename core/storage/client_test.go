package storage_test

import (
	"context"
	"io"
	"io/fs"
	"strings"
	"testing"

	"sheet-sync/core/storage"
	"sheet-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestReadObject(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "config", "queries/members.sql", mock.Anything).
			Return(io.NopCloser(strings.NewReader("SELECT 1")), nil)

		data, err := storage.ReadObject(context.Background(), client, "config", "queries/members.sql")
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "config", "queries/none.sql", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})

		_, err := storage.ReadObject(context.Background(), client, "config", "queries/none.sql")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}
