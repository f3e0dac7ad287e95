package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_EmptyURI(t *testing.T) {
	t.Parallel()

	_, _, err := Connect(context.Background(), Config{Database: "x"})
	assert.Error(t, err)
}

func TestConnect_Live(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}

	client, db, err := Connect(context.Background(), Config{URI: uri, Database: "country_explorer_test", ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	assert.Equal(t, "country_explorer_test", db.Name())
	assert.NoError(t, Ping(context.Background(), client))
}
