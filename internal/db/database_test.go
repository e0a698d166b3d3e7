package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{driver: "postgres", want: "postgres"},
		{driver: "PG", want: "postgres"},
		{driver: "mysql", want: "mysql"},
		{driver: "sqlite", want: "sqlite"},
		{driver: "oracle", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.driver, func(t *testing.T) {
			t.Parallel()
			d, err := buildDialector(tt.driver, "dsn")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "postgres", "")
	require.Error(t, err)
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	t.Parallel()

	gdb, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}
