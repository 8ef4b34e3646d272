package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/coordination-audit/internal/config"
)

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.PostgresConfig
		maxConns int32
		minConns int32
		idle     time.Duration
		wantErr  bool
	}{
		{
			name:     "overrides",
			cfg:      config.PostgresConfig{DSN: "postgres://u:p@db:5432/audit", MaxConns: 8, MinConns: 2, ConnMaxIdleSec: 30},
			maxConns: 8,
			minConns: 2,
			idle:     30 * time.Second,
		},
		{
			name:     "min above max ignored",
			cfg:      config.PostgresConfig{DSN: "postgres://u:p@db:5432/audit", MaxConns: 4, MinConns: 10},
			maxConns: 4,
			minConns: 0,
			idle:     30 * time.Minute,
		},
		{
			name:    "bad dsn",
			cfg:     config.PostgresConfig{DSN: "postgres://u:p@db:notaport/audit"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := poolConfig(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "db", got.ConnConfig.Host)
			require.Equal(t, "audit", got.ConnConfig.Database)
			require.Equal(t, tt.maxConns, got.MaxConns)
			require.Equal(t, tt.minConns, got.MinConns)
			require.Equal(t, tt.idle, got.MaxConnIdleTime)
		})
	}
}

func TestNewPostgres_NoDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	require.False(t, pg.Configured())
	require.Error(t, pg.Ping(context.Background()))
	pg.Close()
}

func TestOpenDirectoryStore_File(t *testing.T) {
	cfg := &config.Config{Directory: config.DirectoryConfig{Backend: config.DirectoryBackendFile, FilePath: t.TempDir() + "/db.json"}}
	store, err := OpenDirectoryStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	dir, err := store.Repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, dir.Len())
	require.Nil(t, store.Postgres)
}

func TestOpenDirectoryStore_PostgresNeedsDSN(t *testing.T) {
	cfg := &config.Config{Directory: config.DirectoryConfig{Backend: config.DirectoryBackendPostgres}}
	_, err := OpenDirectoryStore(context.Background(), cfg, zap.NewNop())
	require.ErrorContains(t, err, "POSTGRES_DSN")
}
