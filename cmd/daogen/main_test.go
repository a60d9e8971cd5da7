package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/magicdao/compiler/gen"
	"github.com/syssam/magicdao/compiler/load"
)

func TestSplit(t *testing.T) {
	assert.Nil(t, split(""))
	assert.Equal(t, []string{"Order", "User"}, split(" Order, ,User "))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &load.Config{Path: "../../compiler/load/testdata/models", Names: []string{"Order", "Payment"}}
	require.NoError(t, run(context.Background(), logger, cfg, []gen.Option{gen.WithTarget(dir)}))

	for _, name := range []string{"order_dao.go", "payment_dao.go"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(b), gen.DefaultHeader)
	}
}

func TestRun_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), logger, &load.Config{Path: "./models"}, []gen.Option{gen.WithWorkers(0)})
	assert.True(t, gen.IsConfigError(err))

	err = run(context.Background(), logger, &load.Config{Path: "../../compiler/load/testdata/empty"}, nil)
	assert.ErrorIs(t, err, load.ErrNoTypes)
}
