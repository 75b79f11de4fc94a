package backup

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealthtracker-dev/wealthtracker/internal/config"
	"github.com/wealthtracker-dev/wealthtracker/internal/exporter"
	"github.com/wealthtracker-dev/wealthtracker/internal/gitops"
	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

type fakeUploader struct {
	key  string
	size int64
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, r io.Reader, size int64) error {
	if f.err != nil {
		return f.err
	}
	f.key = key
	f.size = size
	_, _ = io.Copy(io.Discard, r)
	return nil
}

func testService(t *testing.T, cfg config.BackupConfig, git config.GitConfig, up Uploader) (*Service, string) {
	t.Helper()
	dataDir := t.TempDir()
	db, err := store.New(filepath.Join(dataDir, "wealthtracker.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	accounts := store.NewAccountRepo(db, log)
	txs := store.NewTransactionRepo(db, log)
	debts := store.NewDebtRepo(db, log)
	budgets := store.NewBudgetRepo(db, log)

	a := &model.Account{Name: "Everyday", Type: model.AccountTypeChecking, Currency: "USD"}
	require.NoError(t, accounts.Create(a))
	require.NoError(t, txs.Create(&model.Transaction{
		AccountID: a.ID, Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		Description: "groceries", Amount: dec("-50.25"), Category: "groceries",
	}))

	exp := exporter.NewService(accounts, txs, debts, budgets, log)
	return NewService(db, exp, dataDir, cfg, git, up, log), dataDir
}

func TestRun_WritesSnapshotDirectory(t *testing.T) {
	svc, dataDir := testService(t, config.BackupConfig{}, config.GitConfig{}, nil)

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Dir, filepath.Join(dataDir, "backups")))
	assert.False(t, res.Uploaded)

	info, err := os.Stat(filepath.Join(res.Dir, "wealthtracker.db"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	for _, name := range []string{"accounts.csv", "transactions.csv", "debts.csv", "budgets.csv"} {
		_, err := os.Stat(filepath.Join(res.Dir, "csv", name))
		require.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(res.Dir, "metadata.json"))
	require.NoError(t, err)
	var meta Metadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "wealthtracker.db", meta.Database.Filename)
	assert.Equal(t, res.Checksum, meta.Database.Checksum)
	assert.True(t, strings.HasPrefix(meta.Database.Checksum, "sha256:"))
	assert.Equal(t, info.Size(), meta.Database.SizeBytes)
}

func TestRun_SnapshotIsWorkingDatabase(t *testing.T) {
	svc, _ := testService(t, config.BackupConfig{}, config.GitConfig{}, nil)

	res, err := svc.Run(context.Background())
	require.NoError(t, err)

	snap, err := store.New(filepath.Join(res.Dir, "wealthtracker.db"))
	require.NoError(t, err)
	defer snap.Close()

	accounts, err := store.NewAccountRepo(snap, zerolog.Nop()).List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Everyday", accounts[0].Name)
}

func TestRun_PrunesOldSnapshots(t *testing.T) {
	svc, dataDir := testService(t, config.BackupConfig{Keep: 2}, config.GitConfig{}, nil)
	for _, stamp := range []string{"2020-01-01-000000", "2020-01-02-000000", "2020-01-03-000000"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "backups", stamp), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "backups", "notes.txt"), []byte("keep me"), 0o644))

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pruned)

	entries, err := os.ReadDir(filepath.Join(dataDir, "backups"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, filepath.Base(res.Dir))
	assert.Contains(t, names, "2020-01-03-000000")
	assert.Contains(t, names, "notes.txt", "non-snapshot entries are left alone")
	assert.NotContains(t, names, "2020-01-02-000000")
	assert.NotContains(t, names, "2020-01-01-000000")
}

func TestRun_UploadsSnapshotWhenConfigured(t *testing.T) {
	up := &fakeUploader{}
	svc, _ := testService(t, config.BackupConfig{S3Bucket: "wt-backups", S3Prefix: "prod"}, config.GitConfig{}, up)

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Uploaded)
	assert.True(t, strings.HasPrefix(up.key, "prod/wealthtracker-"), up.key)
	assert.True(t, strings.HasSuffix(up.key, ".db"), up.key)
	assert.Positive(t, up.size)
}

func TestRun_UploadFailureFailsRun(t *testing.T) {
	up := &fakeUploader{err: errors.New("bucket gone")}
	svc, dataDir := testService(t, config.BackupConfig{}, config.GitConfig{}, up)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")

	entries, err := os.ReadDir(filepath.Join(dataDir, "backups"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "local snapshot still written")
}

func TestRun_CommitsDataDirWhenRepo(t *testing.T) {
	svc, dataDir := testService(t, config.BackupConfig{}, config.GitConfig{
		AutoCommit: true, AuthorName: "WealthTracker", AuthorEmail: "tracker@wealthtracker.dev",
	}, nil)
	require.NoError(t, gitops.Init(dataDir))

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Commit)
}

func TestRun_SkipsCommitOutsideRepo(t *testing.T) {
	svc, _ := testService(t, config.BackupConfig{}, config.GitConfig{AutoCommit: true}, nil)

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Commit)
}
