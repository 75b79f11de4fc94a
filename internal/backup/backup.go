// Package backup snapshots the database and CSV exports into
// timestamped directories under the data dir, prunes old snapshots,
// and optionally commits the data directory to git and uploads the
// snapshot database offsite.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/buildinfo"
	"github.com/wealthtracker-dev/wealthtracker/internal/config"
	"github.com/wealthtracker-dev/wealthtracker/internal/exporter"
	"github.com/wealthtracker-dev/wealthtracker/internal/gitops"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// stampLayout names snapshot directories. It sorts lexically in
// chronological order.
const stampLayout = "2006-01-02-150405"

const defaultKeep = 5

// Uploader pushes a snapshot file to offsite storage.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64) error
}

// Service creates, prunes, and ships data directory snapshots.
type Service struct {
	db       *store.DB
	exporter *exporter.Service
	dataDir  string
	cfg      config.BackupConfig
	git      config.GitConfig
	uploader Uploader
	log      zerolog.Logger
}

// NewService creates a backup service. A nil uploader disables offsite
// upload.
func NewService(db *store.DB, exp *exporter.Service, dataDir string, cfg config.BackupConfig, git config.GitConfig, uploader Uploader, log zerolog.Logger) *Service {
	return &Service{
		db:       db,
		exporter: exp,
		dataDir:  dataDir,
		cfg:      cfg,
		git:      git,
		uploader: uploader,
		log:      log.With().Str("component", "backup").Logger(),
	}
}

// Metadata describes one snapshot directory.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  FileInfo  `json:"database"`
	Exports   []string  `json:"exports"`
}

// FileInfo records the size and checksum of a snapshot file.
type FileInfo struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Checksum  string `json:"checksum"`
}

// Result reports what a backup run did.
type Result struct {
	Dir      string `json:"dir"`
	Checksum string `json:"checksum"`
	Pruned   int    `json:"pruned"`
	Commit   string `json:"commit,omitempty"`
	Uploaded bool   `json:"uploaded"`
}

// Run writes a snapshot directory containing the database and CSV
// exports, prunes snapshots beyond the retention count, then runs the
// optional git commit and offsite upload.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	stamp := start.Format(stampLayout)
	dir := filepath.Join(s.dataDir, "backups", stamp)

	dbFile := filepath.Join(dir, "wealthtracker.db")
	if err := s.db.Snapshot(dbFile); err != nil {
		return nil, err
	}
	if err := s.exporter.Snapshot(filepath.Join(dir, "csv")); err != nil {
		return nil, err
	}

	checksum, err := fileChecksum(dbFile)
	if err != nil {
		return nil, fmt.Errorf("checksumming snapshot: %w", err)
	}
	info, err := os.Stat(dbFile)
	if err != nil {
		return nil, fmt.Errorf("statting snapshot: %w", err)
	}
	meta := Metadata{
		Timestamp: start.UTC(),
		Version:   buildinfo.Version,
		Database: FileInfo{
			Filename:  "wealthtracker.db",
			SizeBytes: info.Size(),
			Checksum:  checksum,
		},
		Exports: []string{"csv/accounts.csv", "csv/transactions.csv", "csv/debts.csv", "csv/budgets.csv"},
	}
	if err := writeMetadata(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return nil, err
	}

	pruned, err := s.prune()
	if err != nil {
		s.log.Warn().Err(err).Msg("pruning old snapshots failed")
	}

	res := &Result{Dir: dir, Checksum: checksum, Pruned: pruned}

	if s.git.AutoCommit && gitops.IsRepo(s.dataDir) {
		res.Commit = s.commitDataDir(stamp)
	}

	if s.uploader != nil {
		if err := s.upload(ctx, dbFile, stamp); err != nil {
			return nil, err
		}
		res.Uploaded = true
	}

	s.log.Info().
		Str("dir", dir).
		Int("pruned", pruned).
		Bool("uploaded", res.Uploaded).
		Dur("duration_ms", time.Since(start)).
		Msg("backup completed")
	return res, nil
}

// commitDataDir commits pending data dir changes. Commit failures are
// logged, never fatal: the snapshot on disk is already complete.
func (s *Service) commitDataDir(stamp string) string {
	changed, err := gitops.HasChanges(s.dataDir)
	if err != nil {
		s.log.Warn().Err(err).Msg("git status failed")
		return ""
	}
	if !changed {
		return ""
	}
	hash, err := gitops.CommitAll(s.dataDir, "backup "+stamp, s.git.AuthorName, s.git.AuthorEmail)
	if err != nil {
		s.log.Warn().Err(err).Msg("git commit failed")
		return ""
	}
	s.log.Info().Str("commit", hash).Msg("data directory committed")
	return hash
}

// prune removes snapshot directories beyond the configured retention
// count, newest kept.
func (s *Service) prune() (int, error) {
	keep := s.cfg.Keep
	if keep < 1 {
		keep = defaultKeep
	}
	root := filepath.Join(s.dataDir, "backups")
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, fmt.Errorf("reading backups dir: %w", err)
	}

	var stamps []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(stampLayout, e.Name()); err != nil {
			continue
		}
		stamps = append(stamps, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))

	if len(stamps) <= keep {
		return 0, nil
	}
	pruned := 0
	for _, name := range stamps[keep:] {
		if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
			s.log.Error().Err(err).Str("snapshot", name).Msg("removing old snapshot failed")
			continue
		}
		s.log.Info().Str("snapshot", name).Msg("removed old snapshot")
		pruned++
	}
	return pruned, nil
}

func (s *Service) upload(ctx context.Context, dbFile, stamp string) error {
	f, err := os.Open(dbFile)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("statting snapshot: %w", err)
	}

	key := fmt.Sprintf("wealthtracker-%s.db", stamp)
	if s.cfg.S3Prefix != "" {
		key = path.Join(s.cfg.S3Prefix, key)
	}
	if err := s.uploader.Upload(ctx, key, f, info.Size()); err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	s.log.Info().Str("key", key).Int64("size_bytes", info.Size()).Msg("snapshot uploaded")
	return nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metadata file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}
