package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/wealthtracker-dev/wealthtracker/internal/model"
	"github.com/wealthtracker-dev/wealthtracker/internal/store"
)

// Service runs imports end to end: parse, dedup against stored
// references, insert against an account.
type Service struct {
	registry *Registry
	txs      *store.TransactionRepo
	log      zerolog.Logger
}

// NewService creates an import service.
func NewService(registry *Registry, txs *store.TransactionRepo, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		txs:      txs,
		log:      log.With().Str("component", "importer").Logger(),
	}
}

// Result reports one import run.
type Result struct {
	File     string `json:"file,omitempty"`
	Format   string `json:"format"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ImportReader parses r and inserts new transactions against the
// account. Rows whose reference was seen before are skipped, so
// re-importing the same statement is safe.
func (s *Service) ImportReader(r io.Reader, format, accountID string) (*Result, error) {
	parser := s.registry.Get(format)
	if parser == nil {
		return nil, fmt.Errorf("unknown import format %q", format)
	}

	txns, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s input: %w", format, err)
	}

	res := &Result{Format: parser.Format()}
	for _, bt := range txns {
		if bt.Reference != "" {
			seen, err := s.txs.ReferenceExists(bt.Reference)
			if err != nil {
				return nil, err
			}
			if seen {
				res.Skipped++
				continue
			}
		}

		t := model.Transaction{
			AccountID:   accountID,
			Date:        bt.Date,
			Description: bt.Description,
			Amount:      bt.Amount,
			Category:    bt.Category,
			Reference:   bt.Reference,
			Notes:       bt.Type,
		}
		if err := s.txs.Create(&t); err != nil {
			return nil, fmt.Errorf("inserting %q: %w", bt.Description, err)
		}
		res.Imported++
	}

	s.log.Info().
		Str("format", res.Format).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("import finished")
	return res, nil
}

// ImportFile imports one CSV file.
func (s *Service) ImportFile(path, format, accountID string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := s.ImportReader(f, format, accountID)
	if err != nil {
		return nil, err
	}
	res.File = filepath.Base(path)
	return res, nil
}

// ImportDir imports every CSV under <dataDir>/import and moves each
// file to import/processed/ once it is in.
func (s *Service) ImportDir(dataDir, format, accountID string) ([]Result, error) {
	files, err := Scan(dataDir)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, f := range files {
		res, err := s.ImportFile(f.Path, format, accountID)
		if err != nil {
			return results, fmt.Errorf("importing %s: %w", f.Name, err)
		}
		if err := MarkProcessed(dataDir, f.Name); err != nil {
			return results, err
		}
		results = append(results, *res)
	}
	return results, nil
}
