// Package report persists invariant check reports so configuration drift
// can be audited across runs.
package report

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-invariants/internal/invariant"
	klog "github.com/Klingon-tech/klingnet-invariants/internal/log"
	"github.com/Klingon-tech/klingnet-invariants/internal/storage"
)

// ErrNoReports is returned by Latest when a revision has no stored reports.
var ErrNoReports = errors.New("no reports stored")

// Key layout: "r/" + revision + "/" + big-endian unix nanos.
var reportPrefix = []byte("r/")

// Store persists reports in a key-value database.
type Store struct {
	db storage.DB
}

// NewStore creates a report store over db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

func (s *Store) revisionDB(rev invariant.Revision) *storage.PrefixDB {
	p := make([]byte, 0, len(reportPrefix)+len(rev)+1)
	p = append(p, reportPrefix...)
	p = append(p, string(rev)...)
	p = append(p, '/')
	return storage.NewPrefixDB(s.db, p)
}

func reportKey(r *invariant.Report) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(r.CheckedAt.UnixNano()))
	return k[:]
}

// Save stores a report. A report with the same revision and timestamp
// replaces the previous one.
func (s *Store) Save(r *invariant.Report) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	if !r.Revision.Known() {
		return fmt.Errorf("report has unknown revision %q", r.Revision)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := s.revisionDB(r.Revision).Put(reportKey(r), data); err != nil {
		return fmt.Errorf("store report: %w", err)
	}
	klog.Report.Debug().
		Str("revision", r.Revision.String()).
		Str("config", r.ConfigHash.Short()).
		Bool("passed", r.Passed).
		Msg("Report saved")
	return nil
}

// History returns stored reports for rev, newest first.
// A limit <= 0 returns every report.
func (s *Store) History(rev invariant.Revision, limit int) ([]*invariant.Report, error) {
	var all []*invariant.Report
	err := s.revisionDB(rev).ForEach(nil, func(key, value []byte) error {
		var r invariant.Report
		if err := json.Unmarshal(value, &r); err != nil {
			return fmt.Errorf("decode report %x: %w", key, err)
		}
		all = append(all, &r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Keys iterate oldest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Latest returns the most recent report for rev.
func (s *Store) Latest(rev invariant.Revision) (*invariant.Report, error) {
	reports, err := s.History(rev, 1)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNoReports
	}
	return reports[0], nil
}

// Prune deletes all but the newest keep reports for rev and returns the
// number deleted. keep <= 0 deletes every report.
func (s *Store) Prune(rev invariant.Revision, keep int) (int, error) {
	db := s.revisionDB(rev)
	var keys [][]byte
	err := db.ForEach(nil, func(key, _ []byte) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(keys) <= keep {
		return 0, nil
	}

	stale := keys[:len(keys)-keep]
	for _, k := range stale {
		if err := db.Delete(k); err != nil {
			return 0, fmt.Errorf("prune report: %w", err)
		}
	}
	klog.Report.Info().
		Str("revision", rev.String()).
		Int("deleted", len(stale)).
		Msg("Pruned report history")
	return len(stale), nil
}
