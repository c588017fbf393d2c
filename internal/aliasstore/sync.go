package aliasstore

import (
	"context"
	"fmt"
	"log/slog"

	"kabudash/internal/domain"
)

// Source identifies where a snapshot came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
	SourceNone   Source = "none"
)

// Syncer loads the alias table preferring the remote sheet, falling back to
// the local store, and moves the table wholesale in either direction.
type Syncer struct {
	local  Store
	remote *RemoteSheet
	log    *slog.Logger
}

// NewSyncer creates a Syncer. remote may be nil or unconfigured; the local
// store then serves everything.
func NewSyncer(local Store, remote *RemoteSheet, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{local: local, remote: remote, log: log}
}

// Load returns the current table: the remote sheet when reachable and
// non-empty, else the local store. Failures on either side degrade to an
// empty snapshot with SourceNone; Load itself never fails.
func (s *Syncer) Load(ctx context.Context) ([]domain.AliasRecord, Source) {
	if s.remote.Configured() {
		records, err := s.remote.Fetch(ctx)
		if err != nil {
			s.log.Warn("fetching remote alias sheet", "error", err)
		} else if len(records) > 0 {
			return records, SourceRemote
		}
	}

	records, err := s.local.Snapshot(ctx)
	if err != nil {
		s.log.Warn("reading local alias table", "error", err)
		return nil, SourceNone
	}
	if len(records) == 0 {
		return nil, SourceNone
	}
	return records, SourceLocal
}

// PullRemote replaces the local table with the remote sheet's contents.
// An empty or unreachable remote leaves the local table untouched.
func (s *Syncer) PullRemote(ctx context.Context) error {
	records, err := s.remote.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching remote sheet: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("remote sheet is empty, keeping local table")
	}
	if err := s.local.Replace(ctx, records); err != nil {
		return fmt.Errorf("replacing local table: %w", err)
	}
	s.log.Info("pulled alias table from remote", "rows", len(records))
	return nil
}

// PushLocal uploads the local table to the remote sheet. An empty local
// table is refused so a fresh install cannot wipe the sheet.
func (s *Syncer) PushLocal(ctx context.Context) error {
	records, err := s.local.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("reading local table: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("local table is empty, refusing to push")
	}
	if err := s.remote.Push(ctx, records); err != nil {
		return fmt.Errorf("pushing to remote sheet: %w", err)
	}
	s.log.Info("pushed alias table to remote", "rows", len(records))
	return nil
}

// ReplaceLocal swaps the local table for the given rows and then tries a
// best-effort push to the remote sheet. The push failing is reported via
// the returned flag, not as an error, mirroring the upload flow where
// local persistence wins and sync is opportunistic.
func (s *Syncer) ReplaceLocal(ctx context.Context, records []domain.AliasRecord) (pushed bool, err error) {
	if err := s.local.Replace(ctx, records); err != nil {
		return false, fmt.Errorf("replacing local table: %w", err)
	}
	if s.remote == nil || s.remote.PushURL == "" {
		return false, nil
	}
	if err := s.PushLocal(ctx); err != nil {
		s.log.Warn("remote sync skipped", "error", err)
		return false, nil
	}
	return true, nil
}
