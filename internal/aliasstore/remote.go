package aliasstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"kabudash/internal/domain"
)

// RemoteSheet accesses the remote spreadsheet through pre-authorized CSV
// endpoints: a GET export URL and an optional POST update URL. Sheet
// authentication is outside this program; the URLs carry it.
type RemoteSheet struct {
	FetchURL string
	PushURL  string

	httpClient *http.Client
}

// NewRemoteSheet creates a remote sheet client. Empty URLs disable the
// corresponding direction.
func NewRemoteSheet(fetchURL, pushURL string) *RemoteSheet {
	return &RemoteSheet{
		FetchURL:   fetchURL,
		PushURL:    pushURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether the sheet can be fetched at all.
func (r *RemoteSheet) Configured() bool {
	return r != nil && r.FetchURL != ""
}

// Fetch downloads and parses the remote table.
func (r *RemoteSheet) Fetch(ctx context.Context) ([]domain.AliasRecord, error) {
	if !r.Configured() {
		return nil, fmt.Errorf("remote sheet not configured")
	}
	req, err := http.NewRequestWithContext(ctx, "GET", r.FetchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sheet fetch status %d", resp.StatusCode)
	}
	return ParseCSV(resp.Body)
}

// Push uploads the full table to the remote sheet, replacing its contents.
func (r *RemoteSheet) Push(ctx context.Context, records []domain.AliasRecord) error {
	if r == nil || r.PushURL == "" {
		return fmt.Errorf("remote sheet push not configured")
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.PushURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/csv")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet push status %d", resp.StatusCode)
	}
	return nil
}
