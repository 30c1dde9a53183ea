// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// # Library Jobs

// SyncedEntry is a doujinshi matched to a folder on disk.
type SyncedEntry struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	FolderName   string `json:"folderName"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// PendingEntry is a doujinshi still waiting for its folder.
type PendingEntry struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`
}

// SyncResult is the answer of a folder sync.
type SyncResult struct {
	Synced           []SyncedEntry  `json:"synced"`
	StillPending     []PendingEntry `json:"stillPending"`
	AvailableFolders []string       `json:"availableFolders"`
}

// Sync matches downloaded folders to catalogue entries.
func (client *Client) Sync(context context.Context) (SyncResult, error) {
	var result SyncResult
	if err := client.do(context, call{method: http.MethodPost, path: "/api/sync", out: &result}); err != nil {
		return SyncResult{}, err
	}
	if result.Synced == nil {
		result.Synced = []SyncedEntry{}
	}
	if result.StillPending == nil {
		result.StillPending = []PendingEntry{}
	}
	if result.AvailableFolders == nil {
		result.AvailableFolders = []string{}
	}
	return result, nil
}

// ScanResult holds the counters of an image folder scan.
type ScanResult struct {
	TotalScanned int      `json:"total_scanned"`
	NewImages    int      `json:"new_images"`
	Duplicates   int      `json:"duplicates"`
	Errors       []string `json:"errors"`
}

// Scan indexes new files of the image folder. An empty path scans the
// library's default folder.
func (client *Client) Scan(context context.Context, path string) (ScanResult, error) {
	var envelope struct {
		Message string     `json:"message"`
		Result  ScanResult `json:"result"`
	}

	var query url.Values
	if path != "" {
		query = url.Values{"path": {path}}
	}
	if err := client.do(context, call{method: http.MethodPost, path: "/api/images/scan", query: query, out: &envelope}); err != nil {
		return ScanResult{}, err
	}
	if envelope.Result.Errors == nil {
		envelope.Result.Errors = []string{}
	}
	return envelope.Result, nil
}
