// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library exposes the library-wide operations that do not belong to a
single view: saved filters and the folder sync and image scan jobs.
*/
package library

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/folio/internal/filter"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/internal/upstream"
)

// maxFilterNameLength bounds saved filter names.
const maxFilterNameLength = 100

// Library is the media-library surface of this package.
type Library interface {
	ListSavedFilters(context context.Context) ([]upstream.SavedFilter, error)
	CreateSavedFilter(context context.Context, name string, spec filter.Spec) (upstream.SavedFilter, error)
	DeleteSavedFilter(context context.Context, id int64) error
	Sync(context context.Context) (upstream.SyncResult, error)
	Scan(context context.Context, path string) (upstream.ScanResult, error)
}

// Service validates and forwards library operations.
type Service struct {
	library Library
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(library Library, logger *slog.Logger) *Service {
	return &Service{library: library, logger: logger}
}

// # Saved Filters

// SavedFilters lists every saved filter.
func (service *Service) SavedFilters(context context.Context) ([]upstream.SavedFilter, error) {
	return service.library.ListSavedFilters(context)
}

/*
CreateSavedFilter stores a named filter specification.

Parameters:
  - context: context.Context
  - name: string (required, trimmed)
  - spec: filter.Spec (normalised before storing)

Returns:
  - upstream.SavedFilter: The stored filter
  - error: VALIDATION_ERROR or library errors
*/
func (service *Service) CreateSavedFilter(context context.Context, name string, spec filter.Spec) (upstream.SavedFilter, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.Required("name", name).MaxLen("name", name, maxFilterNameLength)
	if err := validator.Err(); err != nil {
		return upstream.SavedFilter{}, err
	}

	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return upstream.SavedFilter{}, err
	}

	saved, err := service.library.CreateSavedFilter(context, name, spec)
	if err != nil {
		return upstream.SavedFilter{}, err
	}

	service.logger.Info("saved_filter_created", slog.Int64("filter_id", saved.ID), slog.String("name", saved.Name))
	return saved, nil
}

// DeleteSavedFilter removes a saved filter.
func (service *Service) DeleteSavedFilter(context context.Context, id int64) error {
	if err := service.library.DeleteSavedFilter(context, id); err != nil {
		return err
	}
	service.logger.Info("saved_filter_deleted", slog.Int64("filter_id", id))
	return nil
}

// # Jobs

// Sync matches downloaded folders to catalogue entries.
func (service *Service) Sync(context context.Context) (upstream.SyncResult, error) {
	result, err := service.library.Sync(context)
	if err != nil {
		return upstream.SyncResult{}, err
	}

	service.logger.Info("library_synced",
		slog.Int("synced", len(result.Synced)),
		slog.Int("still_pending", len(result.StillPending)),
		slog.Int("available_folders", len(result.AvailableFolders)),
	)
	return result, nil
}

// Scan indexes new files of an image folder; an empty path scans the default one.
func (service *Service) Scan(context context.Context, path string) (upstream.ScanResult, error) {
	result, err := service.library.Scan(context, strings.TrimSpace(path))
	if err != nil {
		return upstream.ScanResult{}, err
	}

	service.logger.Info("images_scanned",
		slog.Int("total_scanned", result.TotalScanned),
		slog.Int("new_images", result.NewImages),
		slog.Int("duplicates", result.Duplicates),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}
