package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"csvviewer/internal/pkg/csvtable"
	"csvviewer/internal/pkg/imagematch"
	"csvviewer/internal/storage"
)

// Preview is the full dataset view returned by Get: the record itself,
// freshly parsed headers and rows, and a display-key -> inline data URL
// map for every image that could be loaded or matched. Headers and Data
// shadow the record's stored copies with values parsed on this request.
type Preview struct {
	Upload
	Headers []string          `json:"headers"`
	Data    []csvtable.Row    `json:"data"`
	Images  map[string]string `json:"images"`
}

// CreateResult is the summary returned after a successful upload.
type CreateResult struct {
	UploadID   string `json:"uploadId"`
	RowCount   int    `json:"rowCount"`
	ImageCount int    `json:"imageCount"`
}

// Service orchestrates uploads: blobs go to the store, metadata to the
// repository. Blob writes happen before the record insert; a failure in
// between leaves orphan blobs behind, which is accepted (no GC).
type Service struct {
	repo  Repository
	store storage.Store
}

func NewService(repo Repository, store storage.Store) *Service {
	return &Service{repo: repo, store: store}
}

// Create stores the CSV and image blobs, parses the CSV for counts and
// headers, and persists the upload record. The CSV blob is named
// "{id}_{originalName}", image i is named "{id}_{i}_{originalName}";
// empty image parts are skipped but keep their sequence index.
func (s *Service) Create(ctx context.Context, csv *multipart.FileHeader, images []*multipart.FileHeader) (*CreateResult, error) {
	if csv == nil {
		return nil, ErrCSVRequired
	}

	data, err := readAll(csv)
	if err != nil {
		return nil, fmt.Errorf("read csv upload: %w", err)
	}

	id := uuid.NewString()

	csvPath, err := s.store.SaveCSV(id+"_"+filepath.Base(csv.Filename), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	table, err := csvtable.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	imagePaths := make(StringSlice, 0, len(images))
	for i, fh := range images {
		if fh == nil || fh.Size == 0 {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open image upload %q: %w", fh.Filename, err)
		}
		name := fmt.Sprintf("%s_%d_%s", id, i, filepath.Base(fh.Filename))
		rel, err := s.store.SaveImage(name, src)
		src.Close()
		if err != nil {
			return nil, err
		}
		imagePaths = append(imagePaths, rel)
	}

	record := &Upload{
		ID:         id,
		Filename:   csv.Filename,
		CSVPath:    csvPath,
		ImagePaths: imagePaths,
		UploadDate: time.Now(),
		RowCount:   len(table.Rows),
		ImageCount: len(imagePaths),
		Headers:    StringSlice(table.Headers),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("save upload record: %w", err)
	}

	return &CreateResult{
		UploadID:   id,
		RowCount:   record.RowCount,
		ImageCount: record.ImageCount,
	}, nil
}

// Get re-reads and re-parses the stored CSV, rewrites each row's
// image_path cell to its bare filename, loads every stored image blob as
// an inline data URL and reconciles rows flagged has_image=TRUE against
// them. Nothing is cached; every call does the full read.
func (s *Service) Get(ctx context.Context, id string) (*Preview, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.store.Read(record.CSVPath)
	if err != nil {
		return nil, err
	}
	table, err := csvtable.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	for _, row := range table.Rows {
		if v := row["image_path"]; v != "" {
			row["image_path"] = imagematch.TargetName(v)
		}
	}

	images := make(map[string]string)
	library := imagematch.NewLibrary()
	for _, relPath := range record.ImagePaths {
		blob, err := s.store.Read(relPath)
		if err != nil {
			// blob removed out of band; the row will show as unresolved
			log.Printf("upload %s: skipping unreadable image %s: %v", id, relPath, err)
			continue
		}
		dataURL := imagematch.DataURL(relPath, blob)
		library.Add(relPath, dataURL)
		images[relPath] = dataURL
		images[path.Base(relPath)] = dataURL
	}

	for _, row := range table.Rows {
		if row["has_image"] != "TRUE" || row["image_path"] == "" {
			continue
		}
		if dataURL, ok := library.Resolve(row["image_path"]); ok {
			images[row["image_path"]] = dataURL
		}
	}

	return &Preview{
		Upload:  *record,
		Headers: table.Headers,
		Data:    table.Rows,
		Images:  images,
	}, nil
}

// List returns all upload records, most recent first.
func (s *Service) List(ctx context.Context) ([]Upload, error) {
	return s.repo.List(ctx)
}

// Delete removes the CSV blob, all image blobs and the record. Blob
// removal is best-effort: already-missing files are skipped silently and
// other blob errors only logged, so a half-deleted upload still loses its
// record.
func (s *Service) Delete(ctx context.Context, id string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Remove(record.CSVPath); err != nil {
		log.Printf("upload %s: removing csv blob: %v", id, err)
	}
	for _, relPath := range record.ImagePaths {
		if err := s.store.Remove(relPath); err != nil {
			log.Printf("upload %s: removing image blob: %v", id, err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// Download returns the raw CSV bytes and the original filename to suggest
// to the client.
func (s *Service) Download(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.store.Read(record.CSVPath)
	if err != nil {
		return nil, "", err
	}
	return data, record.Filename, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
