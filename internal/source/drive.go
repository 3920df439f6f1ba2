package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveClient reads source files from a shared Google Drive folder, the way
// the restaurant staff actually publish their spreadsheets.
type DriveClient struct {
	srv *drive.Service
}

// NewDriveClient authenticates with a service-account credentials JSON blob
// and read-only Drive scope.
func NewDriveClient(ctx context.Context, credentialsJSON string) (*DriveClient, error) {
	jwt, err := google.JWTConfigFromJSON([]byte(credentialsJSON), drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}

	return &DriveClient{srv: srv}, nil
}

// DriveFile is the subset of Drive metadata the puller needs.
type DriveFile struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
	Size         int64
}

// ListFolder lists the non-trashed files directly inside folderID. An empty
// folderID means the Drive root.
func (c *DriveClient) ListFolder(folderID string) ([]DriveFile, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := c.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", folderID, err)
	}

	files := make([]DriveFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, DriveFile{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
		})
	}
	return files, nil
}

// Fetch streams one file's content into w.
func (c *DriveClient) Fetch(fileID string, w io.Writer) error {
	resp, err := c.srv.Files.Get(fileID).Download()
	if err != nil {
		return fmt.Errorf("fetch drive file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}

// ResolveFolder walks a "Reports/2025" style path from the Drive root and
// returns the folder ID at the end of it.
func (c *DriveClient) ResolveFolder(path string) (string, error) {
	if path == "" {
		return "root", nil
	}

	currentID := "root"
	for _, folder := range strings.Split(path, "/") {
		if folder == "" {
			continue
		}
		result, err := c.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and name='%s' and mimeType='application/vnd.google-apps.folder' and trashed=false",
				currentID, folder)).
			Fields("files(id, name)").
			Do()
		if err != nil {
			return "", fmt.Errorf("find folder %s: %w", folder, err)
		}
		if len(result.Files) == 0 {
			return "", fmt.Errorf("folder not found: %s", folder)
		}
		currentID = result.Files[0].Id
	}
	return currentID, nil
}

// driveStore adapts a Drive folder to the ObjectStore interface so the puller
// treats Drive and S3 sources identically. Object keys are file names; the
// name-to-ID mapping from the last List is cached for Download.
type driveStore struct {
	client   *DriveClient
	folderID string

	mu  sync.Mutex
	ids map[string]string
}

// NewDriveStore wraps a Drive folder as an ObjectStore.
func NewDriveStore(client *DriveClient, folderID string) ObjectStore {
	return &driveStore{client: client, folderID: folderID, ids: make(map[string]string)}
}

func (d *driveStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	files, err := d.client.ListFolder(d.folderID)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]ObjectInfo, 0, len(files))
	for _, f := range files {
		if prefix != "" && !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		d.ids[f.Name] = f.ID
		out = append(out, ObjectInfo{Key: f.Name, Size: f.Size})
	}
	return out, nil
}

func (d *driveStore) Download(ctx context.Context, key, destPath string) error {
	d.mu.Lock()
	id, ok := d.ids[key]
	d.mu.Unlock()
	if !ok {
		if _, err := d.List(ctx, ""); err != nil {
			return err
		}
		d.mu.Lock()
		id, ok = d.ids[key]
		d.mu.Unlock()
		if !ok {
			return fmt.Errorf("drive file not found: %s", key)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("prepare directory for %s: %w", destPath, err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	if err := d.client.Fetch(id, out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
