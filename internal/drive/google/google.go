// Package google adapts the drive ports onto the Google Drive v3 content
// API. The client is built from a bearer token acquired by the external
// token provider; it never runs the authorization flow itself.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"viagem/internal/core"
	"viagem/internal/drive"

	"golang.org/x/oauth2"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

type Client struct {
	svc *gdrive.Service
}

// Ensure interface conformance
var _ drive.Store = (*Client)(nil)

// NewWithToken creates a Drive client from a raw bearer token string. The
// token's acquisition, scopes and refresh are the token provider's problem;
// this client only presents it.
func NewWithToken(ctx context.Context, accessToken string) (*Client, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, errors.New("empty access token")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := gdrive.NewService(ctx, goption.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// FindFolder looks up a non-trashed folder by exact name.
func (c *Client) FindFolder(ctx context.Context, name string) (core.RemoteFolderRef, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(name), folderMimeType)
	list, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, webViewLink)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return core.RemoteFolderRef{}, fmt.Errorf("list folders named %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return core.RemoteFolderRef{}, fmt.Errorf("folder %q: %w", name, drive.ErrNotFound)
	}
	f := list.Files[0]
	return core.RemoteFolderRef{FolderID: f.Id, WebURL: f.WebViewLink}, nil
}

// CreateFolder creates a folder, re-checking for a concurrently created one
// first. Drive itself allows duplicate names, so the conflict check has to
// happen on our side to honor the one-folder-per-trip invariant.
func (c *Client) CreateFolder(ctx context.Context, name string) (core.RemoteFolderRef, error) {
	if existing, err := c.FindFolder(ctx, name); err == nil {
		slog.WarnContext(ctx, "Folder appeared before creation", "name", name, "id", existing.FolderID)
		return core.RemoteFolderRef{}, fmt.Errorf("folder %q: %w", name, drive.ErrFolderConflict)
	} else if !errors.Is(err, drive.ErrNotFound) {
		return core.RemoteFolderRef{}, err
	}
	f, err := c.svc.Files.Create(&gdrive.File{Name: name, MimeType: folderMimeType}).
		Fields("id", "webViewLink").
		Context(ctx).Do()
	if err != nil {
		return core.RemoteFolderRef{}, fmt.Errorf("create folder %q: %w", name, err)
	}
	return core.RemoteFolderRef{FolderID: f.Id, WebURL: f.WebViewLink}, nil
}

// Upload stores data under {folder}/{name}. An existing file with the same
// name gets its content replaced, so re-uploading after a partial failure
// never produces duplicates.
func (c *Client) Upload(ctx context.Context, folderID, name string, data []byte) error {
	existingID, err := c.findFileID(ctx, folderID, name)
	switch {
	case err == nil:
		_, err = c.svc.Files.Update(existingID, &gdrive.File{}).
			Media(bytes.NewReader(data)).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("replace %s: %w", name, err)
		}
	case errors.Is(err, drive.ErrNotFound):
		_, err = c.svc.Files.Create(&gdrive.File{Name: name, Parents: []string{folderID}}).
			Media(bytes.NewReader(data)).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("upload %s: %w", name, err)
		}
	default:
		return err
	}
	return nil
}

// WriteHistory serializes the snapshot and uploads it as the trip's history
// file, replacing any previous version.
func (c *Client) WriteHistory(ctx context.Context, folderID string, snap core.Snapshot) error {
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := c.Upload(ctx, folderID, drive.HistoryFileName, payload); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// ReadHistory fetches and decodes the history file. A missing file maps to
// drive.ErrNotFound, which callers treat as an empty first-run history.
func (c *Client) ReadHistory(ctx context.Context, folderID string) (core.Snapshot, error) {
	fileID, err := c.findFileID(ctx, folderID, drive.HistoryFileName)
	if err != nil {
		return core.Snapshot{}, err
	}
	resp, err := c.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		if isNotFound(err) {
			return core.Snapshot{}, fmt.Errorf("%s: %w", drive.HistoryFileName, drive.ErrNotFound)
		}
		return core.Snapshot{}, fmt.Errorf("download history: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read history body: %w", err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode history: %w", err)
	}
	return snap, nil
}

func (c *Client) findFileID(ctx context.Context, folderID, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), escapeQuery(folderID))
	list, err := c.svc.Files.List().
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list files named %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", fmt.Errorf("file %q: %w", name, drive.ErrNotFound)
	}
	return list.Files[0].Id, nil
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// escapeQuery escapes backslashes and single quotes for Drive query
// literals.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
