package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/rpupo63/portfolio-sync-backend/errs"
	"github.com/rpupo63/portfolio-sync-backend/models"
)

const (
	// RefreshWindow is how close to expiry a token may get before it is
	// refreshed proactively.
	RefreshWindow = 5 * time.Minute

	backupFolderName = "Portfolio data"
	folderMimeType   = "application/vnd.google-apps.folder"
	backupMimeType   = "application/json"
)

// Config carries the OAuth client credentials for the adapter.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Adapter drives the Google Drive backup side channel: OAuth token
// lifecycle plus folder and file operations. It is independent of the main
// sync read path and only runs when an operator triggers it.
type Adapter struct {
	oauth  *oauth2.Config
	store  TokenStore
	logger zerolog.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

func New(cfg Config, store TokenStore) *Adapter {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{drive.DriveFileScope},
		Endpoint:     google.Endpoint,
	}
	return NewWithOAuth(conf, store)
}

// NewWithOAuth wires the adapter from an explicit oauth2 config, letting
// tests point the token endpoint at a local server.
func NewWithOAuth(conf *oauth2.Config, store TokenStore) *Adapter {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	return &Adapter{
		oauth:  conf,
		store:  store,
		logger: log.With().Str("adapter", "drive").Logger(),
	}
}

// Configured reports whether OAuth client credentials are present.
func (a *Adapter) Configured() bool {
	return a != nil && a.oauth.ClientID != "" && a.oauth.ClientSecret != ""
}

// AuthURL returns the authorization redirect URL that starts the flow.
func (a *Adapter) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
// Returns false instead of an error on failure; callers check the boolean.
func (a *Adapter) Exchange(ctx context.Context, code string) bool {
	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		a.logger.Error().Err(err).Msg("Authorization code exchange failed")
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saveToken(ctx, token)
}

// Refresh exchanges the stored refresh token for a fresh access token.
// Returns false instead of an error on failure; callers check the boolean.
func (a *Adapter) Refresh(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshLocked(ctx)
}

func (a *Adapter) refreshLocked(ctx context.Context) bool {
	token := a.token
	if token == nil {
		stored, err := a.store.Load(ctx)
		if err != nil || stored == nil {
			a.logger.Error().Err(err).Msg("No stored token to refresh")
			return false
		}
		token = stored
	}
	if token.RefreshToken == "" {
		a.logger.Warn().Msg("No refresh token available")
		return false
	}

	refreshed, err := a.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken}).Token()
	if err != nil {
		a.logger.Error().Err(err).Msg("Token refresh failed")
		return false
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = token.RefreshToken
	}

	return a.saveToken(ctx, refreshed)
}

func (a *Adapter) saveToken(ctx context.Context, token *oauth2.Token) bool {
	if err := a.store.Save(ctx, token); err != nil {
		a.logger.Error().Err(err).Msg("Failed to persist token")
		return false
	}
	a.token = token
	return true
}

// NeedsRefresh reports whether the token is within the proactive refresh
// window of its expiry. Tokens without a deadline never need a refresh.
func NeedsRefresh(token *oauth2.Token, now time.Time) bool {
	if token == nil || token.Expiry.IsZero() {
		return false
	}
	return token.Expiry.Sub(now) < RefreshWindow
}

// Authenticated reports whether a token is stored, for the status surface.
func (a *Adapter) Authenticated(ctx context.Context) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != nil {
		return true
	}
	token, err := a.store.Load(ctx)
	return err == nil && token != nil
}

// Logout discards the stored token state.
func (a *Adapter) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = nil
	return a.store.Clear(ctx)
}

// ensureValidToken returns a usable token, refreshing proactively when
// within the expiry window. A failed refresh keeps the stale token; the
// error then surfaces at the call site as a 401 from the remote API rather
// than a distinguished local error.
func (a *Adapter) ensureValidToken(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	token := a.token
	if token == nil {
		stored, err := a.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load token: %w", err)
		}
		if stored == nil {
			return nil, errs.NewAuthError("lookup", fmt.Errorf("not authenticated with Google Drive"))
		}
		token = stored
		a.token = token
	}

	if NeedsRefresh(token, time.Now()) && token.RefreshToken != "" {
		if a.refreshLocked(ctx) {
			token = a.token
		}
	}

	return token, nil
}

func (a *Adapter) service(ctx context.Context) (*drive.Service, error) {
	token, err := a.ensureValidToken(ctx)
	if err != nil {
		return nil, err
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to build drive service: %w", err)
	}
	return svc, nil
}

// BackupFile describes one backup artifact in the Drive folder.
type BackupFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`
	Size        int64  `json:"size"`
}

// SaveBackup uploads a timestamp-named JSON blob into the backup folder,
// creating the folder first if it does not exist.
func (a *Adapter) SaveBackup(ctx context.Context, blob []byte, timestamp time.Time) (*BackupFile, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	folderID, err := a.findOrCreateFolder(ctx, svc)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("backup-%d.json", timestamp.UnixMilli())
	file := &drive.File{
		Name:     name,
		MimeType: backupMimeType,
		Parents:  []string{folderID},
	}
	created, err := svc.Files.Create(file).
		Media(bytes.NewReader(blob)).
		Fields("id, name, createdTime, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapDriveError(err)
	}

	a.logger.Info().Str("file", created.Name).Msg("Saved backup to Drive")
	return &BackupFile{ID: created.Id, Name: created.Name, CreatedTime: created.CreatedTime, Size: created.Size}, nil
}

// ListBackups returns the JSON backup files in the backup folder.
func (a *Adapter) ListBackups(ctx context.Context) ([]BackupFile, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	folderID, err := a.findFolder(ctx, svc)
	if err != nil {
		return nil, err
	}
	if folderID == "" {
		return []BackupFile{}, nil
	}

	query := fmt.Sprintf(
		"'%s' in parents and name contains 'backup' and mimeType = '%s' and trashed = false",
		folderID, backupMimeType,
	)
	list, err := svc.Files.List().
		Q(query).
		OrderBy("createdTime desc").
		Fields("files(id, name, createdTime, size)").
		PageSize(100).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapDriveError(err)
	}

	backups := make([]BackupFile, 0, len(list.Files))
	for _, f := range list.Files {
		backups = append(backups, BackupFile{ID: f.Id, Name: f.Name, CreatedTime: f.CreatedTime, Size: f.Size})
	}
	return backups, nil
}

// RestoreBackup downloads a backup file and parses it. A malformed blob
// fails with the raw JSON error; validation happens a layer up.
func (a *Adapter) RestoreBackup(ctx context.Context, fileID string) (*models.BackupBlob, error) {
	svc, err := a.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, wrapDriveError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup content: %w", err)
	}

	var blob models.BackupBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, err
	}
	return &blob, nil
}

// DeleteBackup removes one backup file.
func (a *Adapter) DeleteBackup(ctx context.Context, fileID string) error {
	svc, err := a.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return wrapDriveError(err)
	}
	return nil
}

func (a *Adapter) findFolder(ctx context.Context, svc *drive.Service) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = '%s' and trashed = false",
		backupFolderName, folderMimeType,
	)
	list, err := svc.Files.List().Q(query).Fields("files(id)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", wrapDriveError(err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (a *Adapter) findOrCreateFolder(ctx context.Context, svc *drive.Service) (string, error) {
	folderID, err := a.findFolder(ctx, svc)
	if err != nil {
		return "", err
	}
	if folderID != "" {
		return folderID, nil
	}

	folder, err := svc.Files.Create(&drive.File{
		Name:     backupFolderName,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", wrapDriveError(err)
	}
	return folder.Id, nil
}

func wrapDriveError(err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return errs.NewSourceAPIError("google-drive", apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("drive request failed: %w", err)
}
