package api

type syncRequest struct {
	Force         bool `json:"force"`
	IncludeImages bool `json:"includeImages"`
}

type backupRequest struct {
	IncludeImages bool `json:"includeImages"`
}

type migrateRequest struct {
	ProjectIDs     []string `json:"projectIds"`
	DownloadImages bool     `json:"downloadImages"`
}

type driveExchangeRequest struct {
	Code string `json:"code"`
}

type driveRestoreRequest struct {
	FileID string `json:"fileId"`
}

type tokenRequest struct {
	Token string `json:"token"`
}
