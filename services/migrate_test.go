package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageWithImage(id, title, imageURL string) notionapi.Page {
	page := testPage(id, title, time.Now().UTC())
	page.Properties["Images"] = &notionapi.FilesProperty{Files: []notionapi.File{
		{External: &notionapi.FileObject{URL: imageURL}},
	}}
	return page
}

func TestMigratePlan(t *testing.T) {
	db := &fakeDatabaseService{pages: []notionapi.Page{
		pageWithImage("aaa-111", "With image", "https://example.com/a.png"),
		testPage("bbb-222", "No image", time.Now().UTC()),
	}}

	svc := NewMigrateService(testNotionClient(db, nil), SyncOptions{})
	plan, err := svc.Plan(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, plan.Images, 2, "primary plus one gallery entry")
	assert.Equal(t, "project-aaa111", plan.Images[0].ProjectID)
	assert.Equal(t, "https://example.com/a.png", plan.Images[0].RemoteURL)
	assert.Equal(t, "/images/projects/project-aaa111/primary.jpg", plan.Images[0].LocalPath)
	assert.Equal(t, "/images/projects/project-aaa111/gallery-1.jpg", plan.Images[1].LocalPath)
	assert.Equal(t, []string{"project-bbb222"}, plan.Skipped, "placeholder-only projects are skipped")
}

func TestMigratePlanFiltersProjects(t *testing.T) {
	db := &fakeDatabaseService{pages: []notionapi.Page{
		pageWithImage("aaa-111", "Wanted", "https://example.com/a.png"),
		pageWithImage("bbb-222", "Unwanted", "https://example.com/b.png"),
	}}

	svc := NewMigrateService(testNotionClient(db, nil), SyncOptions{})
	plan, err := svc.Plan(context.Background(), []string{"project-aaa111"})

	require.NoError(t, err)
	for _, img := range plan.Images {
		assert.Equal(t, "project-aaa111", img.ProjectID)
	}
	assert.NotEmpty(t, plan.Images)
}

func TestMigrateRunRecordsOutcomes(t *testing.T) {
	imageBody := []byte("fake image bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(imageBody)
	}))
	defer srv.Close()

	db := &fakeDatabaseService{pages: []notionapi.Page{
		pageWithImage("aaa-111", "Good", srv.URL+"/a.png"),
		pageWithImage("bbb-222", "Gone", srv.URL+"/missing.png"),
	}}

	svc := NewMigrateService(testNotionClient(db, nil), SyncOptions{})
	plan, err := svc.Run(context.Background(), nil)

	require.NoError(t, err)

	byURL := map[string]ImageDownload{}
	for _, img := range plan.Images {
		byURL[img.RemoteURL] = img
	}

	good := byURL[srv.URL+"/a.png"]
	assert.Equal(t, "ok", good.Status)
	assert.Equal(t, int64(len(imageBody)), good.Size)

	gone := byURL[srv.URL+"/missing.png"]
	assert.Equal(t, "error", gone.Status)
}
