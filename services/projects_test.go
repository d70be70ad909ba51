package services

import (
	"context"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-sync-backend/errs"
)

func TestProjectList(t *testing.T) {
	edited := time.Now().UTC()
	db := &fakeDatabaseService{pages: []notionapi.Page{
		testPage("aaa-111", "First", edited),
		testPage("bbb-222", "Second", edited),
	}}

	svc := NewProjectService(testNotionClient(db, nil), SyncOptions{})
	summaries, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "project-aaa111", summaries[0].ID)
	assert.Equal(t, "First", summaries[0].Title)
}

func TestProjectGet(t *testing.T) {
	blocks := &fakeBlockService{blocks: map[string]notionapi.Blocks{
		"aaa-111": {
			&notionapi.Heading1Block{
				BasicBlock: notionapi.BasicBlock{Object: "block", Type: notionapi.BlockTypeHeading1},
				Heading1: notionapi.Heading{RichText: []notionapi.RichText{
					{Text: &notionapi.Text{Content: "Overview"}},
				}},
			},
		},
	}}
	db := &fakeDatabaseService{pages: []notionapi.Page{
		testPage("aaa-111", "First", time.Now().UTC()),
	}}

	svc := NewProjectService(testNotionClient(db, blocks), SyncOptions{})
	record, err := svc.Get(context.Background(), "project-aaa111")

	require.NoError(t, err)
	assert.Equal(t, "First", record.Title)
	assert.Equal(t, "# Overview", record.FullDescription)
}

func TestProjectGetNotFound(t *testing.T) {
	db := &fakeDatabaseService{pages: []notionapi.Page{
		testPage("aaa-111", "First", time.Now().UTC()),
	}}

	svc := NewProjectService(testNotionClient(db, nil), SyncOptions{})
	record, err := svc.Get(context.Background(), "project-nope")

	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Nil(t, record)
}
