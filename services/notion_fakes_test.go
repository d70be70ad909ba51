package services

import (
	"context"

	"github.com/jomei/notionapi"
)

// fakeDatabaseService serves a fixed page set for every query.
type fakeDatabaseService struct {
	pages   []notionapi.Page
	err     error
	queries []*notionapi.DatabaseQueryRequest
}

func (f *fakeDatabaseService) Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, req)
	return &notionapi.DatabaseQueryResponse{Results: f.pages}, nil
}

func (f *fakeDatabaseService) Get(ctx context.Context, id notionapi.DatabaseID) (*notionapi.Database, error) {
	return nil, nil
}

func (f *fakeDatabaseService) Create(ctx context.Context, request *notionapi.DatabaseCreateRequest) (*notionapi.Database, error) {
	return nil, nil
}

func (f *fakeDatabaseService) Update(ctx context.Context, id notionapi.DatabaseID, request *notionapi.DatabaseUpdateRequest) (*notionapi.Database, error) {
	return nil, nil
}

// fakeBlockService serves canned children per page id, with optional
// per-page failures.
type fakeBlockService struct {
	blocks map[string]notionapi.Blocks
	errFor map[string]error
}

func (f *fakeBlockService) GetChildren(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error) {
	if err, ok := f.errFor[string(id)]; ok {
		return nil, err
	}
	return &notionapi.GetChildrenResponse{Results: f.blocks[string(id)]}, nil
}

func (f *fakeBlockService) AppendChildren(ctx context.Context, id notionapi.BlockID, request *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error) {
	return nil, nil
}

func (f *fakeBlockService) Get(ctx context.Context, id notionapi.BlockID) (notionapi.Block, error) {
	return nil, nil
}

func (f *fakeBlockService) Delete(ctx context.Context, id notionapi.BlockID) (notionapi.Block, error) {
	return nil, nil
}

func (f *fakeBlockService) Update(ctx context.Context, id notionapi.BlockID, request *notionapi.BlockUpdateRequest) (notionapi.Block, error) {
	return nil, nil
}

// fakePageService records created pages, for restore tests.
type fakePageService struct {
	created []*notionapi.PageCreateRequest
	err     error
}

func (f *fakePageService) Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, request)
	return &notionapi.Page{}, nil
}

func (f *fakePageService) Get(ctx context.Context, id notionapi.PageID) (*notionapi.Page, error) {
	return nil, nil
}

func (f *fakePageService) Update(ctx context.Context, id notionapi.PageID, request *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	return nil, nil
}
