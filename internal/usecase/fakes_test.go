package usecase

import (
	"context"
	"errors"

	"seoadmin/internal/domain"
	"seoadmin/internal/ports"
)

// In-memory doubles for the repository and delegate ports.

type fieldUpdate struct {
	pageID string
	field  domain.PageField
	value  string
}

type fakePages struct {
	pages          map[string]*domain.Page
	fieldUpdates   []fieldUpdate
	updateFieldErr error
	saveErr        error
}

var _ ports.PageRepository = (*fakePages)(nil)

func newFakePages(pages ...*domain.Page) *fakePages {
	f := &fakePages{pages: map[string]*domain.Page{}}
	for _, p := range pages {
		f.pages[p.ID] = p
	}
	return f
}

func (f *fakePages) Save(ctx context.Context, page *domain.Page) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *page
	f.pages[page.ID] = &cp
	return nil
}

func (f *fakePages) Get(ctx context.Context, id string) (*domain.Page, error) {
	p, ok := f.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePages) GetBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	for _, p := range f.pages {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePages) List(ctx context.Context) ([]domain.Page, error) {
	out := make([]domain.Page, 0, len(f.pages))
	for _, p := range f.pages {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePages) UpdateField(ctx context.Context, id string, field domain.PageField, value string) error {
	if f.updateFieldErr != nil {
		return f.updateFieldErr
	}
	p, ok := f.pages[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch field {
	case domain.FieldTitle:
		p.Title = value
	case domain.FieldExcerpt:
		p.Excerpt = value
	case domain.FieldContent:
		p.Content = value
	}
	f.fieldUpdates = append(f.fieldUpdates, fieldUpdate{pageID: id, field: field, value: value})
	return nil
}

type fakeReports struct {
	reports map[string]*domain.Report
	order   []string
	saveErr error
}

var _ ports.ReportRepository = (*fakeReports)(nil)

func newFakeReports(reports ...*domain.Report) *fakeReports {
	f := &fakeReports{reports: map[string]*domain.Report{}}
	for _, r := range reports {
		f.reports[r.ID] = r
		f.order = append(f.order, r.ID)
	}
	return f
}

func (f *fakeReports) Save(ctx context.Context, report *domain.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *report
	f.reports[report.ID] = &cp
	f.order = append(f.order, report.ID)
	return nil
}

func (f *fakeReports) Get(ctx context.Context, id string) (*domain.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReports) LatestForPage(ctx context.Context, pageID string) (*domain.Report, error) {
	for i := len(f.order) - 1; i >= 0; i-- {
		r := f.reports[f.order[i]]
		if r.PageID == pageID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReports) ListForPage(ctx context.Context, pageID string) ([]domain.Report, error) {
	var out []domain.Report
	for _, id := range f.order {
		if r := f.reports[id]; r.PageID == pageID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeIssues struct {
	issues       map[string]*domain.Issue
	order        []string
	fixWrites    int
	statusWrites int
	batchErr     error
	statusErr    error
}

var _ ports.IssueRepository = (*fakeIssues)(nil)

func newFakeIssues(issues ...*domain.Issue) *fakeIssues {
	f := &fakeIssues{issues: map[string]*domain.Issue{}}
	for _, is := range issues {
		f.issues[is.ID] = is
		f.order = append(f.order, is.ID)
	}
	return f
}

func (f *fakeIssues) SaveBatch(ctx context.Context, issues []domain.Issue) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	for i := range issues {
		cp := issues[i]
		f.issues[cp.ID] = &cp
		f.order = append(f.order, cp.ID)
	}
	return nil
}

func (f *fakeIssues) Get(ctx context.Context, id string) (*domain.Issue, error) {
	is, ok := f.issues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *is
	return &cp, nil
}

func (f *fakeIssues) ListByReport(ctx context.Context, reportID string) ([]domain.Issue, error) {
	var out []domain.Issue
	for _, id := range f.order {
		if is := f.issues[id]; is.ReportID == reportID {
			out = append(out, *is)
		}
	}
	return out, nil
}

func (f *fakeIssues) UpdateProposedFix(ctx context.Context, id, text string) error {
	is, ok := f.issues[id]
	if !ok {
		return domain.ErrNotFound
	}
	is.ProposedFix = text
	f.fixWrites++
	return nil
}

func (f *fakeIssues) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	is, ok := f.issues[id]
	if !ok {
		return domain.ErrNotFound
	}
	is.Status = status
	f.statusWrites++
	return nil
}

type fakeHistory struct {
	entries   []domain.ChangeEntry
	appendErr error
}

var _ ports.HistoryRepository = (*fakeHistory)(nil)

func (f *fakeHistory) Append(ctx context.Context, entry *domain.ChangeEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistory) Get(ctx context.Context, id string) (*domain.ChangeEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			cp := f.entries[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeHistory) ListForPage(ctx context.Context, pageID string) ([]domain.ChangeEntry, error) {
	var out []domain.ChangeEntry
	for _, e := range f.entries {
		if e.PageID == pageID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDelegate struct {
	analyzeFunc func(domain.AnalysisRequest) ([]domain.IssueDraft, error)
	regenFunc   func(domain.RegenerateRequest) (string, error)
	calls       int
}

var _ ports.Delegate = (*fakeDelegate)(nil)

func (f *fakeDelegate) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.IssueDraft, error) {
	f.calls++
	if f.analyzeFunc == nil {
		return nil, errors.New("no analyze stub")
	}
	return f.analyzeFunc(req)
}

func (f *fakeDelegate) Regenerate(ctx context.Context, req domain.RegenerateRequest) (string, error) {
	f.calls++
	if f.regenFunc == nil {
		return "", errors.New("no regenerate stub")
	}
	return f.regenFunc(req)
}
