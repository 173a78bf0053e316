package folders_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/itglue-audit/folders"
	"github.com/toothbrush/itglue-audit/internal/mock"
	"github.com/toothbrush/itglue-audit/store"
	"go.uber.org/mock/gomock"
)

const folderPage = `<html><body>
<ul class="breadcrumb breadcrumb-passwords">
  <li><a href="/1001/passwords">Passwords</a></li>
  <li><a href="/1001/passwords/folder/F0">  Finance </a></li>
  <li><a href="/1001/passwords/folder/F1">Invoices</a></li>
</ul>
<ul class="nav"><li>Not a crumb</li></ul>
</body></html>`

func TestParseBreadcrumbs(t *testing.T) {
	crumbs, err := folders.ParseBreadcrumbs(folderPage)
	require.NoError(t, err)
	assert.Equal(t, []string{"Passwords", "Finance", "Invoices"}, crumbs)

	crumbs, err = folders.ParseBreadcrumbs("<html><body><p>nothing here</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, crumbs)
}

func TestResolutionFromBreadcrumbs(t *testing.T) {
	tests := []struct {
		name   string
		crumbs []string
		want   folders.Resolution
	}{
		{"nested", []string{"Passwords", "Finance", "Invoices"}, folders.Resolution{FolderName: "Invoices", ParentFolderName: "Finance"}},
		{"top level", []string{"Passwords", "Invoices"}, folders.Resolution{FolderName: "Invoices", ParentFolderName: folders.RootName}},
		{"top level any case", []string{"PASSWORDS", "Invoices"}, folders.Resolution{FolderName: "Invoices", ParentFolderName: folders.RootName}},
		{"no parent", []string{"Invoices"}, folders.Resolution{FolderName: "Invoices", ParentFolderName: folders.RootName}},
		{"empty", nil, folders.Resolution{}},
		{"blank name", []string{"Passwords", "  "}, folders.Resolution{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := folders.ResolutionFromBreadcrumbs(tt.crumbs)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.FolderName != "", got.Resolved())
		})
	}
}

func TestFolderURL(t *testing.T) {
	assert.Equal(t,
		"https://acme.itglue.com/1001/passwords/folder/F1",
		folders.FolderURL("https://acme.itglue.com/", "1001", "F1"))
}

func newCache(t *testing.T) (*store.Cache[folders.Resolution], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folder_cache.json")
	return store.NewCache[folders.Resolution](store.NewJSONFile[folders.Resolution](path)), path
}

func TestResolver_ResolvesEachFolderOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	surface := mock.NewMockSurface(ctrl)
	cache, path := newCache(t)

	gomock.InOrder(
		surface.EXPECT().Login(ctx).Return(nil),
		surface.EXPECT().Breadcrumbs(ctx, "1001", "F1").Return([]string{"Passwords", "Invoices"}, nil).Times(1),
		surface.EXPECT().Close().Return(nil),
	)

	r, err := folders.NewResolver(ctx, surface, cache, zerolog.Nop())
	require.NoError(t, err)

	first := r.Resolve(ctx, "1001", "F1")
	second := r.Resolve(ctx, "1001", "F1")

	assert.Equal(t, folders.Resolution{FolderName: "Invoices", ParentFolderName: "root"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, folders.Stats{Hits: 1, Lookups: 1}, r.Stats())

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"F1": {"FolderName": "Invoices", "ParentFolderName": "root"}}`, string(raw))
}

func TestResolver_UsesPersistedCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	surface := mock.NewMockSurface(ctrl)
	cache, path := newCache(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"F9": {"FolderName": "HR", "ParentFolderName": "People"}}`), 0600))

	surface.EXPECT().Login(ctx).Return(nil)
	surface.EXPECT().Breadcrumbs(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	surface.EXPECT().Close().Return(nil)

	r, err := folders.NewResolver(ctx, surface, cache, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, folders.Resolution{FolderName: "HR", ParentFolderName: "People"}, r.Resolve(ctx, "1001", "F9"))
}

func TestResolver_FailureIsSwallowedAndNotPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	surface := mock.NewMockSurface(ctrl)
	cache, path := newCache(t)

	surface.EXPECT().Login(ctx).Return(nil)
	surface.EXPECT().Breadcrumbs(ctx, "1001", "F2").Return(nil, errors.New("timed out")).Times(1)
	surface.EXPECT().Breadcrumbs(ctx, "1001", "F3").Return([]string{}, nil).Times(1)
	surface.EXPECT().Close().Return(nil)

	r, err := folders.NewResolver(ctx, surface, cache, zerolog.Nop())
	require.NoError(t, err)

	assert.False(t, r.Resolve(ctx, "1001", "F2").Resolved())
	// remembered for the rest of the run
	assert.False(t, r.Resolve(ctx, "1001", "F2").Resolved())
	assert.False(t, r.Resolve(ctx, "1001", "F3").Resolved())
	assert.Equal(t, folders.Stats{Lookups: 2, Failures: 2}, r.Stats())

	require.NoError(t, r.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestResolver_LoginFailureClosesSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	surface := mock.NewMockSurface(ctrl)
	cache, _ := newCache(t)

	gomock.InOrder(
		surface.EXPECT().Login(ctx).Return(&folders.LoginError{Step: "mfa", Err: errors.New("element never appeared")}),
		surface.EXPECT().Close().Return(nil),
	)

	r, err := folders.NewResolver(ctx, surface, cache, zerolog.Nop())
	require.Error(t, err)
	assert.Nil(t, r)

	var le *folders.LoginError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "mfa", le.Step)
}

func TestResolver_PlainLoginErrorIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	surface := mock.NewMockSurface(ctrl)
	cache, _ := newCache(t)

	surface.EXPECT().Login(ctx).Return(errors.New("connection refused"))
	surface.EXPECT().Close().Return(nil)

	_, err := folders.NewResolver(ctx, surface, cache, zerolog.Nop())

	var le *folders.LoginError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "session", le.Step)
}

func TestResolver_CorruptCacheIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	surface := mock.NewMockSurface(ctrl)
	cache, path := newCache(t)
	require.NoError(t, os.WriteFile(path, []byte(`[broken`), 0600))

	surface.EXPECT().Close().Return(nil)

	_, err := folders.NewResolver(ctx, surface, cache, zerolog.Nop())
	require.Error(t, err)
}
