package folders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ferryman/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGroupDate(t *testing.T) {
	ref := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		format string
		want   string
	}{
		{"YYYY-MM", "2024-07"},
		{"YYYY-MM-DD", "2024-07-15"},
		{"YYYY_MM", "2024_07"},
		{"YYYY", "2024"},
		{"MM-YYYY", "07-2024"},
		{"Month_YYYY", "July_2024"},
		{"YYYY-Q", "2024-Q3"},
		{"DD/MM", "2024-07"},
		{"", "2024-07"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatGroupDate(ref, tt.format))
		})
	}
}

func TestFormatGroupDate_QuarterBoundaries(t *testing.T) {
	assert.Equal(t, "2024-Q1", FormatGroupDate(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "YYYY-Q"))
	assert.Equal(t, "2024-Q2", FormatGroupDate(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "YYYY-Q"))
	assert.Equal(t, "2024-Q4", FormatGroupDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "YYYY-Q"))
}

func TestFormatJobDate(t *testing.T) {
	ref := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05", FormatJobDate(ref, "YYYY-MM-DD"))
	assert.Equal(t, "240305", FormatJobDate(ref, "YYMMDD"))
	assert.Equal(t, "export_2024_03", FormatJobDate(ref, "export_YYYY_MM"))
}

func TestResolve(t *testing.T) {
	ref := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	base := filepath.FromSlash("/data/downloads")

	group := &models.JobGroup{
		Name:                   "Vendors",
		FolderName:             "vendors",
		EnableDateOrganization: true,
		DateFolderFormat:       "YYYY-Q",
	}

	t.Run("group with date, folder and job folder", func(t *testing.T) {
		res := Resolve(base, group, "acme", ref)
		assert.Equal(t, filepath.Join(base, "2024-Q3", "vendors", "acme"), res.Path)
		assert.Equal(t, "2024-Q3", res.DateSegment)
	})

	t.Run("sentinel job folder is ignored", func(t *testing.T) {
		res := Resolve(base, group, "None", ref)
		assert.Equal(t, filepath.Join(base, "2024-Q3", "vendors"), res.Path)
	})

	t.Run("group without date organization", func(t *testing.T) {
		g := *group
		g.EnableDateOrganization = false
		res := Resolve(base, &g, "", ref)
		assert.Equal(t, filepath.Join(base, "vendors"), res.Path)
		assert.Empty(t, res.DateSegment)
	})

	t.Run("empty group folder", func(t *testing.T) {
		g := *group
		g.FolderName = "  "
		res := Resolve(base, &g, "acme", ref)
		assert.Equal(t, filepath.Join(base, "2024-Q3", "acme"), res.Path)
	})

	t.Run("folder names cannot traverse", func(t *testing.T) {
		g := *group
		g.FolderName = "../etc"
		res := Resolve(base, &g, "", ref)
		assert.Equal(t, filepath.Join(base, "2024-Q3", "_etc"), res.Path)
	})
}

func TestResolveJob_DateFoldersWithoutGroup(t *testing.T) {
	ref := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	base := filepath.FromSlash("/data")

	job := &models.JobSpec{UseDateFolders: true, DateFolderFormat: "YYYYMMDD", JobFolderName: "cdr"}
	res := ResolveJob(job, base, nil, ref)
	assert.Equal(t, filepath.Join(base, "20240305", "cdr"), res.Path)

	job.UseDateFolders = false
	res = ResolveJob(job, base, nil, ref)
	assert.Equal(t, filepath.Join(base, "cdr"), res.Path)
}

func TestResolveJob_GroupOverridesJobDateFolders(t *testing.T) {
	ref := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	group := &models.JobGroup{EnableDateOrganization: true, DateFolderFormat: "YYYY-MM"}
	job := &models.JobSpec{UseDateFolders: true, DateFolderFormat: "YYYYMMDD"}

	res := ResolveJob(job, "/data", group, ref)
	assert.Equal(t, filepath.Join("/data", "2024-03"), res.Path)
}

func TestEnsure(t *testing.T) {
	root := t.TempDir()
	res := Resolve(root, &models.JobGroup{FolderName: "g", EnableDateOrganization: true}, "j", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, res.Ensure())
	assert.DirExists(t, filepath.Join(root, "2024-01", "g", "j"))

	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	err := Resolution{Path: filepath.Join(blocker, "sub")}.Ensure()
	require.Error(t, err)

	var pathErr *PathResolutionError
	assert.True(t, errors.As(err, &pathErr))
	assert.Equal(t, filepath.Join(blocker, "sub"), pathErr.Path)
}

func TestSiblings_NewestFirst(t *testing.T) {
	root := t.TempDir()
	group := &models.JobGroup{FolderName: "vendors", EnableDateOrganization: true, DateFolderFormat: "YYYY-MM"}

	for _, month := range []string{"2023-11", "2024-01", "2023-12"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, month, "vendors", "acme"), 0755))
	}
	// only the group folder, no job folder
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024-02", "vendors"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "misc", "vendors", "acme"), 0755))

	res := Resolve(root, group, "acme", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	siblings, err := res.Siblings()
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "2024-01", "vendors", "acme"),
		filepath.Join(root, "2023-12", "vendors", "acme"),
		filepath.Join(root, "2023-11", "vendors", "acme"),
	}, siblings)
}

func TestSiblings_NoDateSegment(t *testing.T) {
	res := Resolve(t.TempDir(), nil, "acme", time.Now())
	siblings, err := res.Siblings()
	require.NoError(t, err)
	assert.Empty(t, siblings)
}

func TestParseDateSegment(t *testing.T) {
	got, ok := ParseDateSegment("2024-Q3", "YYYY-Q")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDateSegment("March_2024", "Month_YYYY")
	require.True(t, ok)
	assert.Equal(t, time.March, got.Month())

	_, ok = ParseDateSegment("2024-Q7", "YYYY-Q")
	assert.False(t, ok)

	_, ok = ParseDateSegment("misc", "YYYY-MM")
	assert.False(t, ok)

	got, ok = ParseDateSegment("20240305", "YYYYMMDD")
	require.True(t, ok)
	assert.Equal(t, 5, got.Day())
}

func TestGroupPreview(t *testing.T) {
	group := &models.JobGroup{FolderName: "billing", EnableDateOrganization: true, DateFolderFormat: "MM-YYYY"}
	assert.Equal(t, filepath.Join("/srv", "03-2024", "billing"),
		GroupPreview("/srv", group, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)))
}
