package backlog

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Andrei-Barwood/todo2issues/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func defaultWriteOptions(dir string) WriteOptions {
	return WriteOptions{
		OutputDir: dir,
		CSVPath:   filepath.Join(dir, "issues.csv"),
		IndexPath: filepath.Join(dir, "README.md"),
		DocExt:    ".md",
	}
}

func TestBuildEndToEndExamples(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kernel", "sched.c"), strings.Repeat("int x;\n", 130))

	report := strings.Join([]string{
		"kernel/sched.c:120:    // TODO: implement real scheduler",
		"ui/button.c:10:    // placeholder hit testing",
		"only:two",
		"lib/util.c:x:    refactor this someday",
	}, "\n")

	result := New(Options{ProjectRoot: root}).Build(strings.NewReader(report))
	require.Len(t, result.Findings, 3)
	assert.Equal(t, 1, result.Skipped)

	sched := result.Findings[0]
	assert.Equal(t, 1, sched.ID)
	assert.Equal(t, model.MarkerTodo, sched.Marker)
	assert.Equal(t, model.PriorityCritical, sched.Priority)
	assert.Equal(t, "Kernel Engineer", sched.Owner)
	assert.Equal(t, 40, sched.EstimateHours)
	assert.Equal(t, []string{"critical", "todo"}, sched.Labels)
	assert.Equal(t, "0001-TODO_implement_real_scheduler.md", sched.FileName)
	assert.Equal(t, model.SnippetFound, sched.Context.Status)
	assert.Len(t, strings.Split(sched.Context.Text, "\n"), 7)

	button := result.Findings[1]
	assert.Equal(t, 2, button.ID)
	assert.Equal(t, model.MarkerPlaceholder, button.Marker)
	assert.Equal(t, model.PriorityLow, button.Priority)
	assert.Equal(t, "Graphics Engineer", button.Owner)
	assert.Equal(t, 16, button.EstimateHours)
	assert.Equal(t, model.SnippetNotFound, button.Context.Status)

	util := result.Findings[2]
	assert.Equal(t, 3, util.ID)
	assert.Equal(t, 0, util.Line)
	assert.Equal(t, model.MarkerNote, util.Marker)
	assert.Equal(t, "Engineer", util.Owner)

	assert.NotEmpty(t, result.Notes)
}

func TestBuildIDsAreContiguousInInputOrder(t *testing.T) {
	var lines []string
	for _, l := range []string{"z.c:1:TODO", "a.c:2:FIXME sched", "m.c:3:hack", "b.c:4:NOTE"} {
		lines = append(lines, l, "garbage")
	}

	result := New(Options{ProjectRoot: t.TempDir()}).Build(strings.NewReader(strings.Join(lines, "\n")))
	require.Len(t, result.Findings, 4)
	for i, f := range result.Findings {
		assert.Equal(t, i+1, f.ID)
	}
	assert.Equal(t, "z.c", result.Findings[0].FilePath)
	assert.Equal(t, "b.c", result.Findings[3].FilePath)
}

func TestBuildKeepsLinesAroundAnOversizedOne(t *testing.T) {
	report := "a.c:1:TODO short\nb.c:2:TODO " + strings.Repeat("x", 2<<20) + "\nc.c:3:FIXME after\n"

	result := New(Options{ProjectRoot: t.TempDir()}).Build(strings.NewReader(report))
	require.Len(t, result.Findings, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{result.Findings[0].ID, result.Findings[1].ID, result.Findings[2].ID})
	assert.Equal(t, model.MarkerFixme, result.Findings[2].Marker)
}

func TestBuildFileUndecodableReportLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo_report.txt")
	writeFile(t, path, "a.c:1:TODO one\nb.c:2:TODO \xff\xfe bytes\nc.c:3:TODO three\n")

	result, err := New(Options{ProjectRoot: dir}).BuildFile(path)
	require.NoError(t, err)
	require.Len(t, result.Findings, 3)
	assert.Contains(t, result.Findings[1].Content, "\uFFFD")
	assert.Equal(t, "TODO three", result.Findings[2].Content)
}

type brokenReader struct{ data string }

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, errors.New("device unplugged")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestBuildKeepsFindingsWhenReportReadFails(t *testing.T) {
	result := New(Options{ProjectRoot: t.TempDir()}).Build(&brokenReader{data: "a.c:1:TODO one\nb.c:2:TODO two\n"})
	require.Len(t, result.Findings, 2)
	require.NotEmpty(t, result.Notes)
	assert.Contains(t, result.Notes[len(result.Notes)-1], "device unplugged")
}

func TestCSVRoundTripsSourceWithStrayCarriageReturns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c"), "a\r\r\nb\n")
	out := t.TempDir()
	b := New(Options{ProjectRoot: root})

	result := b.Build(strings.NewReader("a.c:1:TODO check\n"))
	require.Empty(t, Failed(b.Write(result, defaultWriteOptions(out))))

	f, err := os.Open(filepath.Join(out, "issues.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, result.Findings[0].Context.Text, rows[1][5])
}

func TestBuildFileMissingInput(t *testing.T) {
	_, err := New(Options{}).BuildFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.True(t, errors.Is(err, ErrInputNotFound))
}

func TestWriteProducesAllOutputs(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "issues")
	b := New(Options{ProjectRoot: root})

	result := b.Build(strings.NewReader("kernel/sched.c:120:    // TODO: implement real scheduler\nfs/inode.c:7:FIXME, \"quoted\" text\n"))

	opts := defaultWriteOptions(out)
	opts.JSONPath = filepath.Join(out, "issues.json")
	outcomes := b.Write(result, opts)
	assert.Empty(t, Failed(outcomes))
	assert.Len(t, outcomes, 5)

	f, err := os.Open(filepath.Join(out, "issues.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "FIXME, \"quoted\" text", rows[2][4])

	doc, err := os.ReadFile(filepath.Join(out, "0001-TODO_implement_real_scheduler.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "# 0001 - // TODO: implement real scheduler")

	assert.FileExists(t, filepath.Join(out, "0002-FIXME_quoted_text.md"))
	assert.FileExists(t, filepath.Join(out, "README.md"))
	assert.FileExists(t, filepath.Join(out, "issues.json"))
}

func TestWriteContinuesPastDocumentFailure(t *testing.T) {
	out := t.TempDir()
	b := New(Options{ProjectRoot: t.TempDir()})

	result := b.Build(strings.NewReader("a.c:1:TODO first\nb.c:2:TODO second\nc.c:3:TODO third\n"))

	// A directory squatting on the second ticket's name makes that write fail.
	blocked := filepath.Join(out, result.Findings[1].FileName)
	require.NoError(t, os.MkdirAll(blocked, 0o755))

	outcomes := b.Write(result, defaultWriteOptions(out))
	failed := Failed(outcomes)
	require.Len(t, failed, 1)
	assert.Equal(t, blocked, failed[0].Path)

	assert.FileExists(t, filepath.Join(out, result.Findings[0].FileName))
	assert.FileExists(t, filepath.Join(out, result.Findings[2].FileName))
	assert.FileExists(t, filepath.Join(out, "README.md"))
	assert.FileExists(t, filepath.Join(out, "issues.csv"))
}

func TestWriteWithNoFindings(t *testing.T) {
	out := t.TempDir()
	b := New(Options{})
	outcomes := b.Write(model.Result{}, defaultWriteOptions(out))
	assert.Empty(t, Failed(outcomes))

	data, err := os.ReadFile(filepath.Join(out, "issues.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,file,line,marker,content,context,priority,owner,estimate_hours,labels\n", string(data))
}
