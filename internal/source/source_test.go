// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/pdiddy/agebooks/pkg/types"
)

const sampleCSV = "\ufeffタイトル,作成者,発行日,主題\n" +
	"13歳からの哲学,山田太郎,1995-01-01,哲学\n" +
	",,,\n" +
	"哲学入門,佐藤花子,2001\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func titles(t *testing.T, recs []types.Record) []string {
	t.Helper()
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i], _ = r.Title()
	}
	return out
}

func TestCSVFileFetchRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), "books.csv", sampleCSV)

	recs, err := (&CSVFile{Path: path}).FetchRows(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2, "blank rows are skipped")

	assert.Equal(t, []string{"13歳からの哲学", "哲学入門"}, titles(t, recs))

	date, ok := recs[0].PublishDate()
	assert.True(t, ok)
	assert.Equal(t, "1995-01-01", date)

	subject, ok := recs[1].Subject()
	assert.True(t, ok, "short rows are padded")
	assert.Equal(t, "", subject)
}

func TestCSVFileMissing(t *testing.T) {
	_, err := (&CSVFile{Path: filepath.Join(t.TempDir(), "nope.csv")}).FetchRows(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPCSVFetchRows(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV))
	}))
	defer ts.Close()

	src := &HTTPCSV{URL: ts.URL, Client: ts.Client()}
	recs, err := src.FetchRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, defaultUserAgent, gotUA)
}

func TestHTTPCSVStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not published", http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := (&HTTPCSV{URL: ts.URL, Client: ts.Client()}).FetchRows(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestXLSXFileFetchRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("bookdata")
	require.NoError(t, err)
	for _, row := range [][]string{
		{"タイトル", "作成者", "発行日"},
		{"十三歳からの経済学", "鈴木一郎", "2012年4月"},
		{"60歳からの家計簿", "田中二郎", "2019"},
	} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}
	require.NoError(t, f.Save(path))

	recs, err := (&XLSXFile{Path: path}).FetchRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"十三歳からの経済学", "60歳からの家計簿"}, titles(t, recs))

	recs, err = (&XLSXFile{Path: path, Sheet: "bookdata"}).FetchRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	_, err = (&XLSXFile{Path: path, Sheet: "missing"}).FetchRows(context.Background())
	assert.ErrorContains(t, err, `sheet "missing" not found`)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		cfg     types.SourceConfig
		want    any
		wantErr bool
	}{
		{"csv by extension", "books.csv", types.SourceConfig{}, &CSVFile{}, false},
		{"tsv by extension", "books.TSV", types.SourceConfig{}, &CSVFile{}, false},
		{"xlsx by extension", "books.xlsx", types.SourceConfig{}, &XLSXFile{}, false},
		{"url", "https://example.com/pub?output=csv", types.SourceConfig{}, &HTTPCSV{}, false},
		{"forced csv", "export.dat", types.SourceConfig{Format: types.FormatCSV}, &CSVFile{}, false},
		{"unknown extension", "export.dat", types.SourceConfig{}, nil, true},
		{"xlsx url", "https://example.com/book.xlsx", types.SourceConfig{Format: types.FormatXLSX}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.input, tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}

	src, err := New("books.tsv", types.SourceConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, '\t', src.(*CSVFile).Delimiter)
}

type staticSource struct {
	recs []types.Record
	err  error
}

func (s staticSource) FetchRows(context.Context) ([]types.Record, error) { return s.recs, s.err }

func rec(title string) types.Record {
	return types.NewRecord(map[string]string{types.ColumnTitle: title}, types.Columns{})
}

func TestFetchAllPreservesOrder(t *testing.T) {
	sources := []Source{
		staticSource{recs: []types.Record{rec("a"), rec("b")}},
		staticSource{},
		staticSource{recs: []types.Record{rec("c")}},
	}

	recs, err := FetchAll(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, titles(t, recs))
}

func TestFetchAllError(t *testing.T) {
	boom := errors.New("boom")
	_, err := FetchAll(context.Background(), []Source{
		staticSource{recs: []types.Record{rec("a")}},
		staticSource{err: boom},
	})
	assert.ErrorIs(t, err, boom)
}

func TestRowsToRecordsCustomColumns(t *testing.T) {
	cols := types.Columns{Title: "title"}
	recs := rowsToRecords([][]string{{" title ", ""}, {"14歳からの数学", "ignored"}}, cols)

	require.Len(t, recs, 1)
	got, ok := recs[0].Title()
	assert.True(t, ok)
	assert.Equal(t, "14歳からの数学", got)
	assert.Equal(t, 1, recs[0].Len(), "columns with empty headers are dropped")
}
