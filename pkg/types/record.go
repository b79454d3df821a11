// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Default column headers of the bibliographic sheet.
const (
	ColumnTitle       = "タイトル"
	ColumnAuthor      = "作成者"
	ColumnPublishDate = "発行日"
	ColumnSubject     = "主題"
)

// Columns names the source columns that carry the fields the pipeline reads.
// Empty entries fall back to the default headers.
type Columns struct {
	// Title is the column holding the book title.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Author is the column holding the author or creator.
	Author string `json:"author" yaml:"author" mapstructure:"author"`

	// PublishDate is the column holding the free-text publish date.
	PublishDate string `json:"publish_date" yaml:"publish_date" mapstructure:"publish_date"`

	// Subject is the column holding the subject heading.
	Subject string `json:"subject" yaml:"subject" mapstructure:"subject"`
}

// DefaultColumns returns the column headers used by the source sheet.
func DefaultColumns() Columns {
	return Columns{
		Title:       ColumnTitle,
		Author:      ColumnAuthor,
		PublishDate: ColumnPublishDate,
		Subject:     ColumnSubject,
	}
}

// withDefaults fills empty column names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Author == "" {
		c.Author = d.Author
	}
	if c.PublishDate == "" {
		c.PublishDate = d.PublishDate
	}
	if c.Subject == "" {
		c.Subject = d.Subject
	}
	return c
}

// Record is one row delivered by a record source: an immutable mapping from
// column name to cell text. Construct with NewRecord.
type Record struct {
	fields  map[string]string
	columns Columns
}

// NewRecord copies fields into a new Record. cols selects which columns the
// typed accessors read; zero-valued entries use the default headers.
func NewRecord(fields map[string]string, cols Columns) Record {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Record{fields: copied, columns: cols.withDefaults()}
}

// Get returns the value of an arbitrary column and whether it exists.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Title returns the title cell.
func (r Record) Title() (string, bool) { return r.Get(r.cols().Title) }

// Author returns the author cell.
func (r Record) Author() (string, bool) { return r.Get(r.cols().Author) }

// PublishDate returns the publish-date cell.
func (r Record) PublishDate() (string, bool) { return r.Get(r.cols().PublishDate) }

// Subject returns the subject cell.
func (r Record) Subject() (string, bool) { return r.Get(r.cols().Subject) }

// Columns returns the column mapping the accessors use.
func (r Record) Columns() Columns { return r.cols() }

// Fields returns a copy of every column of the record.
func (r Record) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Len returns the number of columns in the record.
func (r Record) Len() int { return len(r.fields) }

// cols guards against a zero Record built without NewRecord.
func (r Record) cols() Columns {
	if r.columns.Title == "" {
		return r.columns.withDefaults()
	}
	return r.columns
}

// EnrichedRecord is a Record that carries the recovered target age and,
// when the publish date yields a year, its decade label.
type EnrichedRecord struct {
	Record

	// TargetAge is the age parsed from the title marker.
	TargetAge int

	// Decade is the decade label (e.g. "1990年代"); empty when absent.
	Decade string
}

// HasDecade reports whether a decade label was derived.
func (e EnrichedRecord) HasDecade() bool { return e.Decade != "" }

// Records strips the derived fields and returns the underlying records.
func Records(enriched []EnrichedRecord) []Record {
	out := make([]Record, len(enriched))
	for i, e := range enriched {
		out[i] = e.Record
	}
	return out
}
