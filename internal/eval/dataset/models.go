// Package dataset loads evaluation records: cataloged items with the
// subject headings a professional cataloger assigned, used as ground
// truth.
package dataset

// Record is one cataloged item in an evaluation dataset.
type Record struct {
	Identifier  string   `parquet:"identifier"  json:"identifier"`
	Title       string   `parquet:"title"       json:"title"`
	Author      string   `parquet:"author"      json:"author,omitempty"`
	Description string   `parquet:"description" json:"description"`
	Headings    []string `parquet:"headings"    json:"headings"`
}

// Text assembles the bibliographic description fed to the pipeline for
// this record.
func (r Record) Text() string {
	text := ""
	if r.Title != "" {
		text += "Title: " + r.Title + "\n"
	}
	if r.Author != "" {
		text += "Author: " + r.Author + "\n"
	}
	if r.Description != "" {
		text += "\n" + r.Description
	}
	return text
}
