// Package render writes the pipeline's output artifacts: LaTeX table
// fragments with CSV mirrors under the tables directory, and PNG figures
// under the figures directory. The LaTeX files are fragments meant to be
// \input into a surrounding document, not standalone documents.
package render
