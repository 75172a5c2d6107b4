// Package watch follows a record file on disk and calls back once edits to
// it settle. It watches the file's parent directory so that editors which
// save by writing a temporary file and renaming it over the original are
// seen as well.
package watch
