// Package model defines the data shared by the collector and the renderer.
//
// This package contains the following main types:
//   - Record: the bibliographic metadata of one novel
//   - Run: the state of one collector run as it moves through the pipeline
//
// Records are persisted as a snapshot, an indented JSON array that is the
// only contract between the collector and the renderer. Every field except
// the source page title may be null, and null values are preserved when a
// snapshot is read back.
package model
