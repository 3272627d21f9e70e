// Package history persists completed classification runs in SQLite so past
// reports can be listed and re-rendered without re-running the classifier.
package history
