// Package preflight runs the pre-run environment checks: classifier
// credentials and reachability, directory access, and the history database.
package preflight
