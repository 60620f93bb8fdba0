// Package project resolves operator-supplied project names to a validated
// workspace Layout. Every analyzer resolves its project here before touching
// the filesystem and then trusts the resulting paths.
package project
