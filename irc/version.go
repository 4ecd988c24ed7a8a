// Copyright (c) 2020 Shivaram Lingamneni
// Copyright (c) 2026 The Oxygen Authors
// Released under the MIT license

package irc

import "fmt"

const (
	// SemVer is the semantic version of oxygen.
	SemVer = "0.1.0-unreleased"
)

var (
	// Ver is the full version of oxygen, used in startup logs and --version.
	Ver = fmt.Sprintf("oxygen-%s", SemVer)
	// Commit is the full git hash, if available
	Commit string
)

// initialize version strings (these are set in package main via linker flags)
func SetVersionString(version, commit string) {
	Commit = commit
	if version != "" {
		Ver = fmt.Sprintf("oxygen-%s", version)
	} else if len(Commit) == 40 {
		Ver = fmt.Sprintf("oxygen-%s-%s", SemVer, Commit[:16])
	}
}
