// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"errors"
	"strings"

	"golang.org/x/text/secure/precis"
)

var (
	errCouldNotStabilize = errors.New("Could not stabilize string while casefolding")

	// servers advertising rfc1459 casemapping treat these as the uppercase of {}|^
	rfc1459Replacer = strings.NewReplacer("[", "{", "]", "}", "\\", "|", "~", "^")
)

// Each pass of PRECIS casefolding is a composition of idempotent operations,
// but not idempotent itself. Therefore, RFC 8264 says "do it four times and hope
// it converges" (lolwtf). Golang's PRECIS implementation has a "repeat" option,
// which provides this functionality, but unfortunately it's not exposed publicly.
func iterateFolding(profile *precis.Profile, oldStr string) (str string, err error) {
	str = oldStr
	for i := 0; i < 4; i++ {
		str, err = profile.CompareKey(str)
		if err != nil {
			return "", err
		}
		if oldStr == str {
			break
		}
		oldStr = str
	}
	if oldStr != str {
		return "", errCouldNotStabilize
	}
	return str, nil
}

// casefoldName returns the comparison key for a nickname. We don't know which
// casemapping the server uses, so this folds under both PRECIS and rfc1459.
func casefoldName(name string) string {
	folded, err := iterateFolding(precis.UsernameCaseMapped, name)
	if err != nil {
		folded = strings.ToLower(name)
	}
	return rfc1459Replacer.Replace(folded)
}

func nicksEqual(a, b string) bool {
	return casefoldName(a) == casefoldName(b)
}
