package domain

import "regexp"

// SmartCode is a dotted, versioned business-taxonomy string, e.g.
// "SALON.FIN.EXPENSE.SALARY.v1". It is used both as the posting-rule
// lookup key and as a per-line audit tag on generated journal lines.
type SmartCode string

// smartCodePattern requires DOMAIN.MODULE.CATEGORY[.KIND...].vN.
var smartCodePattern = regexp.MustCompile(`^[A-Z0-9]+(\.[A-Z0-9_]+){2,}\.v[0-9]+$`)

// IsValid reports whether the smart code matches the taxonomy format.
func (s SmartCode) IsValid() bool {
	return smartCodePattern.MatchString(string(s))
}

func (s SmartCode) String() string {
	return string(s)
}

// SystemPostingSmartCode marks transactions created by the posting
// pipeline itself, as opposed to manually entered journals.
const SystemPostingSmartCode SmartCode = "SALON.FIN.GL.AUTO_POSTING.v1"
