// Package classify holds the text heuristics that decide whether a measure
// belongs in the discipline feed or the ethics-referral feed.
//
// The predicates are deliberately list-only: they operate on the title and
// latest-action text that the upstream list endpoints return, so a page of
// results can be screened without per-measure detail fetches.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"congresswatch/internal/core/bill"
)

// disciplineWords covers the inflections of the five discipline verbs
const disciplineWords = `censur(?:e|ed|es|ing)|reprimand(?:ed|s|ing)?|expel(?:led|s|ling)?|expulsion|condemn(?:ed|s|ing)?|condemnation`

var (
	disciplineRE = regexp.MustCompile(`(?i)\b(?:` + disciplineWords + `)\b`)

	// A title like "Rep." or "Senator" followed by a capitalized name.
	// Kept case-sensitive so prose like "a representative sample" never matches
	titledMemberRE = regexp.MustCompile(
		`\b(?:Rep\.|Representative|Sen\.|Senator|Del\.|Delegate|Resident Commissioner)\s+[A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)*`)

	explicitMemberRE = regexp.MustCompile(
		`(?i)\b(?:Member|Delegate|Resident Commissioner) of (?:the )?(?:House of Representatives|Senate|Congress)\b`)

	// Phrases where "members" refers to bodies other than Congress
	nonCongressMembersRE = regexp.MustCompile(
		`(?i)\bmembers?\s+of\s+the\s+(?:united nations|u\.n\.?|security council|cabinet|eu|nato)\b`)

	ethicsCommitteeRE = regexp.MustCompile(
		`(?i)\b(?:Committee on Ethics|Select Committee on Ethics|Committee on Standards of Official Conduct)\b`)
)

// IsResolution reports whether the measure type is a simple resolution
func IsResolution(typ string) bool {
	t := strings.ToUpper(strings.TrimSpace(typ))
	return t == "HRES" || t == "SRES"
}

// IsCongressType reports whether typ is any recognized measure type
func IsCongressType(typ string) bool {
	switch strings.ToUpper(strings.TrimSpace(typ)) {
	case "HRES", "SRES", "HR", "S", "HJRES", "SJRES":
		return true
	}
	return false
}

// HasDisciplineKeyword reports whether text contains a discipline verb
func HasDisciplineKeyword(text string) bool { return disciplineRE.MatchString(text) }

// HasTitledMember reports whether text names a member with an honorific
func HasTitledMember(text string) bool { return titledMemberRE.MatchString(text) }

// HasExplicitMember reports whether text names a Member of Congress verbatim
func HasExplicitMember(text string) bool { return explicitMemberRE.MatchString(text) }

// HasNonCongressMembers reports whether "members" refers to a non-Congress body
func HasNonCongressMembers(text string) bool { return nonCongressMembersRE.MatchString(text) }

// IsEthicsReferralText reports whether an action line names an ethics committee
func IsEthicsReferralText(text string) bool { return ethicsCommitteeRE.MatchString(text) }

// Discipline classifies a record as a member-discipline measure.
//
// Only simple resolutions qualify, and the title or latest-action text must
// contain a discipline keyword. Loose mode stops there. Strict mode further
// requires the measure to target a Member of Congress: a titled name in the
// title or latest-action text, or the explicit "Member of the House/Senate/
// Congress" phrasing. The explicit phrasing is suppressed when the only
// "members" in sight belong to a non-Congress body
func Discipline(r bill.Record, strict bool) bool {
	if !IsResolution(r.Type) {
		return false
	}
	latest := ""
	if r.LatestAction != nil {
		latest = r.LatestAction.Text
	}
	text := r.Title + " " + latest

	if !HasDisciplineKeyword(text) {
		return false
	}
	if !strict {
		return true
	}
	if HasTitledMember(r.Title) || HasTitledMember(latest) {
		return true
	}
	if HasExplicitMember(text) && !HasNonCongressMembers(text) {
		return true
	}
	return false
}

// EthicsReferral reports whether a record's latest action refers the measure
// to an ethics committee
func EthicsReferral(r bill.Record) bool {
	if r.LatestAction == nil {
		return false
	}
	return IsEthicsReferralText(r.LatestAction.Text)
}

// TargetPattern compiles a matcher for text that singles out one member by
// name. Returns nil when no surname is available.
//
// The strict alternatives require an honorific followed by the name, or the
// "Last, First" order. Loose mode adds a proximity branch: a discipline
// keyword within 80 characters of the bare surname
func TargetPattern(first, last string, loose bool) *regexp.Regexp {
	last = strings.TrimSpace(last)
	if last == "" {
		return nil
	}
	lastRx := regexp.QuoteMeta(last)
	firstRx := ""
	if f := strings.TrimSpace(first); f != "" {
		firstRx = regexp.QuoteMeta(f)
	}

	alts := make([]string, 0, 3)
	titled := `(?:Rep\.?|Representative|Sen\.?|Senator)\s+`
	if firstRx != "" {
		titled += firstRx + `\s+`
	}
	alts = append(alts, titled+lastRx)
	if firstRx != "" {
		alts = append(alts, lastRx+`,\s*`+firstRx)
	}
	if loose {
		alts = append(alts, fmt.Sprintf(
			`(?:%s).{0,80}\b(?:Rep\.?|Representative|Sen\.?|Senator)?\s*%s\b`, disciplineWords, lastRx))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}
