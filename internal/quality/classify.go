package quality

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Origin records how a tier was resolved for a release.
type Origin string

const (
	OriginName      Origin = "name"
	OriginOverride  Origin = "override"
	OriginExtension Origin = "extension"
)

// literalOrder is the priority of the display-string scan. A tier whose
// display string contains another's ("1080p HD TV" vs "HD TV") must come
// first.
var literalOrder = []Tier{
	FullHDBluRay,
	HDBluRay,
	FullHDWebDL,
	HDWebDL,
	FullHDTV,
	RawHDTV,
	HDTV,
	SDDVD,
	SDTV,
}

var literalPatterns = compileLiterals(literalOrder)

func compileLiterals(order []Tier) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(order))
	for i, t := range order {
		words := strings.Split(t.String(), " ")
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		out[i] = regexp.MustCompile(`(?i)(?:^|\W)` + strings.Join(words, `\W`) + `(?:\W|$)`)
	}
	return out
}

// clause matches when every pattern in all matches and none in none does.
type clause struct {
	all  []*regexp.Regexp
	none []*regexp.Regexp
}

func (c clause) match(name string) bool {
	for _, re := range c.all {
		if !re.MatchString(name) {
			return false
		}
	}
	for _, re := range c.none {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

// Rule assigns tier when any of its clauses matches.
type Rule struct {
	Tier    Tier
	clauses []clause
}

// Match reports whether name satisfies the rule.
func (r Rule) Match(name string) bool {
	for _, c := range r.clauses {
		if c.match(name) {
			return true
		}
	}
	return false
}

func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + pattern)
}

func res(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = re(p)
	}
	return out
}

var hiRes = re(`(720|1080)[pi]`)

// Rules is the ordered heuristic table. The first matching rule wins, so the
// negative clauses on the SD rules keep them from shadowing HD releases.
var Rules = []Rule{
	{Tier: SDTV, clauses: []clause{{
		all:  res(`(pdtv|hdtv|dsr|tvrip).(xvid|x264)`),
		none: []*regexp.Regexp{hiRes, re(`hr.ws.pdtv.x264`)},
	}}},
	{Tier: SDTV, clauses: []clause{{
		all:  res(`web.dl|webrip`, `xvid|x264|h.?264`),
		none: []*regexp.Regexp{hiRes},
	}}},
	{Tier: SDDVD, clauses: []clause{{
		all:  res(`(dvdrip|bdrip)(.ws)?.(xvid|divx|x264)`),
		none: []*regexp.Regexp{hiRes},
	}}},
	{Tier: HDTV, clauses: []clause{
		{all: res(`720p`, `hdtv`, `x264`)},
		{all: res(`hr.ws.pdtv.x264`), none: res(`1080[pi]`)},
	}},
	{Tier: RawHDTV, clauses: []clause{
		{all: res(`720p|1080i`, `hdtv`, `mpeg-?2`)},
		{all: res(`1080[pi].hdtv`, `h.?264`)},
	}},
	{Tier: FullHDTV, clauses: []clause{
		{all: res(`1080p`, `hdtv`, `x264`)},
	}},
	{Tier: HDWebDL, clauses: []clause{
		{all: res(`720p`, `web.dl|webrip`)},
		{all: res(`720p`, `itunes`, `h.?264`)},
	}},
	{Tier: FullHDWebDL, clauses: []clause{
		{all: res(`1080p`, `web.dl|webrip`)},
		{all: res(`1080p`, `itunes`, `h.?264`)},
	}},
	{Tier: HDBluRay, clauses: []clause{
		{all: res(`720p`, `bluray|hddvd`, `x264`)},
	}},
	{Tier: FullHDBluRay, clauses: []clause{
		{all: res(`1080p`, `bluray|hddvd`, `x264`)},
	}},
}

// LiteralTier reports the tier whose display string appears in name as a
// bounded word, or Unknown.
func LiteralTier(name string) Tier {
	name = filepath.Base(name)
	for i, pat := range literalPatterns {
		if pat.MatchString(name) {
			return literalOrder[i]
		}
	}
	return Unknown
}

// Classify infers the tier of a file name (a path is reduced to its base).
// It returns Unknown when the name carries no quality signal.
func Classify(name string) Tier {
	if name == "" {
		return Unknown
	}
	name = filepath.Base(name)
	if t := LiteralTier(name); t != Unknown {
		return t
	}
	for _, r := range Rules {
		if r.Match(name) {
			return r.Tier
		}
	}
	return Unknown
}

// FromExtension guesses a tier from the container extension alone.
func FromExtension(name string) Tier {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".avi", ".mp4":
		return SDTV
	case ".mkv":
		return HDTV
	case ".ts":
		return RawHDTV
	default:
		return Unknown
	}
}

// ClassifyAssume is Classify with the extension heuristic as a fallback.
func ClassifyAssume(name string) Tier {
	if t := Classify(name); t != Unknown {
		return t
	}
	return FromExtension(name)
}

// Resolve picks the effective tier for name: an explicit marker in the name,
// else the override (pass Unknown for none), else the extension heuristic.
func Resolve(name string, override Tier) (Tier, Origin) {
	if t := Classify(name); t != Unknown {
		return t, OriginName
	}
	if _, err := override.SceneToken(); err == nil {
		return override, OriginOverride
	}
	return FromExtension(name), OriginExtension
}
