// Package quality classifies the video quality tier of a release from its
// file name and maps tiers to display strings and scene naming tokens.
package quality

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// Tier is a single quality tier. Tiers are bit flags so that sets of tiers
// can be packed into one integer (see Combine).
type Tier uint16

const (
	None         Tier = 0
	SDTV         Tier = 1
	SDDVD        Tier = 1 << 1
	HDTV         Tier = 1 << 2
	RawHDTV      Tier = 1 << 3 // 720p/1080i mpeg2
	FullHDTV     Tier = 1 << 4 // 1080p HDTV
	HDWebDL      Tier = 1 << 5
	FullHDWebDL  Tier = 1 << 6
	HDBluRay     Tier = 1 << 7
	FullHDBluRay Tier = 1 << 8

	// Unknown sits at the far end of the range so it never collides with a
	// real tier in composite values.
	Unknown Tier = 1 << 15
)

var (
	// ErrInvalidTier is returned when a tier without a scene token (a
	// sentinel or an unrecognized value) is used to build a name.
	ErrInvalidTier = errors.New("tier has no scene token")

	// ErrUnknownQuality is returned by ParseOverride for strings that name no tier.
	ErrUnknownQuality = errors.New("unknown quality")
)

type tierInfo struct {
	ident   string
	display string
	token   string
}

var tiers = map[Tier]tierInfo{
	None:         {ident: "NONE", display: "N/A"},
	Unknown:      {ident: "UNKNOWN", display: "Unknown"},
	SDTV:         {ident: "SDTV", display: "SD TV", token: "HDTV.x264"},
	SDDVD:        {ident: "SDDVD", display: "SD DVD", token: "DVDRip.x264"},
	HDTV:         {ident: "HDTV", display: "HD TV", token: "720p.HDTV.x264"},
	RawHDTV:      {ident: "RAWHDTV", display: "RawHD TV", token: "1080i.HDTV.MPEG2"},
	FullHDTV:     {ident: "FULLHDTV", display: "1080p HD TV", token: "1080p.HDTV.x264"},
	HDWebDL:      {ident: "HDWEBDL", display: "720p WEB-DL", token: "720p.WEB-DL"},
	FullHDWebDL:  {ident: "FULLHDWEBDL", display: "1080p WEB-DL", token: "1080p.WEB-DL"},
	HDBluRay:     {ident: "HDBLURAY", display: "720p BluRay", token: "720p.BluRay.x264"},
	FullHDBluRay: {ident: "FULLHDBLURAY", display: "1080p BluRay", token: "1080p.BluRay.x264"},
}

// ordered lists every tier, sentinels included, in ascending value order.
var ordered = []Tier{
	None,
	SDTV,
	SDDVD,
	HDTV,
	RawHDTV,
	FullHDTV,
	HDWebDL,
	FullHDWebDL,
	HDBluRay,
	FullHDBluRay,
	Unknown,
}

// All returns every tier, sentinels included, in ascending value order.
func All() []Tier {
	return slices.Clone(ordered)
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	_, ok := tiers[t]
	return ok
}

// String returns the canonical display string, e.g. "720p WEB-DL".
func (t Tier) String() string {
	if info, ok := tiers[t]; ok {
		return info.display
	}
	return fmt.Sprintf("Tier(%d)", uint16(t))
}

// Ident returns the identifier form used on the command line, e.g. "HDWEBDL".
func (t Tier) Ident() string {
	if info, ok := tiers[t]; ok {
		return info.ident
	}
	return ""
}

// SceneToken returns the token injected into scene names for t. None,
// Unknown and undefined values have no token.
func (t Tier) SceneToken() (string, error) {
	info, ok := tiers[t]
	if !ok || info.token == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidTier, t)
	}
	return info.token, nil
}

// ParseOverride resolves a caller-supplied quality string. It accepts the
// identifier ("FULLHDTV"), the display string ("1080p HD TV") or the scene
// token ("1080p.HDTV.x264"), ignoring case and punctuation. The sentinels
// are never accepted since they cannot name a release.
func ParseOverride(s string) (Tier, error) {
	k := foldKey(s)
	if k == "" {
		return Unknown, fmt.Errorf("%w: empty", ErrUnknownQuality)
	}
	for _, t := range ordered {
		info := tiers[t]
		if info.token == "" {
			continue
		}
		if k == foldKey(info.ident) || k == foldKey(info.display) || k == foldKey(info.token) {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

func foldKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Combine packs two tier sets into one value: the "any" set in the low 16
// bits and the "best" set shifted into the high 16 bits. None carries no bit.
func Combine(anyTiers, bestTiers []Tier) uint32 {
	var anyQ, bestQ uint32
	for _, t := range anyTiers {
		anyQ |= uint32(t)
	}
	for _, t := range bestTiers {
		bestQ |= uint32(t)
	}
	return anyQ | bestQ<<16
}

// Split is the inverse of Combine. Both sets come back in ascending order.
func Split(v uint32) (anyTiers, bestTiers []Tier) {
	for _, t := range ordered {
		if t == None {
			continue
		}
		if uint32(t)&v != 0 {
			anyTiers = append(anyTiers, t)
		}
		if uint32(t)<<16&v != 0 {
			bestTiers = append(bestTiers, t)
		}
	}
	return anyTiers, bestTiers
}
