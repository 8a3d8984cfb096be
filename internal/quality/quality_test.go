package quality

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSceneTokenDefinedForEveryRealTier(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for _, tier := range All() {
		token, err := tier.SceneToken()
		if tier == None || tier == Unknown {
			require.ErrorIs(err, ErrInvalidTier, "tier %s", tier)
			require.Empty(token)
			continue
		}
		require.NoError(err, "tier %s", tier)
		require.NotEmpty(token, "tier %s", tier)
		require.NotEmpty(tier.String())
		require.NotEmpty(tier.Ident())
	}
}

func TestAllIsAscendingAndComplete(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	all := All()
	require.Len(all, len(tiers))
	require.True(slices.IsSorted(all))
	for _, tier := range all {
		require.True(tier.Valid(), "tier %d", tier)
	}

	all[0] = FullHDBluRay
	require.Equal(None, All()[0], "All must hand out a copy")
}

func TestSceneTokenRejectsUndefinedValue(t *testing.T) {
	t.Parallel()

	bogus := Tier(1 << 12)
	require.False(t, bogus.Valid())
	require.Equal(t, "Tier(4096)", bogus.String())
	_, err := bogus.SceneToken()
	require.ErrorIs(t, err, ErrInvalidTier)
}

func TestDisplayStrings(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal("N/A", None.String())
	require.Equal("Unknown", Unknown.String())
	require.Equal("SD TV", SDTV.String())
	require.Equal("1080p HD TV", FullHDTV.String())
	require.Equal("720p WEB-DL", HDWebDL.String())
	require.Equal("1080p BluRay", FullHDBluRay.String())
}

func TestParseOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{in: "HDTV", want: HDTV},
		{in: "fullhdbluray", want: FullHDBluRay},
		{in: "Full-HD-BluRay", want: FullHDBluRay},
		{in: "HD-TV", want: HDTV},
		{in: "SD-DVD", want: SDDVD},
		{in: "RawHD-TV", want: RawHDTV},
		{in: "720p WEB-DL", want: HDWebDL},
		{in: "1080p.HDTV.x264", want: FullHDTV},
		{in: "HDTV.x264", want: SDTV},
		{in: "  sdtv ", want: SDTV},
		{in: "UNKNOWN", wantErr: true},
		{in: "N/A", wantErr: true},
		{in: "", wantErr: true},
		{in: "4k-remux", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseOverride(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrUnknownQuality)
				require.Equal(t, Unknown, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCombineSplitRoundTrip(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	tests := []struct {
		name      string
		any, best []Tier
	}{
		{name: "empty"},
		{name: "any only", any: []Tier{SDTV, HDTV}},
		{name: "best only", best: []Tier{FullHDBluRay}},
		{name: "both", any: []Tier{SDTV, SDDVD, HDWebDL}, best: []Tier{HDTV, HDBluRay}},
		{name: "overlap", any: []Tier{HDTV, FullHDTV}, best: []Tier{HDTV}},
		{name: "unknown survives", any: []Tier{Unknown}, best: []Tier{SDTV, Unknown}},
		{name: "everything", any: []Tier{SDTV, SDDVD, HDTV, RawHDTV, FullHDTV, HDWebDL, FullHDWebDL, HDBluRay, FullHDBluRay, Unknown}},
	}

	for _, tc := range tests {
		gotAny, gotBest := Split(Combine(tc.any, tc.best))
		require.ElementsMatch(tc.any, gotAny, tc.name)
		require.ElementsMatch(tc.best, gotBest, tc.name)
	}
}

func TestCombineLayout(t *testing.T) {
	t.Parallel()

	v := Combine([]Tier{SDTV, HDTV}, []Tier{HDBluRay})
	require.Equal(t, uint32(1|4|128<<16), v)
}
