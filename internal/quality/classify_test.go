package quality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Tier
	}{
		{"empty", "", Unknown},
		{"no signal", "home video.mkv", Unknown},
		{"sd hdtv xvid", "Show.S01E01.HDTV.XviD-LOL.avi", SDTV},
		{"sd pdtv x264", "Show.S01E01.PDTV.x264-GRP.mp4", SDTV},
		{"sd web-dl", "Show.S01E01.WEB-DL.x264-GRP.mp4", SDTV},
		{"sd dvdrip", "Movie.2010.DVDRip.XviD-GRP.avi", SDDVD},
		{"sd bdrip ws", "Movie.2010.BDRip.WS.x264-GRP.mkv", SDDVD},
		{"720p hdtv vetoes sd rule", "Show.S01E01.720p.HDTV.x264-DIMENSION.mkv", HDTV},
		{"hr ws pdtv", "Show.S01E01.HR.WS.PDTV.x264-GRP.avi", HDTV},
		{"1080i mpeg2", "Show.S01E01.1080i.HDTV.MPEG2-GRP.ts", RawHDTV},
		{"720p mpeg-2", "Show.S01E01.720p.HDTV.MPEG-2-GRP.ts", RawHDTV},
		{"1080p hdtv h264", "Show.S01E01.1080p.HDTV.H.264-GRP.mkv", RawHDTV},
		{"1080p hdtv x264", "Show.S01E01.1080p.HDTV.x264-GRP.mkv", FullHDTV},
		{"720p web-dl", "Show.S01E01.720p.WEB-DL.DD5.1.H.264-GRP.mkv", HDWebDL},
		{"720p itunes", "Show.S01E01.720p.iTunes.H264-GRP.m4v", HDWebDL},
		{"1080p webrip", "Show.S01E01.1080p.WEBRip.x264-GRP.mkv", FullHDWebDL},
		{"1080p itunes", "Movie.2010.1080p.iTunes.H.264-GRP.mkv", FullHDWebDL},
		{"720p bluray", "Movie.2010.720p.BluRay.x264-GRP.mkv", HDBluRay},
		{"720p hddvd", "Movie.2010.720p.HDDVD.x264-GRP.mkv", HDBluRay},
		{"1080p bluray", "Movie.2010.1080p.BluRay.x264-GRP.mkv", FullHDBluRay},
		{"literal display string", "Show [720p WEB-DL].mkv", HDWebDL},
		{"literal prefers longer string", "Show - 1080p HD TV.mkv", FullHDTV},
		{"literal sd dvd", "Show (SD DVD).avi", SDDVD},
		{"literal at start", "HD TV capture.ts", HDTV},
		{"literal needs word boundary", "Show.xHD.TV.avi", Unknown},
		{"path is reduced to base", "/data/tv/Show.S01E01.720p.HDTV.x264.mkv", HDTV},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.in), "Classify(%q)", tc.in)
		})
	}
}

func TestClassifyFindsEveryDisplayString(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for _, tier := range All() {
		if tier == None || tier == Unknown {
			continue
		}
		name := "Some.Release." + tier.String() + ".mkv"
		require.Equal(tier, Classify(name), "Classify(%q)", name)
		require.Equal(tier, LiteralTier(name), "LiteralTier(%q)", name)
	}
}

func TestRulePrecedence(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	name := "Show.S01E01.720p.HDTV.x264-GRP.mkv"
	require.False(Rules[0].Match(name), "sd rule must be vetoed by 720p")
	require.True(Rules[3].Match(name))
	require.Equal(HDTV, Classify(name))

	hr := "Show.S01E01.HR.WS.PDTV.x264-GRP.avi"
	require.False(Rules[0].Match(hr), "sd rule must reject hr.ws.pdtv")
	require.True(Rules[3].Match(hr))

	hr1080 := "Show.HR.WS.PDTV.x264.1080i-GRP.avi"
	require.False(Rules[3].Match(hr1080), "hr.ws.pdtv is not HD TV at 1080i")
	require.Equal(Unknown, Classify(hr1080))
}

func TestFromExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Tier
	}{
		{"foo.avi", SDTV},
		{"foo.mp4", SDTV},
		{"FOO.MKV", HDTV},
		{"foo.ts", RawHDTV},
		{"foo.xyz", Unknown},
		{"foo", Unknown},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, FromExtension(tc.in), tc.in)
	}
}

func TestClassifyAssume(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	require.Equal(HDTV, ClassifyAssume("home video.mkv"))
	require.Equal(FullHDBluRay, ClassifyAssume("Movie.1080p.BluRay.x264.avi"))
	require.Equal(Unknown, ClassifyAssume("notes.txt"))
	require.Equal(Unknown, ClassifyAssume(""))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         string
		override   Tier
		want       Tier
		wantOrigin Origin
	}{
		{"name wins over override", "Show.720p.HDTV.x264.avi", SDDVD, HDTV, OriginName},
		{"override used without name signal", "Show.S01E01.avi", FullHDWebDL, FullHDWebDL, OriginOverride},
		{"extension fallback", "Show.S01E01.mkv", Unknown, HDTV, OriginExtension},
		{"sentinel override ignored", "Show.S01E01.ts", None, RawHDTV, OriginExtension},
		{"nothing known", "Show.S01E01.bin", Unknown, Unknown, OriginExtension},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, origin := Resolve(tc.in, tc.override)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.wantOrigin, origin)
		})
	}
}
