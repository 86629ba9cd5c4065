package mkvtags_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nfo2tags/internal/mkvtags"
)

type tagsDocument struct {
	XMLName xml.Name `xml:"Tags"`
	Tag     struct {
		Simple []mkvtags.Simple `xml:"Simple"`
	} `xml:"Tag"`
}

func transform(t *testing.T, input string) []mkvtags.Simple {
	t.Helper()
	var out bytes.Buffer
	if err := mkvtags.Transform(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	var doc tagsDocument
	if err := xml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid XML: %v\n%s", err, out.String())
	}
	return doc.Tag.Simple
}

func assertEntries(t *testing.T, got []mkvtags.Simple, want []mkvtags.Simple) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %#v want %#v", i, got[i], want[i])
		}
	}
}

func valuesOf(entries []mkvtags.Simple, name string) []string {
	var values []string
	for _, entry := range entries {
		if entry.Name == name {
			values = append(values, entry.String)
		}
	}
	return values
}

const movieNFO = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<movie>
  <title>Heat</title>
  <originaltitle>Heat</originaltitle>
  <plot>A group of professional bank robbers start to feel the heat.</plot>
  <outline>Cops and robbers.</outline>
  <tagline>A Los Angeles Crime Saga</tagline>
  <runtime>170</runtime>
  <mpaa>Rated R</mpaa>
  <certification>US:R</certification>
  <id>tt0113277</id>
  <tmdbid>949</tmdbid>
  <uniqueid type="tmdb" default="true">949</uniqueid>
  <genre>Action</genre>
  <genre>Crime</genre>
  <country>United States of America</country>
  <set>
    <name>Mann Collection</name>
    <overview>Films by Michael Mann.</overview>
  </set>
  <credits>Michael Mann</credits>
  <director>Michael Mann</director>
  <premiered>1995-12-15</premiered>
  <year>1995</year>
  <studio>Warner Bros.</studio>
  <actor>
    <name>Al Pacino</name>
    <role>Vincent Hanna</role>
    <order>0</order>
  </actor>
  <actor>
    <name>Robert De Niro</name>
    <role>Neil McCauley</role>
    <order>1</order>
  </actor>
</movie>
`

func TestTransformMovie(t *testing.T) {
	got := transform(t, movieNFO)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "TITLE", String: "Heat"},
		{Name: "ORIGINALTITLE", String: "Heat"},
		{Name: "TAGLINE", String: "A Los Angeles Crime Saga"},
		{Name: "RUNTIME", String: "170"},
		{Name: "MPAA", String: "Rated R"},
		{Name: "CERTIFICATION", String: "US:R"},
		{Name: "IMDB", String: "tt0113277"},
		{Name: "TMDB", String: "949"},
		{Name: "GENRE", String: "Action"},
		{Name: "GENRE", String: "Crime"},
		{Name: "COUNTRY", String: "United States of America"},
		{Name: "PREMIERED", String: "1995-12-15"},
		{Name: "YEAR", String: "1995"},
		{Name: "STUDIO", String: "Warner Bros."},
		{Name: "DESCRIPTION", String: "A group of professional bank robbers start to feel the heat."},
		{Name: "SUMMARY", String: "Cops and robbers."},
		{Name: "Collection Name", String: "Mann Collection"},
		{Name: "Collection Overview", String: "Films by Michael Mann."},
		{Name: "Director", String: "Michael Mann"},
		{Name: "WRITER", String: "Michael Mann"},
		{Name: "Actor", String: "Al Pacino,Robert De Niro"},
	})
}

func TestTransformEpisode(t *testing.T) {
	input := `<episodedetails>
  <title>Pilot</title>
  <showtitle>Breaking Bad</showtitle>
  <season>1</season>
  <episode>1</episode>
  <id>tt0959621</id>
  <uniqueid type="imdb">tt0959621</uniqueid>
  <uniqueid type="tvdb">349232</uniqueid>
  <plot>A chemistry teacher turns to crime.</plot>
  <director>Vince Gilligan</director>
  <credits>Vince Gilligan</credits>
  <actor><name>Bryan Cranston</name></actor>
</episodedetails>`

	got := transform(t, input)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "TITLE", String: "Pilot"},
		{Name: "SUBTITLE", String: "Breaking Bad"},
		{Name: "SEASON", String: "1"},
		{Name: "EPISODE", String: "1"},
		{Name: "IMDB", String: "tt0959621"},
		{Name: "DESCRIPTION", String: "A chemistry teacher turns to crime."},
		{Name: "Director", String: "Vince Gilligan"},
		{Name: "WRITER", String: "Vince Gilligan"},
		{Name: "Actor", String: "Bryan Cranston"},
	})
}

func TestTransformGoldenOutput(t *testing.T) {
	var out bytes.Buffer
	if err := mkvtags.Transform(strings.NewReader("<movie><title>T</title></movie>"), &out); err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>
<Tags>
  <Tag>
    <Simple>
      <Name>TITLE</Name>
      <String>T</String>
    </Simple>
  </Tag>
</Tags>
`
	if out.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.nfo")
	second := filepath.Join(dir, "b.nfo")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte(movieNFO), 0o644); err != nil {
			t.Fatalf("write nfo: %v", err)
		}
	}

	outA := filepath.Join(dir, "a.xml")
	outB := filepath.Join(dir, "b.xml")
	if err := mkvtags.Convert(first, outA); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if err := mkvtags.Convert(second, outB); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	a, err := os.ReadFile(outA)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	b, err := os.ReadFile(outB)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical output for identical input\n%s\n---\n%s", a, b)
	}
}

func TestConvertTruncatesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.nfo")
	dst := filepath.Join(dir, "tags.xml")
	if err := os.WriteFile(src, []byte("<movie><title>Short</title></movie>"), 0o644); err != nil {
		t.Fatalf("write nfo: %v", err)
	}
	if err := os.WriteFile(dst, bytes.Repeat([]byte("x"), 4096), 0o644); err != nil {
		t.Fatalf("seed destination: %v", err)
	}
	if err := mkvtags.Convert(src, dst); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if bytes.Contains(data, []byte("xxx")) {
		t.Fatalf("expected destination to be truncated, got %q", data)
	}
}

func TestListValuesKeepSourceOrder(t *testing.T) {
	got := transform(t, `<movie><director>A</director><director>B</director><credits>W1</credits><credits>W2</credits></movie>`)
	if dirs := valuesOf(got, "Director"); len(dirs) != 1 || dirs[0] != "A,B" {
		t.Fatalf("unexpected Director values: %#v", dirs)
	}
	if writers := valuesOf(got, "WRITER"); len(writers) != 1 || writers[0] != "W1,W2" {
		t.Fatalf("unexpected WRITER values: %#v", writers)
	}
}

func TestCollectedFieldsFollowDirectFields(t *testing.T) {
	got := transform(t, `<movie><plot>P</plot><genre>G</genre></movie>`)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "GENRE", String: "G"},
		{Name: "DESCRIPTION", String: "P"},
	})
}

func TestIDHandlingDependsOnDocumentKind(t *testing.T) {
	movie := transform(t, `<movie><id>tt123</id></movie>`)
	assertEntries(t, movie, []mkvtags.Simple{{Name: "IMDB", String: "tt123"}})

	episode := transform(t, `<episodedetails><id>tt123</id></episodedetails>`)
	if len(valuesOf(episode, "IMDB")) != 0 {
		t.Fatalf("expected no IMDB entry for episode id, got %#v", episode)
	}
}

func TestUniqueIDRequiresIMDBType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"tmdb", `<movie><uniqueid type="tmdb">999</uniqueid></movie>`, nil},
		{"missing type", `<movie><uniqueid>tt1</uniqueid></movie>`, nil},
		{"imdb", `<movie><uniqueid type="imdb">tt999</uniqueid></movie>`, []string{"tt999"}},
		{"episode imdb", `<episodedetails><uniqueid type="imdb">tt5</uniqueid></episodedetails>`, []string{"tt5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := valuesOf(transform(t, tt.input), "IMDB")
			if len(got) != len(tt.want) {
				t.Fatalf("IMDB values = %#v, want %#v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("IMDB values = %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}

func TestUniqueIDIsWrittenAtRootClose(t *testing.T) {
	got := transform(t, `<movie><uniqueid type="imdb">tt999</uniqueid><title>After</title></movie>`)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "TITLE", String: "After"},
		{Name: "IMDB", String: "tt999"},
	})
}

func TestMovieWithIDAndUniqueIDKeepsBothEntries(t *testing.T) {
	got := transform(t, `<movie><id>tt1</id><uniqueid type="imdb">tt1</uniqueid><genre>Drama</genre></movie>`)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "IMDB", String: "tt1"},
		{Name: "GENRE", String: "Drama"},
		{Name: "IMDB", String: "tt1"},
	})
}

func TestEmptyListsProduceNoEntries(t *testing.T) {
	got := transform(t, `<movie><title>Solo</title><actor><role>Nobody</role></actor></movie>`)
	for _, name := range []string{"Actor", "Director", "WRITER", "DESCRIPTION", "SUMMARY", "Collection Name", "Collection Overview"} {
		if values := valuesOf(got, name); len(values) != 0 {
			t.Fatalf("expected no %s entry, got %#v", name, values)
		}
	}
}

func TestSetNameIsNotAnActor(t *testing.T) {
	got := transform(t, `<movie>
  <set><name>Collection X</name></set>
  <actor><name>Jane</name><role>Lead</role></actor>
</movie>`)
	if actors := valuesOf(got, "Actor"); len(actors) != 1 || actors[0] != "Jane" {
		t.Fatalf("unexpected Actor values: %#v", actors)
	}
	if names := valuesOf(got, "Collection Name"); len(names) != 1 || names[0] != "Collection X" {
		t.Fatalf("unexpected Collection Name values: %#v", names)
	}
}

func TestSplitTextProducesOneEntry(t *testing.T) {
	got := transform(t, `<movie><title>Fast &amp; <![CDATA[Furious]]></title><actor><name>Vin <![CDATA[Diesel]]></name></actor></movie>`)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "TITLE", String: "Fast & Furious"},
		{Name: "Actor", String: "Vin Diesel"},
	})
}

func TestMixedContentKeepsParentText(t *testing.T) {
	got := transform(t, `<movie><plot>Line one<br/>Line two</plot><title>Heat<i>x</i></title><actor><name>Jane<b/></name></actor></movie>`)
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "TITLE", String: "Heat"},
		{Name: "DESCRIPTION", String: "Line one\nLine two"},
		{Name: "Actor", String: "Jane"},
	})
}

func TestValuesAreNFCNormalized(t *testing.T) {
	got := transform(t, "<movie><title>Cafe\u0301</title><actor><name>Zoe\u0308</name></actor></movie>")
	assertEntries(t, got, []mkvtags.Simple{
		{Name: "TITLE", String: "Caf\u00e9"},
		{Name: "Actor", String: "Zo\u00eb"},
	})
}

func TestUnknownElementsAreIgnored(t *testing.T) {
	got := transform(t, `<movie><fileinfo><streamdetails><video><codec>h264</codec></video></streamdetails></fileinfo><thumb aspect="poster">http://x</thumb><title>Kept</title></movie>`)
	assertEntries(t, got, []mkvtags.Simple{{Name: "TITLE", String: "Kept"}})
}

func TestWhitespaceOnlyValuesAreSkipped(t *testing.T) {
	got := transform(t, "<movie><title>\n  </title><studio>  A24 \n</studio></movie>")
	assertEntries(t, got, []mkvtags.Simple{{Name: "STUDIO", String: "A24"}})
}

func TestDeclaredLatin1EncodingIsDecoded(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><movie><title>Caf\xe9</title></movie>"
	got := transform(t, input)
	assertEntries(t, got, []mkvtags.Simple{{Name: "TITLE", String: "Café"}})
}

func TestHTMLEntitiesAreAccepted(t *testing.T) {
	got := transform(t, `<movie><title>Hello&nbsp;World</title></movie>`)
	assertEntries(t, got, []mkvtags.Simple{{Name: "TITLE", String: "Hello World"}})
}

func TestMalformedInputReturnsParseError(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", "<movie><title>Heat</title>"},
		{"mismatched", "<movie><title>Heat</genre></movie>"},
		{"empty", ""},
		{"unknown charset", `<?xml version="1.0" encoding="klingon-8"?><movie/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mkvtags.Transform(strings.NewReader(tt.input), &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, mkvtags.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			var parseErr *mkvtags.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
		})
	}
}

func TestConvertMalformedSourceReportsPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.nfo")
	if err := os.WriteFile(src, []byte("<movie>\n<title>Heat</title>\n"), 0o644); err != nil {
		t.Fatalf("write nfo: %v", err)
	}
	err := mkvtags.Convert(src, filepath.Join(dir, "tags.xml"))
	var parseErr *mkvtags.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Path != src {
		t.Fatalf("expected path %q, got %q", src, parseErr.Path)
	}
	if !strings.Contains(err.Error(), "broken.nfo") {
		t.Fatalf("expected path in message, got %q", err.Error())
	}
}

func TestConvertMissingSourceReturnsIOError(t *testing.T) {
	dir := t.TempDir()
	err := mkvtags.Convert(filepath.Join(dir, "missing.nfo"), filepath.Join(dir, "tags.xml"))
	if !errors.Is(err, mkvtags.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	var ioErr *mkvtags.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "open" {
		t.Fatalf("expected open IOError, got %#v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestConvertUncreatableDestinationReturnsIOError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.nfo")
	if err := os.WriteFile(src, []byte("<movie/>"), 0o644); err != nil {
		t.Fatalf("write nfo: %v", err)
	}
	err := mkvtags.Convert(src, filepath.Join(dir, "missing-dir", "tags.xml"))
	var ioErr *mkvtags.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "create" {
		t.Fatalf("expected create IOError, got %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteFailureReturnsIOError(t *testing.T) {
	err := mkvtags.Transform(strings.NewReader("<movie><title>T</title></movie>"), failingWriter{})
	if !errors.Is(err, mkvtags.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadFailureReturnsIOError(t *testing.T) {
	readErr := errors.New("device gone")
	err := mkvtags.Transform(failingReader{err: readErr}, &bytes.Buffer{})
	if !errors.Is(err, mkvtags.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, readErr) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}
