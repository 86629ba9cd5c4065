package mkvtags

import (
	"encoding/xml"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind is the document role selected by the root element.
type Kind int

const (
	KindUnknown Kind = iota
	KindMovie
	KindEpisode
)

func (k Kind) String() string {
	switch k {
	case KindMovie:
		return "movie"
	case KindEpisode:
		return "episode"
	default:
		return "unknown"
	}
}

// Names of the tags written when the root element closes.
const (
	TagIMDB               = "IMDB"
	TagDescription        = "DESCRIPTION"
	TagSummary            = "SUMMARY"
	TagCollectionName     = "Collection Name"
	TagCollectionOverview = "Collection Overview"
	TagDirector           = "Director"
	TagWriter             = "WRITER"
	TagActor              = "Actor"
)

// directTags lists NFO elements copied into a tag as soon as they close.
var directTags = map[string]string{
	"genre":         "GENRE",
	"title":         "TITLE",
	"showtitle":     "SUBTITLE",
	"season":        "SEASON",
	"episode":       "EPISODE",
	"originaltitle": "ORIGINALTITLE",
	"year":          "YEAR",
	"tagline":       "TAGLINE",
	"runtime":       "RUNTIME",
	"mpaa":          "MPAA",
	"certification": "CERTIFICATION",
	"tmdbid":        "TMDB",
	"country":       "COUNTRY",
	"premiered":     "PREMIERED",
	"studio":        "STUDIO",
}

// Simple is one Name/String pair inside the Matroska <Tag> element.
type Simple struct {
	Name   string `xml:"Name"`
	String string `xml:"String"`
}

// deferred holds a scalar captured mid-stream and written at root close.
type deferred struct {
	value string
	set   bool
}

func (d *deferred) store(value string) {
	d.value = value
	d.set = true
}

// translation is the state of one pass over one document.
type translation struct {
	kind  Kind
	depth int

	// open holds one text buffer per open element, innermost last. Character
	// data belongs to the innermost element only.
	open []*frame

	insideActor     bool
	insideActorName bool
	insideSet       bool
	insideUniqueID  bool
	uniqueIDType    string
	actorName       string

	pendingIMDB deferred

	plot               deferred
	outline            deferred
	collectionName     deferred
	collectionOverview deferred

	directors []string
	writers   []string
	actors    []string
}

// frame is the text collected directly inside one open element.
type frame struct {
	name string
	text strings.Builder
}

func (t *translation) push(el xml.StartElement) {
	t.depth++
	name := el.Name.Local
	if name == "br" && len(t.open) > 0 {
		t.open[len(t.open)-1].text.WriteByte('\n')
	}
	t.open = append(t.open, &frame{name: name})

	switch name {
	case "actor":
		t.insideActor = true
	case "name":
		if t.insideActor {
			t.insideActorName = true
		}
	case "set":
		t.insideSet = true
	case "uniqueid":
		t.insideUniqueID = true
		t.uniqueIDType = ""
		for _, attr := range el.Attr {
			if attr.Name.Local == "type" {
				t.uniqueIDType = attr.Value
			}
		}
	case "episodedetails":
		t.kind = KindEpisode
	case "movie":
		t.kind = KindMovie
	}
}

func (t *translation) characters(data xml.CharData) {
	if len(t.open) == 0 {
		return
	}
	t.open[len(t.open)-1].text.Write(data)
}

// pop handles an end tag and returns the entries to write now, in order.
func (t *translation) pop(el xml.EndElement) []Simple {
	name := el.Name.Local
	var out []Simple

	if n := len(t.open); n > 0 {
		top := t.open[n-1]
		t.open = t.open[:n-1]
		if entry, ok := t.dispatch(top.name, cleanValue(top.text.String())); ok {
			out = append(out, entry)
		}
	}

	switch name {
	case "actor":
		if t.actorName != "" {
			t.actors = append(t.actors, t.actorName)
			t.actorName = ""
		}
		t.insideActor = false
		t.insideActorName = false
	case "name":
		if t.insideActor {
			t.insideActorName = false
		}
	case "set":
		t.insideSet = false
	case "uniqueid":
		t.insideUniqueID = false
		t.uniqueIDType = ""
	case "movie", "episodedetails":
		if t.depth == 1 {
			out = append(out, t.flush()...)
		}
	}

	t.depth--
	return out
}

func cleanValue(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// dispatch routes the text of a closed leaf element. It reports an entry
// only for values that are written immediately.
func (t *translation) dispatch(name, value string) (Simple, bool) {
	if value == "" {
		return Simple{}, false
	}
	switch name {
	case "name":
		switch {
		case t.insideActor && t.insideActorName:
			t.actorName = value
		case t.insideSet:
			t.collectionName.store(value)
		}
	case "uniqueid":
		if t.insideUniqueID && t.uniqueIDType == "imdb" {
			t.pendingIMDB.store(value)
		}
	case "id":
		if t.kind == KindMovie {
			return Simple{Name: TagIMDB, String: value}, true
		}
	case "director":
		t.directors = append(t.directors, value)
	case "credits":
		t.writers = append(t.writers, value)
	case "plot":
		t.plot.store(value)
	case "outline":
		t.outline.store(value)
	case "overview":
		t.collectionOverview.store(value)
	default:
		if tag, ok := directTags[name]; ok {
			return Simple{Name: tag, String: value}, true
		}
	}
	return Simple{}, false
}

// flush emits the collected fields and clears them.
func (t *translation) flush() []Simple {
	out := make([]Simple, 0, 8)
	if t.pendingIMDB.set {
		out = append(out, Simple{Name: TagIMDB, String: t.pendingIMDB.value})
	}
	for _, field := range []struct {
		name  string
		value deferred
	}{
		{TagDescription, t.plot},
		{TagSummary, t.outline},
		{TagCollectionName, t.collectionName},
		{TagCollectionOverview, t.collectionOverview},
	} {
		if field.value.set {
			out = append(out, Simple{Name: field.name, String: field.value.value})
		}
	}
	for _, list := range []struct {
		name   string
		values []string
	}{
		{TagDirector, t.directors},
		{TagWriter, t.writers},
		{TagActor, t.actors},
	} {
		if len(list.values) > 0 {
			out = append(out, Simple{Name: list.name, String: strings.Join(list.values, ",")})
		}
	}

	t.pendingIMDB = deferred{}
	t.plot = deferred{}
	t.outline = deferred{}
	t.collectionName = deferred{}
	t.collectionOverview = deferred{}
	t.directors = nil
	t.writers = nil
	t.actors = nil
	return out
}
