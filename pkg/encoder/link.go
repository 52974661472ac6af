package encoder

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Link relation names understood by JSON:API documents.
const (
	LinkSelf        = "self"
	LinkRelated     = "related"
	LinkDescribedBy = "describedby"
	LinkFirst       = "first"
	LinkPrev        = "prev"
	LinkNext        = "next"
	LinkLast        = "last"
)

var linkOrder = map[string]int{
	LinkSelf:        0,
	LinkRelated:     1,
	LinkDescribedBy: 2,
	LinkFirst:       3,
	LinkPrev:        4,
	LinkNext:        5,
	LinkLast:        6,
}

// Link is a document or resource link. Href is treated as a sub-URL and
// prefixed with the encoder's URL prefix unless Absolute is set.
type Link struct {
	Href     string
	Meta     any
	Absolute bool
}

// NewLink returns a sub-URL link.
func NewLink(href string) Link {
	return Link{Href: href}
}

// NewLinkWithMeta returns a sub-URL link carrying meta.
func NewLinkWithMeta(href string, meta any) Link {
	return Link{Href: href, Meta: meta}
}

// NamedLink pairs a relation name with its link.
type NamedLink struct {
	Name string
	Link Link
}

// Links is an ordered set of named links.
type Links []NamedLink

// LinksFromMap orders m by the JSON:API relation vocabulary (self, related,
// describedby, first, prev, next, last) followed by any other names sorted.
func LinksFromMap(m map[string]Link) Links {
	if len(m) == 0 {
		return nil
	}
	out := make(Links, 0, len(m))
	for name, link := range m {
		out = append(out, NamedLink{Name: name, Link: link})
	}
	out.Sort()
	return out
}

// Sort orders the links by relation vocabulary, then by name.
func (l Links) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		ri, iKnown := linkOrder[l[i].Name]
		rj, jKnown := linkOrder[l[j].Name]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return l[i].Name < l[j].Name
		}
	})
}

// Get returns the link registered under name.
func (l Links) Get(name string) (Link, bool) {
	for _, entry := range l {
		if entry.Name == name {
			return entry.Link, true
		}
	}
	return Link{}, false
}

// Set replaces or appends a link and returns the updated set.
func (l Links) Set(name string, link Link) Links {
	for i := range l {
		if l[i].Name == name {
			l[i].Link = link
			return l
		}
	}
	return append(l, NamedLink{Name: name, Link: link})
}

// linkObject is a rendered, ordered "links" member.
type linkObject []renderedLink

type renderedLink struct {
	name string
	href string
	meta any
}

func (e *Encoder) renderLinks(links Links) linkObject {
	if len(links) == 0 {
		return nil
	}
	out := make(linkObject, 0, len(links))
	for _, entry := range links {
		out = append(out, renderedLink{
			name: entry.Name,
			href: e.href(entry.Link),
			meta: entry.Link.Meta,
		})
	}
	return out
}

func (e *Encoder) href(link Link) string {
	if link.Absolute || e.urlPrefix == "" {
		return link.Href
	}
	return e.urlPrefix + link.Href
}

// MarshalJSON writes the links in order. Links without meta collapse to their
// href string.
func (o linkObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, link := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(link.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value []byte
		if link.meta == nil {
			value, err = marshal(link.href)
		} else {
			value, err = marshal(struct {
				Href string `json:"href"`
				Meta any    `json:"meta"`
			}{Href: link.href, Meta: link.meta})
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without HTML escaping; escaping is applied once over the
// whole document according to the encode flags.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func joinURL(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(strings.Trim(part, "/"))
	}
	return b.String()
}
