// Package feed genera el feed Atom público con los testimonios aprobados de una organización,
// pensado para widgets embebidos en el sitio de la organización.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
)

var _ ports.FeedRenderer = (*AtomFeed)(nil)

const (
	nsAtom        = "http://www.w3.org/2005/Atom"
	nsTestimonial = "urn:testimonios:1"
)

// AtomFeed implementa ports.FeedRenderer con etree.
type AtomFeed struct {
	now func() time.Time
}

// NewAtomFeed construye el generador.
func NewAtomFeed() *AtomFeed {
	return &AtomFeed{now: time.Now}
}

// RenderFeed arma el documento. Solo usa campos de la proyección pública.
func (f *AtomFeed) RenderFeed(ctx context.Context, org ports.FeedOrganization, items []dto.TestimonialResponse) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	feed := doc.CreateElement("feed")
	feed.CreateAttr("xmlns", nsAtom)
	feed.CreateAttr("xmlns:t", nsTestimonial)

	feed.CreateElement("id").SetText("urn:uuid:" + org.ID)
	feed.CreateElement("title").SetText("Testimonios de " + org.Name)
	feed.CreateElement("updated").SetText(rfc3339(lastUpdate(items, f.now())))
	if org.Domain != "" {
		link := feed.CreateElement("link")
		link.CreateAttr("rel", "alternate")
		link.CreateAttr("href", "https://"+org.Domain)
	}

	for _, it := range items {
		writeEntry(feed, it)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("feed: serializar: %w", err)
	}
	return out, nil
}

func writeEntry(feed *etree.Element, it dto.TestimonialResponse) {
	author := authorName(it)

	entry := feed.CreateElement("entry")
	entry.CreateElement("id").SetText("urn:uuid:" + it.ID)
	entry.CreateElement("title").SetText(fmt.Sprintf("%s (%s/5)", author, it.Rating))
	entry.CreateElement("published").SetText(rfc3339(it.CreatedAt))
	entry.CreateElement("updated").SetText(rfc3339(it.UpdatedAt))
	entry.CreateElement("author").CreateElement("name").SetText(author)

	content := entry.CreateElement("content")
	content.CreateAttr("type", "text")
	content.SetText(it.Comment)

	entry.CreateElement("t:ranking").SetText(it.Rating)
	if it.CategoryID != nil {
		cat := entry.CreateElement("category")
		cat.CreateAttr("term", *it.CategoryID)
	}
	if it.Link != "" {
		l := entry.CreateElement("link")
		l.CreateAttr("rel", "related")
		l.CreateAttr("href", it.Link)
	}
	for _, u := range it.Files {
		l := entry.CreateElement("link")
		l.CreateAttr("rel", "enclosure")
		l.CreateAttr("href", u)
	}
}

func authorName(it dto.TestimonialResponse) string {
	if it.AnonymousName != "" {
		return it.AnonymousName
	}
	return "Usuario registrado"
}

func lastUpdate(items []dto.TestimonialResponse, fallback time.Time) time.Time {
	var last time.Time
	for _, it := range items {
		if it.UpdatedAt.After(last) {
			last = it.UpdatedAt
		}
	}
	if last.IsZero() {
		return fallback
	}
	return last
}

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
