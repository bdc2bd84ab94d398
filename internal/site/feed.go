package site

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"github.com/agentstation/continuity/pkg/errors"
)

// titleLength caps feed entry titles.
const titleLength = 80

func (r *Renderer) renderFeed(p page) ([]byte, error) {
	link := r.cfg.BaseURL + "/"

	feed := &feeds.Feed{
		Title:       p.Title,
		Link:        &feeds.Link{Href: link},
		Description: p.Subtitle,
		Author:      &feeds.Author{Name: p.Title},
		Id:          link,
	}

	for _, e := range p.Entries {
		created := time.Time{}
		if ts, ok := e.Time(); ok {
			created = ts.Time
		}
		if created.After(feed.Updated) {
			feed.Updated = created
		}

		title := e.Label
		if summary := e.Title(titleLength); summary != "" {
			title = fmt.Sprintf("%s: %s", e.Label, summary)
		}

		item := &feeds.Item{
			Title:   title,
			Link:    &feeds.Link{Href: link + "#" + e.Anchor},
			Id:      "urn:continuity:" + e.Anchor,
			Content: e.Content,
			Created: created,
		}
		if e.HTML != "" {
			item.Content = string(e.HTML)
		}
		feed.Items = append(feed.Items, item)
	}

	atom, err := feed.ToAtom()
	if err != nil {
		return nil, errors.WrapParse("atom", FeedFile, err)
	}
	return []byte(atom), nil
}
