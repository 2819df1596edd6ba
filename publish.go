package blogster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eringen/blogster/markdown"
	"github.com/eringen/blogster/publisher"
)

// ErrNotReady is returned when publishing a post without a title or body.
var ErrNotReady = errors.New("post needs a title and content before publishing")

// PublishOutcome describes one publish of a post.
type PublishOutcome struct {
	Post     Post
	EventID  string
	Accepted []string
	Results  []publisher.Result
}

const summaryLength = 200

// Article converts a post into the long-form event content. A post without
// a summary is summarized by its first paragraph.
func Article(p Post) publisher.Article {
	summary := p.Summary
	if summary == "" {
		summary = markdown.Excerpt(p.Content, summaryLength)
	}
	return publisher.Article{
		Identifier:  p.Identifier(),
		Title:       p.Title,
		Summary:     summary,
		Content:     p.Content,
		Hashtags:    p.Tags,
		Image:       p.Image,
		PublishedAt: p.CreatedAt,
	}
}

// PublishPost signs the post as a kind-30023 event and sends it to the
// active relays. The outcome per relay is recorded in the library. On
// success the post is marked Published with the accepting relays; when no
// relay accepts it the post is marked Failed.
func (a *App) PublishPost(ctx context.Context, id string) (PublishOutcome, error) {
	if !a.actionLimiter.Allow(publishKey(id)) {
		return PublishOutcome{}, ErrRateLimited
	}
	p, err := a.Store.GetPost(id)
	if err != nil {
		return PublishOutcome{}, err
	}
	if !p.ReadyToPublish() {
		return PublishOutcome{Post: p}, ErrNotReady
	}
	client, err := a.Publisher()
	if err != nil {
		return PublishOutcome{Post: p}, err
	}
	cfg := a.Settings()
	relays := cfg.Relays.Active()

	ctx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout)
	defer cancel()

	log := a.Log.With("post", p.ID, "title", p.Title)
	ev, results, pubErr := client.PublishArticle(ctx, Article(p), relays)
	if ev.ID != "" && len(results) > 0 {
		if err := a.Library.RecordPublish(p.ID, ev.ID, results); err != nil {
			log.Warnw("could not record publish history", "err", err)
		}
	}

	out := PublishOutcome{EventID: ev.ID, Results: results}
	if pubErr != nil {
		p.SetFailed()
		if err := a.savePost(&p); err != nil {
			log.Errorw("could not save failed status", "err", err)
		}
		out.Post = p
		log.Warnw("publish failed", "err", pubErr)
		return out, fmt.Errorf("publish %q: %w", p.Title, pubErr)
	}

	out.Accepted = publisher.Accepted(results)
	p.SetPublished(ev.ID, out.Accepted)
	if err := a.savePost(&p); err != nil {
		return out, err
	}
	out.Post = p
	log.Infow("published", "event", ev.ID, "relays", strings.Join(out.Accepted, ","))
	return out, nil
}

func publishKey(id string) string { return "publish:" + id }

// PostAddress returns the naddr of a published post.
func (a *App) PostAddress(p Post) (string, error) {
	creds, err := a.Credentials.Require()
	if err != nil {
		return "", err
	}
	relays := p.PublishedRelays
	if len(relays) == 0 {
		relays = a.Settings().Relays.Active()
	}
	return publisher.Naddr(creds.PublicKey, p.Identifier(), relays)
}

// UpdateProfile stores the profile fields of creds alongside the existing
// keys and publishes them as kind-0 metadata.
func (a *App) UpdateProfile(ctx context.Context, profile Credentials) ([]string, error) {
	if profile.Picture != "" && markdown.SafeURL(profile.Picture) == "" {
		return nil, ErrInvalidImageURL
	}
	creds, err := a.Credentials.Require()
	if err != nil {
		return nil, err
	}
	creds.DisplayName = strings.TrimSpace(profile.DisplayName)
	creds.About = strings.TrimSpace(profile.About)
	creds.Picture = strings.TrimSpace(profile.Picture)
	creds.NIP05 = strings.TrimSpace(profile.NIP05)
	if err := a.Credentials.Save(creds); err != nil {
		return nil, err
	}

	client, err := a.publisherFor(creds)
	if err != nil {
		return nil, err
	}
	cfg := a.Settings()
	ctx, cancel := context.WithTimeout(ctx, cfg.PublishTimeout)
	defer cancel()
	ev, results, err := client.UpdateProfile(ctx, creds.Profile(), cfg.Relays.Active())
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	a.Log.Infow("profile updated", "event", ev.ID)
	return publisher.Accepted(results), nil
}
