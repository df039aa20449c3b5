package site

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/zenblog/pkg/content"
	"github.com/dmitrymomot/zenblog/pkg/locale"
	"github.com/dmitrymomot/zenblog/pkg/logger"
	"github.com/dmitrymomot/zenblog/pkg/subscription"
)

// PageMeta is shared by every page.
type PageMeta struct {
	Locale     locale.Locale      `json:"locale"`
	Dir        string             `json:"dir"`
	Info       locale.Info        `json:"info"`
	Alternates []locale.Alternate `json:"alternates"`
	Viewer     ViewerView         `json:"viewer"`
}

func (s *Server) meta(r *http.Request, l locale.Locale, v ViewerView) PageMeta {
	return PageMeta{
		Locale:     l,
		Dir:        locale.Direction(l),
		Info:       l.Info(),
		Alternates: locale.PrefixedAlternates(r.URL.Path),
		Viewer:     v,
	}
}

// PostSummary is a post as listed on the home page.
type PostSummary struct {
	Slug        string                   `json:"slug"`
	URL         string                   `json:"url"`
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	Date        time.Time                `json:"date"`
	DateLabel   string                   `json:"dateLabel"`
	Published   string                   `json:"published"`
	ReadingTime string                   `json:"readingTime"`
	Tags        []string                 `json:"tags"`
	Tier        subscription.ContentTier `json:"tier"`
	Locked      bool                     `json:"locked"`
}

func (s *Server) summary(p content.Post, l locale.Locale, u *subscription.User) PostSummary {
	lang := l.String()
	return PostSummary{
		Slug:        p.Slug,
		URL:         locale.PrefixedPath("/blog/"+p.Slug, l),
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		DateLabel:   locale.FormatDate(p.Date, l),
		Published:   s.translator.RelativeTime(lang, p.Date, s.now()),
		ReadingTime: s.translator.ReadingTime(lang, content.ReadingMinutes(p.Content)),
		Tags:        p.Tags,
		Tier:        p.Tier,
		Locked:      !s.policy.ContentGate(u, p.Tier).Granted,
	}
}

// HomeView is the landing page.
type HomeView struct {
	PageMeta
	Title       string        `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Description string        `json:"description"`
	Author      string        `json:"author"`
	Heading     string        `json:"heading"`
	Posts       []PostSummary `json:"posts"`
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	l := locale.FromContext(r.Context())
	lang := l.String()
	store, ctx := s.viewer(r)

	posts, err := s.posts.AllPosts(ctx)
	if err != nil {
		s.serverError(w, r, l, err)
		return
	}

	u := store.User()
	view := HomeView{
		PageMeta:    s.meta(r, l, s.viewerView(store)),
		Title:       s.translator.T(lang, "hero.title"),
		Subtitle:    s.translator.T(lang, "hero.subtitle"),
		Description: s.translator.T(lang, "hero.description"),
		Author:      s.translator.T(lang, "hero.author"),
		Heading:     s.translator.T(lang, "blog.recentWritings"),
		Posts:       make([]PostSummary, 0, len(posts)),
	}
	for _, p := range posts {
		view.Posts = append(view.Posts, s.summary(p, l, u))
	}
	writeJSON(w, http.StatusOK, view)
}

// GateView is a content gate with its message translated.
type GateView struct {
	subscription.GateDecision
	Message    string `json:"message,omitempty"`
	PriceLabel string `json:"priceLabel,omitempty"`
}

func (s *Server) gateView(d subscription.GateDecision, l locale.Locale) GateView {
	v := GateView{GateDecision: d}
	if d.Granted {
		return v
	}
	if d.MessageKey != "" {
		v.Message = s.translator.T(l.String(), d.MessageKey)
	}
	if d.RequiredTier != "" {
		v.PriceLabel = locale.FormatCurrency(d.Price.Major(), l, d.Price.Currency)
	}
	return v
}

// PostView is a single article. Body holds the full post when the gate
// is granted and only the preview lines otherwise.
type PostView struct {
	PageMeta
	PostSummary
	Body      template.HTML `json:"body"`
	Truncated bool          `json:"truncated"`
	Gate      GateView      `json:"gate"`
	Downloads GateView      `json:"downloads"`
	Back      string        `json:"back"`
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	l := locale.FromContext(r.Context())
	slug := chi.URLParam(r, "slug")
	store, ctx := s.viewer(r)

	p, err := s.posts.PostBySlug(ctx, slug)
	if errors.Is(err, content.ErrPostNotFound) || errors.Is(err, content.ErrInvalidSlug) {
		s.notFound(w, r, l)
		return
	}
	if err != nil {
		s.serverError(w, r, l, err)
		return
	}

	u := store.User()
	gate := s.policy.ContentGate(u, p.Tier)
	s.metrics.RecordAccess(gate.Feature.String(), gate.Granted)

	source := p.Content
	if !gate.Granted {
		source = content.Excerpt(p.Content, gate.PreviewLines)
		s.logger.InfoContext(ctx, "post gated",
			logger.Slug(p.Slug),
			logger.Tier(s.policy.EffectiveTier(u).String()),
			logger.Feature(gate.Feature.String()))
	}
	body, err := s.renderer.Render(ctx, source)
	if err != nil {
		s.serverError(w, r, l, err)
		return
	}

	downloads := s.policy.DownloadGate(u)
	writeJSON(w, http.StatusOK, PostView{
		PageMeta:    s.meta(r, l, s.viewerView(store)),
		PostSummary: s.summary(p, l, u),
		Body:        body,
		Truncated:   !gate.Granted,
		Gate:        s.gateView(gate, l),
		Downloads:   s.gateView(downloads, l),
		Back:        s.translator.T(l.String(), "blog.back"),
	})
}

// PlanView is a tier on the pricing page.
type PlanView struct {
	ID       subscription.TierID `json:"id"`
	Name     string              `json:"name"`
	Price    string              `json:"price"`
	Amount   subscription.Money  `json:"amount"`
	Interval string              `json:"interval"`
	Features []string            `json:"features"`
	Popular  bool                `json:"popular"`
	Current  bool                `json:"current"`
}

// PricingView is the plan picker.
type PricingView struct {
	PageMeta
	Heading  string     `json:"heading"`
	Subtitle string     `json:"subtitle"`
	Plans    []PlanView `json:"plans"`
}

func (s *Server) pricing(w http.ResponseWriter, r *http.Request) {
	l := locale.FromContext(r.Context())
	lang := l.String()
	store, _ := s.viewer(r)
	current := s.policy.EffectiveTier(store.User())

	tiers := store.Tiers()
	plans := make([]PlanView, 0, len(tiers))
	for _, t := range tiers {
		features := make([]string, 0, len(t.Features))
		for _, f := range t.Features {
			features = append(features, f.String())
		}
		price := s.translator.T(lang, "subscription.freeForever")
		if t.Price.Amount > 0 {
			price = locale.FormatCurrency(t.Price.Major(), l, t.Price.Currency)
		}
		plans = append(plans, PlanView{
			ID:       t.ID,
			Name:     s.translator.T(lang, "subscription."+t.ID.String()+"Plan"),
			Price:    price,
			Amount:   t.Price,
			Interval: string(t.Interval),
			Features: features,
			Popular:  t.Popular,
			Current:  t.ID == current,
		})
	}

	writeJSON(w, http.StatusOK, PricingView{
		PageMeta: s.meta(r, l, s.viewerView(store)),
		Heading:  s.translator.T(lang, "subscription.choosePlan"),
		Subtitle: s.translator.T(lang, "subscription.unlockPremium"),
		Plans:    plans,
	})
}
