package internal

import (
	"fmt"
	"log/slog"

	"github.com/starford/sowilo/internal/faq"
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/music"
	"github.com/starford/sowilo/internal/service"
	"github.com/starford/sowilo/internal/session"
)

// LoadKnowledgeBase loads the configured knowledge base and builds its matcher.
func LoadKnowledgeBase(cfg *Config) (*faq.Matcher, error) {
	kb, err := faq.Load(cfg.FAQ.KnowledgeBase)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	return faq.NewMatcher(kb,
		faq.WithThreshold(cfg.FAQ.Threshold),
		faq.WithFallback(cfg.FAQ.Fallback),
	), nil
}

// NewService builds the service and its suggestion index from cfg. The
// returned index must be closed by the caller.
func NewService(cfg *Config, logger *slog.Logger, opts ...service.Option) (*service.Service, *index.DB, error) {
	matcher, err := LoadKnowledgeBase(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}
	stats, err := index.Sync(db, matcher.KnowledgeBase().Records(), logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sync index: %w", err)
	}
	logger.Info("Knowledge base indexed",
		slog.Int("records", matcher.KnowledgeBase().Len()),
		slog.Int("upserted", stats.Upserted),
		slog.Int("unchanged", stats.Unchanged),
		slog.Int("removed", stats.Removed))

	base := []service.Option{
		service.WithIndex(db),
		service.WithLogger(logger),
		service.WithSampleRate(cfg.Music.SampleRate),
		service.WithLimits(service.Limits{
			MinLength:     cfg.Music.MinLength,
			MaxLength:     cfg.Music.MaxLength,
			DefaultLength: cfg.Music.DefaultLength,
			DefaultStyle:  cfg.Music.Style(),
		}),
		service.WithDelays(service.Delays{
			ChatReply:  cfg.Delays.ChatReply,
			Generation: cfg.Delays.Generation,
		}),
	}
	svc := service.New(
		matcher,
		music.NewGenerator(),
		session.NewStore(cfg.Sessions.Max, cfg.FAQ.Greeting),
		append(base, opts...)...,
	)
	return svc, db, nil
}
