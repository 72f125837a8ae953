// Package notes turns uploaded PDFs into study notes and translations:
// text extraction, script detection, prompt construction, generation,
// font acquisition and PDF rendering.
package notes

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Service wraps a Generator with the notes and translation prompts. There is
// no retry; a failed call surfaces as an UpstreamError.
type Service struct {
	Generator Generator
	// Timeout bounds each call; zero leaves the call unbounded.
	Timeout time.Duration
	Limiter *rate.Limiter
	// Cache, when set, answers repeated prompts without calling Generator.
	Cache *Cache
	Log   logrus.FieldLogger
}

// NewService limits calls to rps per second (0 = unlimited).
func NewService(gen Generator, timeout time.Duration, rps float64, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Service{
		Generator: gen,
		Timeout:   timeout,
		Limiter:   rate.NewLimiter(limit, 1),
		Log:       log,
	}
}

// Summarize produces structured notes. lang may be empty to keep the
// source language.
func (s *Service) Summarize(ctx context.Context, text string, lang Language) (string, error) {
	return s.generate(ctx, "summarize", NotesPrompt(text, lang))
}

// Translate renders text into target.
func (s *Service) Translate(ctx context.Context, text string, target Language) (string, error) {
	return s.generate(ctx, "translate", TranslatePrompt(text, target))
}

func (s *Service) generate(ctx context.Context, op, prompt string) (string, error) {
	name := s.Generator.Name()
	if s.Cache != nil {
		if out, ok := s.Cache.Get(op, prompt); ok {
			s.Log.WithFields(logrus.Fields{"op": op, "provider": name}).Info("generation served from cache")
			return out, nil
		}
	}
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return "", &UpstreamError{Provider: name, Err: err}
		}
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := s.Generator.Generate(ctx, prompt)
	log := s.Log.WithFields(logrus.Fields{
		"op":       op,
		"provider": name,
		"elapsed":  time.Since(start).Round(time.Millisecond),
	})
	if err != nil {
		log.WithError(err).Error("generation failed")
		return "", &UpstreamError{Provider: name, Err: err}
	}
	log.WithField("chars", len(out)).Info("generation finished")

	out = strings.TrimSpace(out)
	if s.Cache != nil && out != "" {
		if err := s.Cache.Set(op, prompt, out); err != nil {
			log.WithError(err).Warn("could not cache generated text")
		}
	}
	return out, nil
}
