package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"social_media_agent/generator"
	"social_media_agent/present"
)

type formValues struct {
	Topic        string
	Platform     generator.Platform
	Tone         generator.Tone
	CaptionCount int
	Model        string
	Temperature  float64
}

type failureView struct {
	Message string
	Detail  string
}

type historyEntry struct {
	Index  int
	Result generator.Result
}

type page struct {
	Form        formValues
	Platforms   []generator.Platform
	Tones       []generator.Tone
	Models      []string
	MinCaptions int
	MaxCaptions int

	Result  *generator.Result
	Notice  string
	Failure *failureView
	History []historyEntry
	Footer  string
}

func (s *Server) defaultForm() formValues {
	f := formValues{
		Topic:        generator.DefaultTopic,
		Platform:     generator.PlatformInstagram,
		Tone:         generator.ToneCasual,
		CaptionCount: generator.DefaultCaptions,
		Temperature:  generator.DefaultTemperature,
	}
	if models := s.agent.Models(); len(models) > 0 {
		f.Model = models[0]
	}
	return f
}

func (s *Server) newPage(ctx context.Context, sid string, form formValues) page {
	p := page{
		Form:        form,
		Platforms:   generator.Platforms,
		Tones:       generator.Tones,
		Models:      s.agent.Models(),
		MinCaptions: generator.MinCaptions,
		MaxCaptions: generator.MaxCaptions,
		Footer:      s.opts.Footer,
	}
	recent, err := s.store.Recent(ctx, sid, s.opts.Shown)
	if err != nil {
		s.logger.WithError(err).Warn("load history")
	}
	for i, r := range recent {
		p.History = append(p.History, historyEntry{Index: i + 1, Result: r})
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, status int, p page) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", p); err != nil {
		s.logger.WithError(err).Error("render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	s.render(w, http.StatusOK, s.newPage(r.Context(), sid, s.defaultForm()))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	req, perr := parseForm(r)
	form := formValues{
		Topic:        req.Topic,
		Platform:     req.Platform,
		Tone:         req.Tone,
		CaptionCount: req.CaptionCount,
		Model:        req.Model,
		Temperature:  req.Temperature,
	}

	var (
		res generator.Result
		err = perr
	)
	if err == nil {
		res, err = s.run(r.Context(), sid, req)
	} else {
		s.metrics.IncGeneration(outcomeInvalid)
	}

	p := s.newPage(r.Context(), sid, form)
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		var ce *generator.CompletionError
		if errors.As(err, &ce) {
			p.Failure = &failureView{
				Message: "Error from completion API: " + ce.Err.Error(),
				Detail:  completionDetail(ce),
			}
		} else {
			p.Notice = err.Error()
		}
	} else {
		p.Result = &res
	}
	s.render(w, status, p)
}

// parseForm reads the submitted form. Numeric fields that do not parse are
// reported as validation errors, keeping the rest of the values for
// re-rendering.
func parseForm(r *http.Request) (generator.Request, error) {
	if err := r.ParseForm(); err != nil {
		return generator.Request{}, &generator.ValidationError{Field: "form", Message: "Malformed form submission."}
	}
	req := generator.Request{
		Topic:    r.PostForm.Get("topic"),
		Platform: generator.Platform(r.PostForm.Get("platform")),
		Tone:     generator.Tone(r.PostForm.Get("tone")),
		Model:    r.PostForm.Get("model"),
	}
	n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("caption_count")))
	if err != nil {
		return req, &generator.ValidationError{Field: "caption_count", Message: "Number of captions must be a whole number."}
	}
	req.CaptionCount = n
	t, err := strconv.ParseFloat(strings.TrimSpace(r.PostForm.Get("temperature")), 64)
	if err != nil {
		return req, &generator.ValidationError{Field: "temperature", Message: "Temperature must be a number."}
	}
	req.Temperature = t
	return req, nil
}

// run executes one generation for sid and records it in history. A
// history failure is logged and does not fail the generation.
func (s *Server) run(ctx context.Context, sid string, req generator.Request) (generator.Result, error) {
	release, err := s.acquire(sid)
	if err != nil {
		s.metrics.IncGeneration(outcomeBusy)
		return generator.Result{}, err
	}
	defer release()

	log := s.logger.WithFields(logrus.Fields{
		"session":  sid,
		"model":    req.Model,
		"platform": req.Platform,
	})

	start := time.Now()
	res, err := s.agent.Generate(ctx, req)
	var ve *generator.ValidationError
	switch {
	case errors.As(err, &ve):
		s.metrics.IncGeneration(outcomeInvalid)
		return generator.Result{}, err
	case err != nil:
		s.metrics.ObserveDuration(time.Since(start))
		s.metrics.IncGeneration(outcomeFailed)
		log.WithError(err).Error("generation failed")
		return generator.Result{}, err
	}
	s.metrics.ObserveDuration(time.Since(start))
	s.metrics.IncGeneration(outcomeSuccess)
	s.metrics.IncParse(string(res.Method))

	if err := s.store.Append(ctx, sid, res); err != nil {
		log.WithError(err).Warn("append history")
	}
	log.WithFields(logrus.Fields{
		"result": res.ID,
		"method": res.Method,
	}).Info("generation done")
	return res, nil
}

func statusFor(err error) int {
	var (
		ve *generator.ValidationError
		ce *generator.CompletionError
	)
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ce):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func completionDetail(ce *generator.CompletionError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "kind: %s\n", ce.Kind)
	fmt.Fprintf(&b, "model: %s\n", ce.Model)
	if ce.StatusCode != 0 {
		fmt.Fprintf(&b, "status: %d\n", ce.StatusCode)
	}
	fmt.Fprintf(&b, "error: %+v", ce.Err)
	return b.String()
}

func (s *Server) lookupResult(w http.ResponseWriter, r *http.Request) (generator.Result, bool) {
	sid, ok := existingSession(r)
	if !ok {
		http.NotFound(w, r)
		return generator.Result{}, false
	}
	res, found, err := s.store.Get(r.Context(), sid, chi.URLParam(r, "id"))
	if err != nil {
		s.logger.WithError(err).Error("load result")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return generator.Result{}, false
	}
	if !found {
		http.NotFound(w, r)
		return generator.Result{}, false
	}
	return res, true
}

func (s *Server) handleCaptionsCSV(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookupResult(w, r)
	if !ok {
		return
	}
	data, err := present.CaptionsCSV(res.Captions)
	if err != nil {
		s.logger.WithError(err).Error("build captions csv")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	serveFile(w, "text/csv; charset=utf-8", present.CaptionsFilename, data)
}

// handleOutputTXT serves the raw reply of one result. History links pass
// ?n= so the file is named after its position at render time.
func (s *Server) handleOutputTXT(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookupResult(w, r)
	if !ok {
		return
	}
	name := present.OutputFilename
	if n, err := strconv.Atoi(r.URL.Query().Get("n")); err == nil && n >= 1 && n <= s.opts.Shown {
		name = present.RawFilename(n)
	}
	serveFile(w, "text/plain; charset=utf-8", name, []byte(res.Raw))
}

func (s *Server) handleHistoryRaw(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > s.opts.Shown {
		http.NotFound(w, r)
		return
	}
	sid, ok := existingSession(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	recent, err := s.store.Recent(r.Context(), sid, s.opts.Shown)
	if err != nil {
		s.logger.WithError(err).Error("load history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if n > len(recent) {
		http.NotFound(w, r)
		return
	}
	serveFile(w, "text/plain; charset=utf-8", present.RawFilename(n), []byte(recent[n-1].Raw))
}

func serveFile(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
