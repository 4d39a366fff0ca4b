package cli

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/model"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var pageFiles embed.FS

const (
	reloadDebounce  = 100 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

func newServeCommand(a *app) *cobra.Command {
	var (
		watch      bool
		stylesheet string
	)
	cmd := &cobra.Command{
		Use:   "serve <definition file or directory>",
		Short: "Serve form definitions over HTTP",
		Long: `Serve every definition at /forms/<id>. Forms post back to themselves,
invalid submissions re-render with their errors and valid ones are logged.

With --watch, definition files are reloaded when they change. A reload
that fails keeps the previous forms.`,
		Example: `  formkit serve forms/
  formkit serve forms/ --addr 127.0.0.1:9000 --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := newDefinitionSource(args[0])
			if err != nil {
				return err
			}
			srv, err := newServer(a, src.load, stylesheet)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if watch {
				if err := srv.watch(ctx, src); err != nil {
					return err
				}
			}
			return listenAndServe(ctx, a.v.GetString("serve.addr"), srv.routes(), a.logger)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload definitions when files change")
	cmd.Flags().StringVar(&stylesheet, "stylesheet", "", "stylesheet URL linked from every page")
	_ = a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// definitionSource loads a single file or every definition under a
// directory.
type definitionSource struct {
	root string
	file string
}

func newDefinitionSource(target string) (definitionSource, error) {
	info, err := os.Stat(target)
	if err != nil {
		return definitionSource{}, fmt.Errorf("cli: %w", err)
	}
	if info.IsDir() {
		return definitionSource{root: target}, nil
	}
	return definitionSource{root: filepath.Dir(target), file: filepath.Clean(target)}, nil
}

func (s definitionSource) load() (*loader.Store, error) {
	if s.file == "" {
		return loader.LoadFS(os.DirFS(s.root))
	}
	def, err := loader.LoadFile(s.file)
	if err != nil {
		return nil, err
	}
	return loader.NewStore(def)
}

func (s definitionSource) matches(path string) bool {
	if s.file != "" {
		return filepath.Clean(path) == s.file
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

type server struct {
	app        *app
	logger     logrus.FieldLogger
	load       func() (*loader.Store, error)
	pages      template.TemplateRenderer
	stylesheet string

	mu      sync.RWMutex
	forms   map[string]*form.Form
	entries []map[string]any
}

func newServer(a *app, load func() (*loader.Store, error), stylesheet string) (*server, error) {
	sub, err := fs.Sub(pageFiles, "templates")
	if err != nil {
		return nil, err
	}
	pages, err := gotemplate.New(gotemplate.WithFS(sub))
	if err != nil {
		return nil, fmt.Errorf("cli: page templates: %w", err)
	}
	s := &server{
		app:        a,
		logger:     a.logger,
		load:       load,
		pages:      pages,
		stylesheet: stylesheet,
	}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload builds every form before swapping them in, so a broken file
// leaves the served forms untouched.
func (s *server) reload() error {
	store, err := s.load()
	if err != nil {
		return err
	}

	forms := make(map[string]*form.Form)
	entries := make([]map[string]any, 0, len(store.IDs()))
	for _, id := range store.IDs() {
		def, _ := store.Definition(id)
		opts, err := s.app.formOptions(def)
		if err != nil {
			return fmt.Errorf("cli: form %q: %w", id, err)
		}
		href := "/forms/" + id
		opts = append(opts, form.WithAction(href, "post"))

		f, err := form.New(def.Fields, s.submitHandler(id), opts...)
		if err != nil {
			return fmt.Errorf("cli: form %q: %w", id, err)
		}
		title := def.Title
		if title == "" {
			title = model.HumanizeName(id)
		}
		forms[id] = f
		entries = append(entries, map[string]any{"id": id, "title": title, "href": href})
	}

	s.mu.Lock()
	s.forms, s.entries = forms, entries
	s.mu.Unlock()
	s.logger.WithField("forms", len(forms)).Info("formkit: forms loaded")
	return nil
}

func (s *server) submitHandler(id string) form.SubmitHandler {
	return func(_ context.Context, data map[string]any) error {
		s.logger.WithFields(logrus.Fields{"form": id, "values": data}).Info("formkit: submission received")
		return nil
	}
}

func (s *server) lookup(id string) (*form.Form, string, []map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[id]
	if !ok {
		return nil, "", s.entries, false
	}
	var title string
	for _, entry := range s.entries {
		if entry["id"] == id {
			title, _ = entry["title"].(string)
		}
	}
	return f, title, s.entries, true
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/forms/{id}", s.handleForm)
	return mux
}

func (s *server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	entries := s.entries
	s.mu.RUnlock()
	s.writePage(w, http.StatusOK, map[string]any{"title": "Forms", "forms": entries})
}

// handleForm lets the form handle the request and wraps HTML responses
// in the page layout. Error responses pass through unchanged.
func (s *server) handleForm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, title, entries, ok := s.lookup(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	rec := &responseBuffer{header: make(http.Header)}
	f.ServeHTTP(rec, r)
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	if r.Method == http.MethodHead || !strings.HasPrefix(rec.header.Get("Content-Type"), "text/html") {
		for key, values := range rec.header {
			w.Header()[key] = values
		}
		w.WriteHeader(status)
		_, _ = w.Write(rec.body.Bytes())
		return
	}

	s.writePage(w, status, map[string]any{
		"title":   title,
		"current": id,
		"forms":   entries,
		"form":    rec.body.String(),
	})
}

func (s *server) writePage(w http.ResponseWriter, status int, data map[string]any) {
	data["stylesheet"] = s.stylesheet
	var buf bytes.Buffer
	if _, err := s.pages.RenderTemplate("page", data, &buf); err != nil {
		s.logger.WithError(err).Error("formkit: render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// responseBuffer holds a handler's response until it is wrapped.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (b *responseBuffer) Header() http.Header {
	return b.header
}

func (b *responseBuffer) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// watch reloads the forms when a definition under src changes. Events are
// debounced since editors often write a file in several steps.
func (s *server) watch(ctx context.Context, src definitionSource) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cli: start watcher: %w", err)
	}
	err = filepath.WalkDir(src.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if src.file != "" && path != src.root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("cli: watch %s: %w", src.root, err)
	}
	s.logger.WithField("root", src.root).Info("formkit: watching definitions")
	go s.watchLoop(ctx, watcher, src)
	return nil
}

func (s *server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, src definitionSource) {
	defer watcher.Close()

	debounce := time.NewTimer(reloadDebounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && src.file == "" {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !src.matches(event.Name) {
				continue
			}
			pending = true
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			if err := s.reload(); err != nil {
				s.logger.WithError(err).Error("formkit: reload failed, keeping previous forms")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.WithError(err).Warn("formkit: watcher error")
		}
	}
}

func listenAndServe(ctx context.Context, addr string, handler http.Handler, logger logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.WithField("addr", addr).Info("formkit: serving forms")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cli: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("formkit: shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
