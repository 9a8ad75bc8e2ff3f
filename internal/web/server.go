package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"graph-history/internal/history"
	"graph-history/internal/logger"
	"graph-history/internal/picker"

	"github.com/CAFxX/httpcompression"
	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

var log = logger.Get("web")

type ServerConfig struct {
	Addr      string
	OutputDir string
	// FS serves graphs and is listed for graph files. Defaults to os.DirFS(OutputDir).
	FS fs.FS
	// Load returns the history; called at startup and on ?rescan=1.
	Load func() (*history.History, error)
	// Filters is the default filter for /latest when none is given in the URL.
	Filters     string
	DatastarURL string
}

type Server struct {
	mu   sync.RWMutex
	cfg  ServerConfig
	tmpl *template.Template
	hist *history.History
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Load == nil {
		return nil, errors.New("web: missing history loader")
	}
	if cfg.FS == nil {
		if strings.TrimSpace(cfg.OutputDir) == "" {
			return nil, errors.New("web: missing output dir")
		}
		cfg.FS = os.DirFS(cfg.OutputDir)
	}
	if strings.TrimSpace(cfg.DatastarURL) == "" {
		cfg.DatastarURL = DefaultDatastarURL
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"base": path.Base,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	h, err := cfg.Load()
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, hist: h}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) history() *history.History {
	s.mu.RLock()
	h := s.hist
	s.mu.RUnlock()
	return h
}

func (s *Server) rescan() error {
	h, err := s.cfg.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.hist = h
	s.mu.Unlock()
	ys, ms, ds := h.Counts()
	log.Infof("rescanned history: %d years, %d months, %d days", ys, ms, ds)
	return nil
}

// Handler returns the compressed HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /tree", s.handleTree)
	mux.HandleFunc("GET /latest", s.handleLatestRedirect)
	mux.HandleFunc("GET /latest/{$}", s.handleLatestRedirect)
	mux.HandleFunc("GET /latest/{filters}", s.handleLatest)
	mux.HandleFunc("GET /picker/sync", s.handlePickerSync)
	mux.Handle("GET /output/", http.StripPrefix("/output/", http.FileServerFS(s.cfg.FS)))
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleIndex)
	// Unknown pages fall back to the index.
	mux.HandleFunc("GET /", s.handleIndex)

	compress, err := httpcompression.DefaultAdapter()
	if err != nil {
		log.Warningf("compression disabled: %v", err)
		return mux
	}
	return compress(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(b)
}

type pageVM struct {
	Title       string
	DatastarURL string
	OutputDir   string
	Error       string
}

type selectVM struct {
	ID      string
	Options []picker.Option
	Sync    bool
}

type graphLink struct {
	Path string
	URL  string
}

type graphsVM struct {
	Date   history.Date
	Graphs []graphLink
}

type indexVM struct {
	pageVM
	graphsVM
	Empty bool
	Year  selectVM
	Month selectVM
	Day   selectVM
}

type latestVM struct {
	pageVM
	graphsVM
	Filters string
}

type treeVM struct {
	pageVM
	Overview template.HTML
}

func (s *Server) page(title string) pageVM {
	return pageVM{Title: title, DatastarURL: s.cfg.DatastarURL, OutputDir: s.cfg.OutputDir}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.FormValue("rescan") == "1" {
		if err := s.rescan(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	h := s.history()
	vm := indexVM{pageVM: s.page("Graph history")}
	if h.Empty() {
		vm.Empty = true
		s.writeHTMLTemplate(w, http.StatusOK, "index.html", vm)
		return
	}

	want := picker.Selection{
		Year:  r.FormValue("year"),
		Month: r.FormValue("month"),
		Day:   r.FormValue("day"),
	}
	p, y, m, d := picker.NewListSynchronizer()
	status := http.StatusOK
	if err := p.SelectByName(h, want); err != nil {
		if !errors.Is(err, picker.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		status = http.StatusBadRequest
		vm.Error = err.Error()
		if err := p.PopulateYears(h); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	vm.Year = selectVM{ID: picker.ControlYear, Options: y.Options(), Sync: true}
	vm.Month = selectVM{ID: picker.ControlMonth, Options: m.Options(), Sync: true}
	vm.Day = selectVM{ID: picker.ControlDay, Options: d.Options()}

	gv, err := s.graphsFor(p, h)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	vm.graphsVM = gv
	s.writeHTMLTemplate(w, status, "index.html", vm)
}

func (s *Server) graphsFor(p picker.Synchronizer, h *history.History) (graphsVM, error) {
	cur, err := p.Current(h)
	if err != nil {
		return graphsVM{}, err
	}
	date := history.Date{Year: cur.Year, Month: cur.Month, Day: cur.Day}
	gs, err := history.Graphs(s.cfg.FS, date, "")
	if err != nil {
		return graphsVM{}, err
	}
	return s.graphsView(date, gs), nil
}

// graphsView links each graph under /output with a ?v= version taken from
// its modification time. The grapher rewrites today's files under the same
// names, so the version changes whenever the image does.
func (s *Server) graphsView(date history.Date, paths []string) graphsVM {
	now := time.Now()
	links := make([]graphLink, 0, len(paths))
	for _, p := range paths {
		v := now
		if fi, err := fs.Stat(s.cfg.FS, p); err == nil && !fi.ModTime().IsZero() {
			v = fi.ModTime()
		}
		u := "/output/" + (&url.URL{Path: p}).EscapedPath() + "?v=" + strconv.FormatInt(v.UnixMilli(), 10)
		links = append(links, graphLink{Path: p, URL: u})
	}
	return graphsVM{Date: date, Graphs: links}
}

func (s *Server) handleLatestRedirect(w http.ResponseWriter, r *http.Request) {
	if f := strings.TrimSpace(s.cfg.Filters); f != "" {
		http.Redirect(w, r, "/latest/"+url.PathEscape(f), http.StatusFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusMovedPermanently)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	filters := strings.TrimSpace(r.PathValue("filters"))
	if filters == "" {
		s.handleLatestRedirect(w, r)
		return
	}
	date, gs, err := history.LatestGraphs(s.cfg.FS, s.history(), filters)
	if err != nil {
		log.Errorf("latest graphs %q: %v", filters, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, http.StatusOK, "latest.html", latestVM{
		pageVM:   s.page("Latest: " + filters),
		graphsVM: s.graphsView(date, gs),
		Filters:  filters,
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, http.StatusOK, "tree.html", treeVM{
		pageVM:   s.page("Graph history overview"),
		Overview: historyOverviewHTML(s.history()),
	})
}

type pickerSignals struct {
	Year    string `json:"year"`
	Month   string `json:"month"`
	Day     string `json:"day"`
	Changed string `json:"changed"`
}

// handlePickerSync re-syncs the dependent selects after a change in the
// browser and patches the month and day selects plus the graph list.
func (s *Server) handlePickerSync(w http.ResponseWriter, r *http.Request) {
	var sig pickerSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h := s.history()
	p, y, m, d := picker.NewListSynchronizer()
	if err := p.PopulateYears(h); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	err := selectValue(y, picker.ControlYear, sig.Year)
	if err == nil {
		err = p.UpdateMonths(h)
	}
	if err == nil && sig.Changed == picker.ControlMonth {
		if err = selectValue(m, picker.ControlMonth, sig.Month); err == nil {
			err = p.UpdateDays(h)
		}
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, picker.ErrNotFound) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	gv, err := s.graphsFor(p, h)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	monthHTML, err := s.renderTemplate("select", selectVM{ID: picker.ControlMonth, Options: m.Options(), Sync: true})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dayHTML, err := s.renderTemplate("select", selectVM{ID: picker.ControlDay, Options: d.Options()})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	graphsHTML, err := s.renderTemplate("graphs", gv)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, patch := range []struct{ sel, html string }{
		{"#" + picker.ControlMonth, monthHTML},
		{"#" + picker.ControlDay, dayHTML},
		{"#graphs", graphsHTML},
	} {
		if err := sse.PatchElements(patch.html, datastar.WithSelector(patch.sel), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
			log.Debugf("picker sync: client went away: %v", err)
			return
		}
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{
		"year":    y.SelectedValue(),
		"month":   m.SelectedValue(),
		"day":     d.SelectedValue(),
		"changed": "",
	})
}

func selectValue(l *picker.List, control, v string) error {
	if !l.SelectValue(v) {
		return &picker.SelectionError{Control: control, Index: -1, Name: v, Err: picker.ErrNotFound}
	}
	return nil
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, status int, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		log.Errorf("render %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}
