// Package locate maps invokable names to on-disk modules using the
// app's addressing conventions.
//
// A component name can be backed by up to two modules, a script and a
// template, found under any of the supported layouts: pod directories,
// flat files under components/, nested index files, co-located
// templates, and the classic templates/components/ tree. Helpers are
// script-only. Existence checks go through the injected Finder so the
// resolver can run against a real tree or an in-memory one.
package locate

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Convention names the layout a module was found under.
type Convention string

const (
	ConventionPod     Convention = "pod"
	ConventionFlat    Convention = "flat"
	ConventionIndex   Convention = "nested-index"
	ConventionColoc   Convention = "co-located"
	ConventionClassic Convention = "classic"
)

// Module is one found module backing an invocation.
type Module struct {
	// RuntimeName is the container-style handle, such as
	// "component:pick-list", "template:components/pick-list", or
	// "helper:format-date".
	RuntimeName string `json:"runtimeName"`

	// Path is the project-root-relative file path with forward
	// slashes.
	Path string `json:"path"`

	// Convention is the layout that matched.
	Convention Convention `json:"convention"`
}

// ComponentModules is what backs one component name. At least one of
// the two parts is set when the component exists.
type ComponentModules struct {
	Script   *Module
	Template *Module
}

// Finder answers whether a project-relative file exists.
type Finder interface {
	Exists(relPath string) bool
}

// MapFinder is an in-memory Finder for tests and dry runs.
type MapFinder map[string]bool

func (m MapFinder) Exists(relPath string) bool { return m[relPath] }

// FSFinder checks the real filesystem under a root, caching results
// for the life of the finder. It is safe for concurrent use.
type FSFinder struct {
	root string
	mu   sync.RWMutex
	seen map[string]bool
}

func NewFSFinder(root string) *FSFinder {
	return &FSFinder{root: root, seen: make(map[string]bool)}
}

func (f *FSFinder) Exists(relPath string) bool {
	f.mu.RLock()
	v, ok := f.seen[relPath]
	f.mu.RUnlock()
	if ok {
		return v
	}
	info, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(relPath)))
	exists := err == nil && info.Mode().IsRegular()
	f.mu.Lock()
	f.seen[relPath] = exists
	f.mu.Unlock()
	return exists
}

// Options configures a Locator.
type Options struct {
	// SourceRoot is the project-relative directory holding the app
	// source tree. Defaults to "app".
	SourceRoot string

	// PodPrefix is the project-relative directory holding pod-style
	// components. Empty disables the pod layout.
	PodPrefix string

	// ScriptExtensions are tried in order for script modules.
	// Defaults to .js then .ts.
	ScriptExtensions []string
}

// Locator resolves names to modules. Lookup order is fixed: pods win
// over flat files, flat files over nested indexes, and co-located
// templates over the classic tree, so a name resolves the same way on
// every run.
type Locator struct {
	finder Finder
	src    string
	pod    string
	exts   []string
}

func New(finder Finder, opts Options) *Locator {
	src := opts.SourceRoot
	if src == "" {
		src = "app"
	}
	exts := opts.ScriptExtensions
	if len(exts) == 0 {
		exts = []string{".js", ".ts"}
	}
	return &Locator{
		finder: finder,
		src:    strings.Trim(filepath.ToSlash(src), "/"),
		pod:    strings.Trim(filepath.ToSlash(opts.PodPrefix), "/"),
		exts:   exts,
	}
}

// Component returns the modules backing a dashed component name.
func (l *Locator) Component(name string) (ComponentModules, bool) {
	var mods ComponentModules
	if name == "" {
		return mods, false
	}
	if l.pod != "" {
		mods.Script = l.script(l.pod+"/"+name+"/component", "component:"+name, ConventionPod)
		if tpl := l.pod + "/" + name + "/template.hbs"; l.finder.Exists(tpl) {
			mods.Template = &Module{
				RuntimeName: "template:components/" + name,
				Path:        tpl,
				Convention:  ConventionPod,
			}
		}
	}
	if mods.Script == nil {
		mods.Script = l.script(l.src+"/components/"+name, "component:"+name, ConventionFlat)
	}
	if mods.Script == nil {
		mods.Script = l.script(l.src+"/components/"+name+"/index", "component:"+name, ConventionIndex)
	}
	if mods.Template == nil {
		runtime := "template:components/" + name
		switch {
		case l.finder.Exists(l.src + "/components/" + name + ".hbs"):
			mods.Template = &Module{RuntimeName: runtime, Path: l.src + "/components/" + name + ".hbs", Convention: ConventionColoc}
		case l.finder.Exists(l.src + "/components/" + name + "/index.hbs"):
			mods.Template = &Module{RuntimeName: runtime, Path: l.src + "/components/" + name + "/index.hbs", Convention: ConventionColoc}
		case l.finder.Exists(l.src + "/templates/components/" + name + ".hbs"):
			mods.Template = &Module{RuntimeName: runtime, Path: l.src + "/templates/components/" + name + ".hbs", Convention: ConventionClassic}
		}
	}
	return mods, mods.Script != nil || mods.Template != nil
}

// Helper returns the module backing a dashed helper name.
func (l *Locator) Helper(name string) (*Module, bool) {
	if name == "" {
		return nil, false
	}
	if m := l.script(l.src+"/helpers/"+name, "helper:"+name, ConventionFlat); m != nil {
		return m, true
	}
	if m := l.script(l.src+"/helpers/"+name+"/index", "helper:"+name, ConventionIndex); m != nil {
		return m, true
	}
	return nil, false
}

func (l *Locator) script(base, runtime string, conv Convention) *Module {
	for _, ext := range l.exts {
		if l.finder.Exists(base + ext) {
			return &Module{RuntimeName: runtime, Path: base + ext, Convention: conv}
		}
	}
	return nil
}

// ComponentForTemplate maps a project-relative template path back to
// the dashed name of the component it belongs to. Route templates and
// files outside the component trees return false.
func (l *Locator) ComponentForTemplate(relPath string) (string, bool) {
	rel := path.Clean(filepath.ToSlash(relPath))
	if l.pod != "" {
		if rest, ok := strings.CutPrefix(rel, l.pod+"/"); ok {
			if name, ok := strings.CutSuffix(rest, "/template.hbs"); ok {
				return name, true
			}
		}
	}
	if rest, ok := strings.CutPrefix(rel, l.src+"/components/"); ok {
		if name, ok := strings.CutSuffix(rest, "/index.hbs"); ok {
			return name, true
		}
		if name, ok := strings.CutSuffix(rest, ".hbs"); ok {
			return name, true
		}
	}
	if rest, ok := strings.CutPrefix(rel, l.src+"/templates/components/"); ok {
		if name, ok := strings.CutSuffix(rest, ".hbs"); ok {
			return name, true
		}
	}
	return "", false
}

// TemplateRoots returns the directories that can contain templates,
// for discovery walks.
func (l *Locator) TemplateRoots() []string {
	roots := []string{l.src}
	if l.pod != "" && !strings.HasPrefix(l.pod, l.src+"/") && l.pod != l.src {
		roots = append(roots, l.pod)
	}
	return roots
}
