package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/untillpro/goutils/logger"

	"github.com/pihentagy/xampler/internal/dependency"
	"github.com/pihentagy/xampler/internal/ordered"
	"github.com/pihentagy/xampler/xsd"
)

// maxImportDepth limits chains of imported schema documents.
const maxImportDepth = 10

// A loader reads schema documents and, transitively, the documents
// they import or include. Locations in an <import> or <include> are
// resolved against the location of the importing document, which may
// be a file or an http(s) URL.
type loader struct {
	client *http.Client
	docs   map[string][]byte
	graph  dependency.Graph
	// target namespaces of the loaded documents
	have map[string]bool
	// namespaces imported without a schemaLocation, and the document
	// importing them
	want map[string]string
}

func newLoader(client *http.Client) *loader {
	if client == nil {
		client = http.DefaultClient
	}
	l := &loader{
		client: client,
		docs:   make(map[string][]byte),
		have:   make(map[string]bool),
		want:   make(map[string]string),
	}
	for ns := range standardNamespaces() {
		l.have[ns] = true
	}
	return l
}

// standardNamespaces lists the name spaces of the schemas built into
// the xsd package, which are never loaded.
func standardNamespaces() map[string]bool {
	result := make(map[string]bool)
	for _, doc := range xsd.StandardSchema {
		tns, err := xsd.TargetNamespaces(doc)
		if err != nil {
			// should never happen
			panic(err)
		}
		for _, ns := range tns {
			result[ns] = true
		}
	}
	return result
}

// loadSchemas reads the named schema documents and everything they
// import, and returns the documents in dependency order.
func loadSchemas(client *http.Client, locations ...string) ([][]byte, error) {
	l := newLoader(client)
	for _, loc := range locations {
		if err := l.load(clean(loc), 0); err != nil {
			return nil, err
		}
	}
	return l.documents()
}

func (l *loader) load(loc string, depth int) error {
	if _, ok := l.docs[loc]; ok {
		return nil
	}
	if depth > maxImportDepth {
		return errors.Errorf("maximum import depth of %d reached at %s", maxImportDepth, loc)
	}
	data, err := l.fetch(loc)
	if err != nil {
		return err
	}
	l.docs[loc] = data
	if logger.IsVerbose() {
		logger.Verbose(fmt.Sprintf("loaded %s (%d bytes)", loc, len(data)))
	}

	tns, err := xsd.TargetNamespaces(data)
	if err != nil {
		return errors.Annotatef(err, "parsing %s", loc)
	}
	refs, err := xsd.Imports(data)
	if err != nil {
		return errors.Annotatef(err, "parsing %s", loc)
	}

	var deps []string
	for _, ref := range refs {
		if ref.Location == "" {
			if _, ok := l.want[ref.Namespace]; !ok {
				l.want[ref.Namespace] = loc
			}
			continue
		}
		if l.have[ref.Namespace] && !sameNamespace(ref.Namespace, tns) {
			continue
		}
		dep := resolveLocation(loc, ref.Location)
		deps = append(deps, dep)
		if err := l.load(dep, depth+1); err != nil {
			return errors.Annotatef(err, "imported by %s", loc)
		}
	}
	for _, ns := range tns {
		l.have[ns] = true
	}
	l.graph.Add(loc, deps...)
	return nil
}

func sameNamespace(ns string, list []string) bool {
	for _, s := range list {
		if s == ns {
			return true
		}
	}
	return false
}

// documents checks that every imported name space was found and
// returns the documents, imported documents first.
func (l *loader) documents() ([][]byte, error) {
	var err error
	ordered.Range(l.want, func(ns, from string) {
		if err == nil && !l.have[ns] {
			err = errors.NotFoundf("schema for namespace %q imported by %s", ns, from)
		}
	})
	if err != nil {
		return nil, err
	}
	result := make([][]byte, 0, len(l.docs))
	l.graph.Flatten(func(loc string) {
		result = append(result, l.docs[loc])
	})
	return result, nil
}

func (l *loader) fetch(loc string) ([]byte, error) {
	if !isRemote(loc) {
		data, err := os.ReadFile(loc)
		return data, errors.Trace(err)
	}
	rsp, err := l.client.Get(loc)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s: %s", loc, rsp.Status)
	}
	data, err := io.ReadAll(rsp.Body)
	return data, errors.Annotatef(err, "fetching %s", loc)
}

func isRemote(loc string) bool {
	u, err := url.Parse(loc)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func clean(loc string) string {
	if isRemote(loc) {
		return loc
	}
	return filepath.Clean(loc)
}

// resolveLocation resolves the schemaLocation ref found in the
// document at base.
func resolveLocation(base, ref string) string {
	if isRemote(ref) {
		return ref
	}
	if isRemote(base) {
		b, err1 := url.Parse(base)
		r, err2 := url.Parse(ref)
		if err1 == nil && err2 == nil {
			return b.ResolveReference(r).String()
		}
	}
	if filepath.IsAbs(ref) {
		return filepath.Clean(ref)
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(ref))
}
