package lsp

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/blueprint/bp/ast"
	"github.com/dhamidi/blueprint/bp/parser"
)

// Ext is the file extension of blueprint sources.
const Ext = ".bp"

// Workspace holds the latest parse of every known blueprint file. It is
// safe for concurrent use.
type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	opts    []parser.Option
	files   map[string]*File
	open    map[string]bool
}

// File is one parsed source file. Program is nil when parsing failed.
type File struct {
	Path     string
	Content  []byte
	Program  *ast.Program
	ParseErr error
	Warnings []parser.Warning
}

// Severity of a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

// Diagnostic is a problem found in a file, located by a 1-based span.
type Diagnostic struct {
	Span     ast.Span
	Severity Severity
	Message  string
}

// ClassLocation names the file a class was declared in.
type ClassLocation struct {
	Path  string
	Class *ast.Class
}

func NewWorkspace(rootDir string, opts ...parser.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*File),
		open:    make(map[string]bool),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every blueprint file below the root directory. Hidden
// directories are skipped.
func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Ext {
			w.ScanFile(path)
		}
		return nil
	})
}

// ScanFile re-reads path from disk unless an editor has it open.
func (w *Workspace) ScanFile(path string) error {
	if w.IsOpen(path) {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content as the new text of path.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	opts := append([]parser.Option{parser.WithFile(filepath.Base(path))}, w.opts...)
	p := parser.New(content, opts...)
	prog, err := p.ParseProgram()
	f := &File{
		Path:     path,
		Content:  content,
		Program:  prog,
		ParseErr: err,
		Warnings: p.Warnings(),
	}
	if err != nil {
		log.Debugf("%s: %s", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = f
	return f
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
	delete(w.open, path)
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Open marks path as owned by an editor; disk scans leave it alone until
// Close.
func (w *Workspace) Open(path string, content []byte) *File {
	w.mu.Lock()
	w.open[path] = true
	w.mu.Unlock()
	return w.UpdateFile(path, content)
}

func (w *Workspace) Close(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.open, path)
}

func (w *Workspace) IsOpen(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.open[path]
}

// Paths returns every known file path in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// AllClasses returns the classes of every successfully parsed file, ordered
// by path and then by declaration.
func (w *Workspace) AllClasses() []ClassLocation {
	var all []ClassLocation
	for _, path := range w.Paths() {
		f := w.GetFile(path)
		if f == nil || f.Program == nil {
			continue
		}
		for _, class := range f.Program.Classes {
			all = append(all, ClassLocation{Path: path, Class: class})
		}
	}
	return all
}

// FindClass returns the first class named name, if any.
func (w *Workspace) FindClass(name string) (ClassLocation, bool) {
	for _, loc := range w.AllClasses() {
		if loc.Class.Name == name {
			return loc, true
		}
	}
	return ClassLocation{}, false
}

// Diagnostics returns the problems recorded for path.
func (w *Workspace) Diagnostics(path string) []Diagnostic {
	f := w.GetFile(path)
	if f == nil {
		return nil
	}
	return Diagnose(f.ParseErr, f.Warnings)
}

// Diagnose converts the outcome of a parse into diagnostics: one error for
// parseErr, if any, followed by one warning per lenient-mode warning.
func Diagnose(parseErr error, warnings []parser.Warning) []Diagnostic {
	var diags []Diagnostic
	if parseErr != nil {
		diags = append(diags, errorDiagnostic(parseErr))
	}
	for _, warning := range warnings {
		diags = append(diags, Diagnostic{
			Span:     pointSpan(warning.Pos),
			Severity: SeverityWarning,
			Message:  warning.Message,
		})
	}
	return diags
}

func errorDiagnostic(err error) Diagnostic {
	var syntaxErr *parser.SyntaxError
	var lexErr *parser.LexError
	switch {
	case errors.As(err, &syntaxErr):
		span := syntaxErr.Got.Span
		if span.End.Offset <= span.Start.Offset {
			span = pointSpan(syntaxErr.Pos)
		}
		msg := syntaxErr.Message
		if syntaxErr.Got.Kind == parser.TokenEOF {
			msg += " (got end of input)"
		} else {
			msg += " (got " + syntaxErr.Got.Kind.String() + ")"
		}
		return Diagnostic{Span: span, Severity: SeverityError, Message: msg}
	case errors.As(err, &lexErr):
		return Diagnostic{Span: pointSpan(lexErr.Pos), Severity: SeverityError, Message: lexErr.Message}
	}
	return Diagnostic{Span: pointSpan(ast.Position{Line: 1, Column: 1}), Severity: SeverityError, Message: err.Error()}
}

// pointSpan covers the single character at pos.
func pointSpan(pos ast.Position) ast.Span {
	end := pos
	end.Offset++
	end.Column++
	return ast.Span{Start: pos, End: end}
}
