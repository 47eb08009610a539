package lsp

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/blueprint/bp/ast"
	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/dhamidi/blueprint/format"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const lsName = "blueprint"

var log = commonlog.GetLogger("bp.lsp")

type Server struct {
	workspace *Workspace
	watcher   *FileWatcher
	opts      []parser.Option
	handler   protocol.Handler
	server    *server.Server
	version   string

	// PollInterval is how often the workspace root is rescanned after
	// initialization. Zero disables the watcher.
	PollInterval time.Duration
}

func NewServer(version string, opts ...parser.Option) *Server {
	ls := &Server{
		workspace:    NewWorkspace(".", opts...),
		opts:         opts,
		version:      version,
		PollInterval: 2 * time.Second,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentDefinition:     ls.textDocumentDefinition,
		TextDocumentFormatting:     ls.textDocumentFormatting,
		WorkspaceSymbol:            ls.workspaceSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) Workspace() *Workspace {
	return ls.workspace
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}
	log.Infof("initializing workspace %s", rootDir)

	ls.workspace = NewWorkspace(rootDir, ls.opts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("scanning %s: %s", ls.workspace.RootDir(), err)
	}
	if ls.PollInterval > 0 {
		notify := ctx.Notify
		ls.watcher = NewFileWatcher(ls.workspace, ls.PollInterval, func(changes []Change) {
			ls.publishChanges(notify, changes)
		})
		ls.watcher.Start()
	}
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Open(path, []byte(params.TextDocument.Text))
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.Open(path, []byte(textChange.Text))
			ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Close(path)
	if err := ls.workspace.ScanFile(path); err != nil {
		ls.workspace.RemoveFile(path)
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.Open(path, []byte(*params.Text))
	} else {
		ls.workspace.ScanFile(path)
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, path)
	return nil
}

// publishChanges reports fresh diagnostics for files the watcher reloaded
// and clears them for files that were deleted.
func (ls *Server) publishChanges(notify glsp.NotifyFunc, changes []Change) {
	for _, c := range changes {
		uri := pathToURI(c.Path)
		if c.Removed {
			notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
				URI:         uri,
				Diagnostics: []protocol.Diagnostic{},
			})
			continue
		}
		ls.publish(notify, uri, c.Path)
	}
}

func (ls *Server) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, path string) {
	ls.publish(ctx.Notify, uri, path)
}

func (ls *Server) publish(notify glsp.NotifyFunc, uri protocol.DocumentUri, path string) {
	diags := ls.workspace.Diagnostics(path)
	out := make([]protocol.Diagnostic, 0, len(diags))
	source := lsName
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Severity == SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    toRange(d.Span),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}

func (ls *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.GetFile(path)
	if f == nil || f.Program == nil {
		return nil, nil
	}

	symbols := []protocol.DocumentSymbol{}
	for _, class := range f.Program.Classes {
		detail := ": " + strings.Join(class.Bases, ", ")
		sym := protocol.DocumentSymbol{
			Name:           class.Name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindClass,
			Range:          toRange(class.Loc),
			SelectionRange: toRange(class.NameLoc),
		}
		for _, method := range class.Methods {
			signature := methodSignature(method)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           method.Name,
				Detail:         &signature,
				Kind:           protocol.SymbolKindMethod,
				Range:          toRange(method.Loc),
				SelectionRange: toRange(method.NameLoc),
			})
		}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// textDocumentDefinition jumps from a base type name in a class header to
// the class of that name.
func (ls *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.GetFile(path)
	if f == nil {
		return nil, nil
	}
	word := wordAt(f.Content, int(params.Position.Line)+1, int(params.Position.Character)+1)
	if word == "" {
		return nil, nil
	}
	loc, ok := ls.workspace.FindClass(word)
	if !ok {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(loc.Path),
		Range: toRange(loc.Class.NameLoc),
	}, nil
}

func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.GetFile(path)
	if f == nil || f.Program == nil {
		return nil, nil
	}
	formatted, err := format.NewSourcePrinter(nil).MarshalText(f.Program)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(formatted, f.Content) {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endOfContent(f.Content),
		},
		NewText: string(formatted),
	}}, nil
}

func (ls *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	symbols := []protocol.SymbolInformation{}
	for _, loc := range ls.workspace.AllClasses() {
		uri := pathToURI(loc.Path)
		if strings.Contains(strings.ToLower(loc.Class.Name), query) {
			symbols = append(symbols, protocol.SymbolInformation{
				Name:     loc.Class.Name,
				Kind:     protocol.SymbolKindClass,
				Location: protocol.Location{URI: uri, Range: toRange(loc.Class.NameLoc)},
			})
		}
		container := loc.Class.Name
		for _, method := range loc.Class.Methods {
			if !strings.Contains(strings.ToLower(method.Name), query) {
				continue
			}
			symbols = append(symbols, protocol.SymbolInformation{
				Name:          method.Name,
				Kind:          protocol.SymbolKindMethod,
				Location:      protocol.Location{URI: uri, Range: toRange(method.NameLoc)},
				ContainerName: &container,
			})
		}
	}
	return symbols, nil
}

func methodSignature(m *ast.MethodImpl) string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = ast.TypeName(p.Type) + " " + p.Name
	}
	return ast.TypeName(m.ReturnType) + " " + m.Name + "(" + strings.Join(params, ", ") + ")"
}

// wordAt returns the identifier covering the 1-based line and column.
func wordAt(content []byte, line, col int) string {
	lines := strings.Split(string(content), "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	text := lines[line-1]
	i := col - 1
	if i < 0 || i >= len(text) || !isWordChar(text[i]) {
		return ""
	}
	start, end := i, i
	for start > 0 && isWordChar(text[start-1]) {
		start--
	}
	for end < len(text) && isWordChar(text[end]) {
		end++
	}
	return text[start:end]
}

func isWordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// toRange converts a 1-based span to a 0-based protocol range.
func toRange(span ast.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(span.Start),
		End:   toPosition(span.End),
	}
}

func toPosition(pos ast.Position) protocol.Position {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

func endOfContent(content []byte) protocol.Position {
	line := bytes.Count(content, []byte("\n"))
	last := bytes.LastIndexByte(content, '\n')
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(len(content) - last - 1),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
