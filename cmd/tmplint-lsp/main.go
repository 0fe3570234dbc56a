package main

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sync"

	tmplerrors "github.com/pipe01/tmplint/errors"
	"github.com/pipe01/tmplint/internal/lexer"
	"github.com/pipe01/tmplint/internal/validator"
	"github.com/pipe01/tmplint/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "tmplint"

var version string = "0.1.0"
var handler protocol.Handler

var log = commonlog.GetLogger(lsName)

var (
	documentsMu sync.Mutex
	documents   = map[string]string{}
)

func main() {
	// This increases logging verbosity (optional)
	commonlog.Configure(1, nil)

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			setDocument(params.TextDocument.URI, params.TextDocument.Text)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			documentsMu.Lock()
			content, ok := documents[params.TextDocument.URI]
			if !ok {
				documentsMu.Unlock()
				return nil
			}

			for _, change := range params.ContentChanges {
				switch change := change.(type) {
				case protocol.TextDocumentContentChangeEventWhole:
					content = change.Text

				case protocol.TextDocumentContentChangeEvent:
					startIndex, endIndex := change.Range.IndexesIn(content)
					content = content[:startIndex] + change.Text + content[endIndex:]
				}
			}

			documents[params.TextDocument.URI] = content
			documentsMu.Unlock()

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			documentsMu.Lock()
			delete(documents, params.TextDocument.URI)
			documentsMu.Unlock()

			publish(context, params.TextDocument.URI, []protocol.Diagnostic{})
			return nil
		},
	}

	server := server.NewServer(&handler, lsName, false)

	server.RunStdio()
}

func setDocument(uri, text string) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	documents[uri] = text
}

func handleDocument(context *glsp.Context, docURI string) error {
	url, err := url.Parse(docURI)
	if err != nil {
		return fmt.Errorf("parse document uri: %w", err)
	}
	if url.Scheme != "file" {
		return fmt.Errorf("invalid document uri scheme %q", url.Scheme)
	}

	documentsMu.Lock()
	contents, ok := documents[docURI]
	documentsMu.Unlock()
	if !ok {
		return nil
	}

	ws := workspace.New(filepath.Dir(url.Path), workspace.Options{
		Validator: validator.Options{CheckIndentation: true},
	})

	diag := []protocol.Diagnostic{}

	err = ws.CheckContents(filepath.Base(url.Path), []byte(contents))
	if err != nil {
		log.Debugf("%s: %s", docURI, err)

		diag = append(diag, diagnostic(err))
	}

	publish(context, docURI, diag)
	return nil
}

func diagnostic(err error) protocol.Diagnostic {
	poserr, ok := tmplerrors.Situate(err)
	if !ok {
		return protocol.Diagnostic{
			Severity: ptr(protocol.DiagnosticSeverityError),
			Message:  err.Error(),
		}
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: pos(poserr.At()),
			End:   pos(poserr.At()),
		},
		Severity: ptr(protocol.DiagnosticSeverityError),
		Source:   ptr(lsName),
		Message:  tmplerrors.Message(err),
	}
}

func publish(context *glsp.Context, docURI string, diag []protocol.Diagnostic) {
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diag,
	})
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

// pos converts a 1-based location into a 0-based LSP position.
func pos(l lexer.Location) protocol.Position {
	return protocol.Position{
		Line:      uint32(l.Line - 1),
		Character: uint32(l.Column - 1),
	}
}
