package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/mgomes/tinyscript/tiny"
)

const (
	completionKindVariable = 6
	completionKindKeyword  = 14
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDidCloseParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

// lspDocument is an open document and what the last successful parse of it
// declared.
type lspDocument struct {
	text   string
	locals map[string]tiny.Position
}

type lspServer struct {
	reader   *bufio.Reader
	writer   *bufio.Writer
	compiler *tiny.Compiler
	docs     map[string]*lspDocument
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		reader:   bufio.NewReader(r),
		writer:   bufio.NewWriter(w),
		compiler: tiny.NewCompiler(tiny.Config{Workers: 1}),
		docs:     make(map[string]*lspDocument),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync":           1,
						"hoverProvider":              true,
						"documentFormattingProvider": true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
				},
			},
		}
	case "initialized":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "exit":
		return nil
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		return []lspOutboundMessage{
			s.update(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		return []lspOutboundMessage{
			s.update(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspDidCloseParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return nil
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		var locals map[string]tiny.Position
		if doc := s.docs[params.TextDocument.URI]; doc != nil {
			locals = doc.locals
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(locals),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		doc := s.docs[params.TextDocument.URI]
		if doc == nil {
			return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
		}
		word := wordAtPosition(doc.text, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{
				{JSONRPC: "2.0", ID: incoming.ID, Result: nil},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": hoverText(word, doc.locals),
					},
				},
			},
		}
	case "textDocument/formatting":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		doc := s.docs[params.TextDocument.URI]
		if doc == nil {
			return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
		}
		return []lspOutboundMessage{
			{JSONRPC: "2.0", ID: incoming.ID, Result: formattingEdits(doc.text)},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

// update stores the new text of a document and recompiles it. Locals from
// the previous successful compile are kept while the text does not parse.
func (s *lspServer) update(uri, text string) lspOutboundMessage {
	doc := s.docs[uri]
	if doc == nil {
		doc = &lspDocument{}
		s.docs[uri] = doc
	}
	doc.text = text

	script, err := s.compiler.CompileUnit(tiny.NewSource(uri, text), tiny.ParseOptions{})
	if script != nil {
		doc.locals = script.Locals
	}
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForError(err),
		},
	}
}

func diagnosticsForError(err error) []map[string]any {
	if err == nil {
		return []map[string]any{}
	}

	var diag *tiny.Error
	if !errors.As(err, &diag) {
		return []map[string]any{
			newDiagnostic(0, 0, err.Error()),
		}
	}
	message := fmt.Sprintf("%s error: %s", diag.Phase, diag.Msg)
	if !diag.Pos.IsValid() {
		return []map[string]any{newDiagnostic(0, 0, message)}
	}
	return []map[string]any{
		newDiagnostic(diag.Pos.Line-1, max(0, diag.Pos.Column-1), message),
	}
}

func newDiagnostic(line, character int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "tiny-lsp",
		"message":  message,
	}
}

// formattingEdits replaces the whole document with its canonical layout, or
// returns no edits when it does not parse.
func formattingEdits(text string) []map[string]any {
	script, err := tiny.Parse(tiny.NewSource("", text), tiny.ParseOptions{})
	if err != nil {
		return []map[string]any{}
	}
	formatted := tiny.Format(script.Root)
	if formatted == text {
		return []map[string]any{}
	}
	lines := strings.Split(text, "\n")
	return []map[string]any{
		{
			"range": map[string]any{
				"start": map[string]any{"line": 0, "character": 0},
				"end": map[string]any{
					"line":      len(lines) - 1,
					"character": len(utf16.Encode([]rune(lines[len(lines)-1]))),
				},
			},
			"newText": formatted,
		},
	}
}

func completionItems(locals map[string]tiny.Position) []map[string]any {
	keywords := tiny.Keywords()
	labels := make([]string, 0, len(keywords)+len(locals))
	labels = append(labels, keywords...)
	for name := range locals {
		if !slices.Contains(keywords, name) {
			labels = append(labels, name)
		}
	}
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		kind := completionKindVariable
		detail := "local"
		if slices.Contains(keywords, label) {
			kind = completionKindKeyword
			detail = "keyword"
		}
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kind,
			"detail": detail,
		})
	}
	return items
}

func classifyWord(word string, locals map[string]tiny.Position) string {
	if slices.Contains(tiny.Keywords(), word) {
		return "keyword"
	}
	if _, ok := locals[word]; ok {
		return "local"
	}
	return "global"
}

func hoverText(word string, locals map[string]tiny.Position) string {
	kind := classifyWord(word, locals)
	if kind == "local" {
		pos := locals[word]
		return fmt.Sprintf("`%s`\n\nTinyScript local, declared at line %d", word, pos.Line)
	}
	return fmt.Sprintf("`%s`\n\nTinyScript %s", word, kind)
}

// wordAtPosition finds the word under an LSP position, whose character is
// counted in UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}
	if character < 0 {
		character = 0
	}

	cursor := 0
	for units := 0; cursor < len(runes); cursor++ {
		width := utf16.RuneLen(runes[cursor])
		if width < 1 {
			width = 1
		}
		if units+width > character {
			break
		}
		units += width
	}

	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
