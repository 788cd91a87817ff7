package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sitekit/pkg/cache"
)

var (
	ErrNotFound     = errors.New("markdown: document not found")
	ErrRenderFailed = errors.New("markdown: render failed")
)

const frontMatterFence = "---"

// Document is a rendered markdown file.
type Document struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// HTML is sanitized and safe to embed.
	HTML string `yaml:"-"`
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithCacheTTL sets how long rendered documents are kept. Zero or less
// disables caching, which makes edits visible on the next request.
// Default: 1 hour.
func WithCacheTTL(d time.Duration) Option {
	return func(r *Renderer) { r.ttl = d }
}

// WithPolicy replaces the HTML sanitizing policy. Default: bluemonday UGC policy.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(r *Renderer) {
		if p != nil {
			r.policy = p
		}
	}
}

// Renderer renders "<name>.md" files from a filesystem.
// Files may start with a YAML front matter block holding title and description.
// Without a title, the first level-one heading is used.
type Renderer struct {
	fsys   fs.FS
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  *cache.Memory[*Document]
	ttl    time.Duration
}

// NewRenderer creates a renderer over fsys.
func NewRenderer(fsys fs.FS, opts ...Option) *Renderer {
	r := &Renderer{
		fsys: fsys,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: bluemonday.UGCPolicy(),
		ttl:    time.Hour,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ttl > 0 {
		r.cache = cache.NewMemory[*Document](cache.WithDefaultTTL(r.ttl), cache.WithMaxEntries(256))
	}
	return r
}

// Render returns the document stored as name + ".md".
func (r *Renderer) Render(ctx context.Context, name string) (*Document, error) {
	if r.cache == nil {
		return r.render(name)
	}
	return r.cache.GetOrSet(ctx, name, func(context.Context) (*Document, time.Duration, error) {
		doc, err := r.render(name)
		return doc, 0, err
	})
}

// Close releases the document cache.
func (r *Renderer) Close() error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Close()
}

func (r *Renderer) render(name string) (*Document, error) {
	file := path.Clean(strings.TrimPrefix(name, "/")) + ".md"
	src, err := fs.ReadFile(r.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}

	doc := &Document{}
	body, meta := splitFrontMatter(src)
	if meta != nil {
		if err := yaml.Unmarshal(meta, doc); err != nil {
			return nil, errors.Join(ErrRenderFailed, fmt.Errorf("front matter of %s: %w", file, err))
		}
	}
	if doc.Title == "" {
		doc.Title = firstHeading(body)
	}

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	doc.HTML = r.policy.Sanitize(buf.String())

	return doc, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
func splitFrontMatter(src []byte) (body, meta []byte) {
	s := string(src)
	if !strings.HasPrefix(s, frontMatterFence+"\n") && !strings.HasPrefix(s, frontMatterFence+"\r\n") {
		return src, nil
	}
	rest := s[strings.Index(s, "\n")+1:]
	for offset := 0; offset < len(rest); {
		end := strings.IndexByte(rest[offset:], '\n')
		line := rest[offset:]
		if end >= 0 {
			line = rest[offset : offset+end]
		}
		if strings.TrimRight(line, "\r") == frontMatterFence {
			after := ""
			if end >= 0 {
				after = rest[offset+end+1:]
			}
			return []byte(after), []byte(rest[:offset])
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return src, nil
}

func firstHeading(body []byte) string {
	for line := range strings.Lines(string(body)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}
