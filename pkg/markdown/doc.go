// Package markdown renders content pages written in markdown.
//
//	r := markdown.NewRenderer(web.Content(), markdown.WithCacheTTL(time.Hour))
//	doc, err := r.Render(ctx, "privacy")
//	if errors.Is(err, markdown.ErrNotFound) {
//		// 404
//	}
//
// Rendering uses goldmark with GitHub flavored markdown. The output is
// sanitized with bluemonday before it is cached, so Document.HTML can be
// embedded without escaping.
package markdown
