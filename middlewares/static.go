package middlewares

import (
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/sitekit/internal"
)

// StaticFiles returns middleware that serves regular files from fsys for GET
// and HEAD requests, with Cache-Control: public,max-age=<maxAge in seconds>.
// Requests that do not name an existing file continue down the pipeline.
func StaticFiles(fsys fs.FS, maxAge time.Duration) internal.Middleware {
	cacheControl := "public,max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			r := c.Request()
			if fsys == nil || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
				return next(c)
			}

			name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
			if name == "" || !fs.ValidPath(name) {
				return next(c)
			}

			f, err := fsys.Open(name)
			if err != nil {
				return next(c)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil || !info.Mode().IsRegular() {
				return next(c)
			}

			w := c.Response()
			w.Header().Set("Cache-Control", cacheControl)

			if rs, ok := f.(io.ReadSeeker); ok {
				http.ServeContent(w, r, info.Name(), info.ModTime(), rs)
				return nil
			}
			http.ServeFileFS(w, r, fsys, name)
			return nil
		}
	}
}
