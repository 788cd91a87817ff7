package pages

import "net/http"

// statusTitle is the page title for an HTTP status.
func statusTitle(status int) string {
	if title := http.StatusText(status); title != "" {
		return title
	}
	return "Error"
}
