package cmdb

import (
	"net/url"
	"strings"
)

// BuildCloudHostURL turns a cloud provider self link (for example
// "/api/clouds/6/instances/ABC123") into a browsable console URL under
// consoleBase. Absolute links contribute their path only and a leading
// "/api" segment is dropped. With no console base the trimmed link is
// returned as is.
func BuildCloudHostURL(consoleBase, selfLink string) string {
	link := strings.TrimSpace(selfLink)
	if link == "" {
		return ""
	}

	base := strings.TrimRight(strings.TrimSpace(consoleBase), "/")
	if base == "" {
		return link
	}

	path := link
	if u, err := url.Parse(link); err == nil && u.IsAbs() {
		path = u.Path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/api" {
		path = "/"
	} else if strings.HasPrefix(path, "/api/") {
		path = strings.TrimPrefix(path, "/api")
	}

	return base + path
}
