package webapp

import (
	"fmt"
	"net"
	"net/http"
	"path/filepath"
)

func serveFile(w http.ResponseWriter, r *http.Request, path string, downloadBase string) {
	name := filepath.Base(path)
	if downloadBase != "" {
		ext := filepath.Ext(name)
		name = downloadBase + ext
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// NormalizeListenForBrowser 把监听地址转换成浏览器可访问的 host:port。
// 常见形态：127.0.0.1:8788 / 0.0.0.0:8788 / :8788 / [::]:8788
func NormalizeListenForBrowser(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
