package resolver

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// splitSegments splits a slash-separated path, dropping empty segments.
func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	segments := parts[:0]
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// cleanPath collapses repeated and trailing slashes: "//a//b/" becomes "/a/b".
func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	return "/" + strings.Join(splitSegments(p), "/")
}

// frontControllerIndex returns the index of the '/' that introduces
// frontController as whole segments of path, or -1.
func frontControllerIndex(path, frontController string) int {
	needle := "/" + frontController
	for offset := 0; offset < len(path); {
		i := strings.Index(path[offset:], needle)
		if i < 0 {
			return -1
		}
		i += offset
		end := i + len(needle)
		if end == len(path) || path[end] == '/' {
			return i
		}
		offset = i + 1
	}
	return -1
}

// installSubdirectory finds where under documentRoot the application lives.
// path must already be clean.
func installSubdirectory(path, frontController, documentRoot string, prober Prober, log *slog.Logger) (string, bool) {
	if path == "" || path == "/" {
		return "", false
	}

	if i := frontControllerIndex(path, frontController); i >= 0 {
		if i == 0 {
			return "", false
		}
		sub := path[1:i]
		log.Debug("front controller named in url", slog.String("subdirectory", sub))
		return sub, true
	}

	if prober == nil {
		return "", false
	}

	var acc string
	for _, segment := range splitSegments(path) {
		if segment == "." || segment == ".." {
			break
		}
		candidate := joinSlash(acc, segment)
		if !prober.IsDir(fsPath(documentRoot, candidate)) {
			break
		}
		acc = candidate
		if prober.IsFile(fsPath(documentRoot, acc, frontController)) {
			break
		}
	}

	if acc == "" {
		log.Debug("no install subdirectory", slog.String("path", path))
		return "", false
	}
	if !prober.IsFile(fsPath(documentRoot, acc, frontController)) {
		log.Debug("front controller not found under walked directories",
			slog.String("path", path),
			slog.String("walked", acc),
			slog.String("front_controller", frontController))
		return "", false
	}

	log.Debug("install subdirectory found", slog.String("subdirectory", acc))
	return acc, true
}

// resourcePath strips the leading slash, the install subdirectory and the
// front controller from a clean path.
func resourcePath(path, subdirectory string, hasSubdirectory bool, frontController string) (string, bool) {
	rest := strings.TrimPrefix(path, "/")
	if hasSubdirectory {
		rest = trimSegmentPrefix(rest, subdirectory)
	}
	rest = trimSegmentPrefix(rest, frontController)
	if rest == "" {
		return "", false
	}
	return rest, true
}

// trimSegmentPrefix removes prefix from s when it covers whole segments.
func trimSegmentPrefix(s, prefix string) string {
	if prefix == "" {
		return s
	}
	if s == prefix {
		return ""
	}
	if strings.HasPrefix(s, prefix+"/") {
		return s[len(prefix)+1:]
	}
	return s
}

// splitModule takes the first segment as a module when modules knows it.
func splitModule(segments []string, modules Modules) (string, bool, []string) {
	if len(segments) == 0 || !modules.Exists(segments[0]) {
		return "", false, segments
	}
	return segments[0], true, segments[1:]
}

// splitHead takes the first segment unconditionally.
func splitHead(segments []string) (string, bool, []string) {
	if len(segments) == 0 {
		return "", false, segments
	}
	return segments[0], true, segments[1:]
}

func joinSlash(a, b string) string {
	if a == "" {
		return b
	}
	return a + "/" + b
}

// fsPath joins documentRoot with slash-separated relative parts.
func fsPath(documentRoot string, parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, documentRoot)
	for _, part := range parts {
		elems = append(elems, filepath.FromSlash(part))
	}
	return filepath.Join(elems...)
}
