package util

import (
	"errors"
	"strings"
)

// JoinKey builds a slash-separated storage key from a namespace and a file
// name. Empty namespaces yield the bare name.
func JoinKey(namespace, name string) (string, error) {
	ns := strings.Trim(strings.TrimSpace(namespace), "/")
	if strings.Contains(ns, "..") || strings.Contains(ns, "\\") {
		return "", errors.New("invalid namespace")
	}
	if name == "" {
		return "", errors.New("invalid file name")
	}
	if ns == "" {
		return name, nil
	}
	return ns + "/" + name, nil
}

// FileExt returns the lower-cased extension of name without the dot, or ""
// when name has none.
func FileExt(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
