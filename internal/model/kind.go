package model

import (
	"fmt"
	"strings"
)

// Kind selects which record shape a table shows.
type Kind int

const (
	KindUser Kind = iota
	KindFile
	KindConfig
	KindCluster
	KindPartition
)

var kindNames = map[Kind]string{
	KindUser:      "users",
	KindFile:      "files",
	KindConfig:    "configs",
	KindCluster:   "clusters",
	KindPartition: "partitions",
}

// Kinds lists every kind in tab order.
func Kinds() []Kind {
	return []Kind{KindUser, KindFile, KindConfig, KindCluster, KindPartition}
}

// KindNames lists the CLI names of every kind in tab order.
func KindNames() []string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a CLI name ("users", "user", "files", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		n := k.String()
		if s == n || s == strings.TrimSuffix(n, "s") {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q (want one of %s)", s, strings.Join(KindNames(), ", "))
}
