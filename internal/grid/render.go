package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"github.com/nleeper/goment"

	"kmadmin/internal/action"
	"kmadmin/internal/model"
	"kmadmin/internal/util"
)

// DefaultDatePattern is the display pattern for timestamps.
const DefaultDatePattern = "YYYY-MM-DD HH:mm:ss"

// FormatEpochMillis formats an epoch millisecond timestamp in loc. Patterns
// containing '%' are strftime patterns; anything else is a moment.js
// pattern (YYYY, MM, Do, [literal], ...). A nil loc means local time.
func FormatEpochMillis(ms int64, pattern string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	if pattern == "" {
		pattern = DefaultDatePattern
	}
	t := time.UnixMilli(ms).In(loc)
	if strings.Contains(pattern, "%") {
		return strftime.Format(pattern, t)
	}
	g, err := goment.New(t)
	if err != nil {
		return t.Format(time.DateTime)
	}
	return g.Format(pattern)
}

// DateCell renders an epoch millisecond timestamp with a relative tooltip.
func DateCell(ms int64, opts Options) Cell {
	return Cell{
		Text:    FormatEpochMillis(ms, opts.DatePattern, opts.Location),
		Tooltip: util.FormatRelative(ms),
	}
}

// RenderJSONText renders a config value. By default the value is returned
// unchanged. With pretty set, a value that is a JSON object is re-indented
// with four spaces; anything else, invalid JSON included, is returned as is.
func RenderJSONText(s string, pretty bool) string {
	if !pretty {
		return s
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return s
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(trimmed), "", "    "); err != nil {
		return s
	}
	return buf.String()
}

// RenderLink decides whether a cluster cell is a live link. Only a
// monitored cluster (status 1) gets an enabled link carrying href.
func RenderLink(status int, href string) LinkState {
	if status != model.StatusActive {
		return LinkState{}
	}
	return LinkState{Enabled: true, Href: href}
}

// Cluster detail tabs addressed by the summary columns.
const (
	TabOverview       = 1
	TabTopics         = 2
	TabBrokers        = 3
	TabConsumerGroups = 4
	TabRegions        = 5
	TabController     = 7
)

// ClusterHref is the drill-down target for one tab of a cluster.
func ClusterHref(basePath string, clusterID int64, tab int) string {
	return fmt.Sprintf("%s/admin/cluster-detail?clusterId=%d#%d", strings.TrimRight(basePath, "/"), clusterID, tab)
}

// FileHref is the detail target of an uploaded file version.
func FileHref(basePath string, fileID int64) string {
	return fmt.Sprintf("%s/info?fileId=%d", strings.TrimRight(basePath, "/"), fileID)
}

// ActionsCell is the row-actions cell bound to one record id.
func ActionsCell(kind model.Kind, id string) Cell {
	acts := action.Row(kind, id)
	labels := make([]string, len(acts))
	for i, a := range acts {
		labels[i] = a.Verb.String()
	}
	return Cell{Text: strings.Join(labels, " "), Actions: acts}
}

// ListCell renders partition ids as chips with the full list joined by
// '、' in the tooltip.
func ListCell(ids []int, tone Tone) Cell {
	tags := strings.Fields(util.FormatIntList(ids, " "))
	return Cell{
		Text:    strings.Join(tags, " "),
		Tooltip: util.FormatIntList(ids, "、"),
		Tags:    tags,
		Tone:    tone,
	}
}

// TextCell renders s with the full value as its tooltip.
func TextCell(s string) Cell {
	return Cell{Text: s, Tooltip: s}
}
