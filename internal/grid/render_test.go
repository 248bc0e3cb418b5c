package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kmadmin/internal/model"
)

func TestFormatEpochMillis(t *testing.T) {
	tests := []struct {
		name    string
		ms      int64
		pattern string
		want    string
	}{
		{"epoch", 0, "YYYY-MM-DD HH:mm:ss", "1970-01-01 00:00:00"},
		{"known instant", 1700000000000, "YYYY-MM-DD HH:mm:ss", "2023-11-14 22:13:20"},
		{"empty pattern uses default", 1700000000000, "", "2023-11-14 22:13:20"},
		{"date only", 1700000000000, "YYYY/MM/DD", "2023/11/14"},
		{"short year and unpadded", 1700000000000, "D/M/YY", "14/11/23"},
		{"month name", 1700000000000, "MMM D, YYYY", "Nov 14, 2023"},
		{"twelve hour", 1700000000000, "hh:mm A", "10:13 PM"},
		{"millis", 1700000000123, "HH:mm:ss.SSS", "22:13:20.123"},
		{"bracket literal", 1700000000000, "[at] HH:mm", "at 22:13"},
		{"bracket literal with digits", 1700000000000, "[Q1] YYYY", "Q1 2023"},
		{"bracket literal that looks like a token", 1700000000000, "YYYY [Mon]", "2023 Mon"},
		{"ordinal day", 1700000000000, "Do MMM", "14th Nov"},
		{"weekday", 1700000000000, "dddd", "Tuesday"},
		{"strftime", 1700000000000, "%Y-%m-%d %H:%M:%S", "2023-11-14 22:13:20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEpochMillis(tt.ms, tt.pattern, time.UTC))
		})
	}
}

func TestFormatEpochMillisLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "2023-11-15 07:13:20", FormatEpochMillis(1700000000000, DefaultDatePattern, tokyo))
}

func TestRenderJSONText(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		pretty bool
		want   string
	}{
		{"raw object kept by default", `{"a":1}`, false, `{"a":1}`},
		{"plain text kept by default", "hello", false, "hello"},
		{"pretty object", `{"a":1}`, true, "{\n    \"a\": 1\n}"},
		{"pretty nested", `{"a":{"b":[1,2]}}`, true, "{\n    \"a\": {\n        \"b\": [\n            1,\n            2\n        ]\n    }\n}"},
		{"pretty invalid json", `{not json}`, true, `{not json}`},
		{"pretty plain text", "hello", true, "hello"},
		{"pretty array is not an object", `[1,2]`, true, `[1,2]`},
		{"pretty surrounding space", `  {"a":1} `, true, "{\n    \"a\": 1\n}"},
		{"empty", "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderJSONText(tt.in, tt.pretty))
		})
	}
}

func TestRenderLink(t *testing.T) {
	href := ClusterHref("/kafka", 9, TabBrokers)
	assert.Equal(t, "/kafka/admin/cluster-detail?clusterId=9#3", href)

	assert.Equal(t, LinkState{Enabled: true, Href: href}, RenderLink(model.StatusActive, href))
	assert.Equal(t, LinkState{}, RenderLink(0, href))
	assert.Equal(t, LinkState{}, RenderLink(2, href))
}

func TestFileHref(t *testing.T) {
	assert.Equal(t, "/kafka/info?fileId=5", FileHref("/kafka", 5))
	assert.Equal(t, "/info?fileId=5", FileHref("", 5))
}

func TestActionsCell(t *testing.T) {
	cell := ActionsCell(model.KindConfig, "retention.ms")
	assert.Len(t, cell.Actions, 2)
	for _, a := range cell.Actions {
		assert.Equal(t, "retention.ms", a.ID)
		assert.Equal(t, model.KindConfig, a.Kind)
	}
}

func TestCellStyleApply(t *testing.T) {
	var none *CellStyle
	assert.Equal(t, "unchanged", none.Apply("unchanged"))

	clip := &CellStyle{MaxWidth: 4}
	assert.Equal(t, "abcd", clip.Apply("abcdef"))

	ell := &CellStyle{MaxWidth: 4, Ellipsis: true}
	assert.Equal(t, "abc…", ell.Apply("abcdef"))
	assert.Equal(t, "abc", ell.Apply("abc"))
}

func TestDateCellTooltip(t *testing.T) {
	cell := DateCell(time.Now().Add(-48*time.Hour).UnixMilli(), utcOptions())
	assert.Equal(t, "2 days ago", cell.Tooltip)
}
