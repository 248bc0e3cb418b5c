package grid

import (
	"fmt"
	"strconv"
	"time"

	"kmadmin/internal/model"
	"kmadmin/internal/util"
)

// Options are the embedding application's display settings.
type Options struct {
	DatePattern string
	BasePath    string
	Location    *time.Location
	// PrettyJSON re-indents JSON object config values.
	PrettyJSON bool
}

// DefaultOptions returns the stock display settings.
func DefaultOptions() Options {
	return Options{
		DatePattern: DefaultDatePattern,
		BasePath:    "/kafka",
		Location:    time.Local,
	}
}

const md5PrefixLen = 8

// Users builds the console user columns.
func Users(Options) []Column[model.User] {
	return mustColumns([]Column[model.User]{
		{
			Title: "Username",
			Key:   "username",
			Width: "35%",
			Value: func(u model.User) any { return u.Username },
		},
		{
			Title: "Operation",
			Key:   "operation",
			Width: "30%",
			Render: func(_ any, u model.User) Cell {
				return ActionsCell(model.KindUser, u.RecordID())
			},
		},
	})
}

// Files builds the uploaded file version columns.
func Files(opts Options) []Column[model.UploadedFile] {
	return mustColumns([]Column[model.UploadedFile]{
		{
			Title:   "ID",
			Key:     "id",
			Value:   func(f model.UploadedFile) any { return f.ID },
			Compare: ByNumber(func(f model.UploadedFile) int64 { return f.ID }, Ascending),
		},
		{
			Title: "File Name",
			Key:   "fileName",
			Value: func(f model.UploadedFile) any { return f.FileName },
			Render: func(_ any, f model.UploadedFile) Cell {
				c := TextCell(f.FileName)
				c.Link = &LinkState{Enabled: true, Href: FileHref(opts.BasePath, f.ID)}
				return c
			},
		},
		{
			Title: "MD5",
			Key:   "fileMd5",
			Value: func(f model.UploadedFile) any { return f.FileMD5 },
			Style: &CellStyle{MaxWidth: 12, Ellipsis: true},
			Render: func(_ any, f model.UploadedFile) Cell {
				return Cell{Text: util.Prefix(f.FileMD5, md5PrefixLen), Tooltip: f.FileMD5}
			},
		},
		{
			Title: "Updated At",
			Key:   "gmtModify",
			Value: func(f model.UploadedFile) any { return f.GmtModify },
			Render: func(_ any, f model.UploadedFile) Cell {
				return DateCell(f.GmtModify, opts)
			},
		},
		{
			Title: "Operator",
			Key:   "operator",
			Value: func(f model.UploadedFile) any { return f.Operator },
		},
		{
			Title: "Description",
			Key:   "description",
			Value: func(f model.UploadedFile) any { return f.Description },
			Style: &CellStyle{MaxWidth: 24, Ellipsis: true},
			Render: func(_ any, f model.UploadedFile) Cell {
				return TextCell(f.Description)
			},
		},
		{
			Title: "Operation",
			Key:   "operation",
			Render: func(_ any, f model.UploadedFile) Cell {
				return ActionsCell(model.KindFile, f.RecordID())
			},
		},
	})
}

// Configs builds the platform config entry columns.
func Configs(opts Options) []Column[model.ConfigEntry] {
	return mustColumns([]Column[model.ConfigEntry]{
		{
			Title:   "Config Key",
			Key:     "configKey",
			Width:   "20%",
			Value:   func(c model.ConfigEntry) any { return c.ConfigKey },
			Compare: ByFirstRune(func(c model.ConfigEntry) string { return c.ConfigKey }, Ascending),
		},
		{
			Title:   "Config Value",
			Key:     "configValue",
			Width:   "30%",
			Value:   func(c model.ConfigEntry) any { return c.ConfigValue },
			Compare: ByFirstRune(func(c model.ConfigEntry) string { return c.ConfigValue }, Ascending),
			Render: func(_ any, c model.ConfigEntry) Cell {
				return Cell{Text: RenderJSONText(c.ConfigValue, opts.PrettyJSON), Tooltip: c.ConfigValue}
			},
		},
		{
			Title:   "Modified At",
			Key:     "gmtModify",
			Width:   "20%",
			Value:   func(c model.ConfigEntry) any { return c.GmtModify },
			Compare: ByNumber(func(c model.ConfigEntry) int64 { return c.GmtModify }, Descending),
			Render: func(_ any, c model.ConfigEntry) Cell {
				return DateCell(c.GmtModify, opts)
			},
		},
		{
			Title: "Description",
			Key:   "configDescription",
			Width: "20%",
			Value: func(c model.ConfigEntry) any { return c.ConfigDescription },
			Style: &CellStyle{MaxWidth: 20, Ellipsis: true},
			Render: func(_ any, c model.ConfigEntry) Cell {
				return TextCell(c.ConfigDescription)
			},
		},
		{
			Title: "Operation",
			Key:   "operation",
			Width: "10%",
			Render: func(_ any, c model.ConfigEntry) Cell {
				return ActionsCell(model.KindConfig, c.RecordID())
			},
		},
	})
}

// Clusters builds the cluster summary columns. Every count column links to
// its tab of the cluster detail page while the cluster is monitored.
func Clusters(opts Options) []Column[model.ClusterSummary] {
	link := func(tab int, text func(model.ClusterSummary) string) func(any, model.ClusterSummary) Cell {
		return func(_ any, c model.ClusterSummary) Cell {
			ls := RenderLink(c.Status, ClusterHref(opts.BasePath, c.ClusterID, tab))
			cell := Cell{Text: text(c), Link: &ls}
			if !ls.Enabled {
				cell.Tone = ToneMuted
			}
			return cell
		}
	}
	count := func(field func(model.ClusterSummary) int) func(model.ClusterSummary) string {
		return func(c model.ClusterSummary) string { return strconv.Itoa(field(c)) }
	}
	topics := func(c model.ClusterSummary) int { return c.TopicNum }
	brokers := func(c model.ClusterSummary) int { return c.BrokerNum }
	groups := func(c model.ClusterSummary) int { return c.ConsumerGroupNum }
	regions := func(c model.ClusterSummary) int { return c.RegionNum }

	return mustColumns([]Column[model.ClusterSummary]{
		{
			Title:   "Cluster ID",
			Key:     "clusterId",
			Value:   func(c model.ClusterSummary) any { return c.ClusterID },
			Compare: ByNumber(func(c model.ClusterSummary) int64 { return c.ClusterID }, Descending),
		},
		{
			Title:   "Cluster Name",
			Key:     "clusterName",
			Value:   func(c model.ClusterSummary) any { return c.ClusterName },
			Compare: ByFirstRune(func(c model.ClusterSummary) string { return c.ClusterName }, Ascending),
			Render:  link(TabOverview, func(c model.ClusterSummary) string { return c.ClusterName }),
		},
		{
			Title:   "Topics",
			Key:     "topicNum",
			Value:   func(c model.ClusterSummary) any { return c.TopicNum },
			Compare: ByNumber(topics, Descending),
			Render:  link(TabTopics, count(topics)),
		},
		{
			Title:   "Brokers",
			Key:     "brokerNum",
			Value:   func(c model.ClusterSummary) any { return c.BrokerNum },
			Compare: ByNumber(brokers, Descending),
			Render:  link(TabBrokers, count(brokers)),
		},
		{
			Title:   "Consumer Groups",
			Key:     "consumerGroupNum",
			Value:   func(c model.ClusterSummary) any { return c.ConsumerGroupNum },
			Compare: ByNumber(groups, Descending),
			Render:  link(TabConsumerGroups, count(groups)),
		},
		{
			Title:   "Regions",
			Key:     "regionNum",
			Value:   func(c model.ClusterSummary) any { return c.RegionNum },
			Compare: ByNumber(regions, Descending),
			Render:  link(TabRegions, count(regions)),
		},
		{
			Title:   "Controller ID",
			Key:     "controllerId",
			Value:   func(c model.ClusterSummary) any { return c.ControllerID },
			Compare: ByNumber(func(c model.ClusterSummary) int64 { return c.ControllerID }, Descending),
			Render: link(TabController, func(c model.ClusterSummary) string {
				return strconv.FormatInt(c.ControllerID, 10)
			}),
		},
		{
			Title:   "Monitored",
			Key:     "status",
			Value:   func(c model.ClusterSummary) any { return c.Status },
			Compare: ByNumber(func(c model.ClusterSummary) int { return c.Status }, Descending),
			Render: func(_ any, c model.ClusterSummary) Cell {
				if c.Monitored() {
					return Cell{Text: "yes", Tone: ToneSuccess}
				}
				return Cell{Text: "no", Tone: ToneFail}
			},
		},
	})
}

// Partitions builds the per-topic partition columns of a cluster.
func Partitions(Options) []Column[model.PartitionSummary] {
	listStyle := func() *CellStyle {
		return &CellStyle{MaxWidth: 30, Ellipsis: true, NoWrap: true, Pointer: true}
	}
	return mustColumns([]Column[model.PartitionSummary]{
		{
			Title: "Topic",
			Key:   "topicName",
			Width: "21%",
			Value: func(p model.PartitionSummary) any { return p.TopicName },
			Render: func(_ any, p model.PartitionSummary) Cell {
				return TextCell(p.TopicName)
			},
		},
		{
			Title: "Leader Partitions",
			Key:   "leaderPartitionList",
			Width: "20%",
			Value: func(p model.PartitionSummary) any { return p.LeaderPartitionList },
			Style: listStyle(),
			Render: func(_ any, p model.PartitionSummary) Cell {
				return ListCell(p.LeaderPartitionList, ToneNone)
			},
		},
		{
			Title: "Follower Partitions",
			Key:   "followerPartitionIdList",
			Width: "22%",
			Value: func(p model.PartitionSummary) any { return p.FollowerPartitionIDList },
			Style: listStyle(),
			Render: func(_ any, p model.PartitionSummary) Cell {
				return ListCell(p.FollowerPartitionIDList, ToneNone)
			},
		},
		{
			Title: "Unsynced Partitions",
			Key:   "notUnderReplicatedPartitionIdList",
			Width: "22%",
			Value: func(p model.PartitionSummary) any { return p.NotUnderReplicatedPartitionIDList },
			Style: listStyle(),
			Render: func(_ any, p model.PartitionSummary) Cell {
				return ListCell(p.NotUnderReplicatedPartitionIDList, ToneWarn)
			},
		},
	})
}

// Describe returns the column headers of kind without binding a record
// type.
func Describe(kind model.Kind, opts Options) ([]Header, error) {
	switch kind {
	case model.KindUser:
		return Headers(Users(opts)), nil
	case model.KindFile:
		return Headers(Files(opts)), nil
	case model.KindConfig:
		return Headers(Configs(opts)), nil
	case model.KindCluster:
		return Headers(Clusters(opts)), nil
	case model.KindPartition:
		return Headers(Partitions(opts)), nil
	}
	return nil, fmt.Errorf("unknown record kind %d", kind)
}
