package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kmadmin/internal/grid"
	"kmadmin/internal/model"
	"kmadmin/internal/util"
)

type detailTab struct {
	id   int
	name string
}

var clusterTabs = []detailTab{
	{grid.TabOverview, "Overview"},
	{grid.TabTopics, "Topics"},
	{grid.TabBrokers, "Brokers"},
	{grid.TabConsumerGroups, "Consumer Groups"},
	{grid.TabRegions, "Regions"},
	{grid.TabController, "Controller"},
}

// ClusterDetailModel shows one cluster with its partition table.
type ClusterDetailModel struct {
	cluster    model.ClusterSummary
	partitions *tableModel[model.PartitionSummary]
	tab        int
}

// NewClusterDetailModel creates a cluster detail screen on the given tab.
// Unknown tabs fall back to the overview.
func NewClusterDetailModel(cluster model.ClusterSummary, partitions []model.PartitionSummary, tab int, opts grid.Options) *ClusterDetailModel {
	m := &ClusterDetailModel{
		cluster:    cluster,
		partitions: newTableModel("topics", "No partition assignments recorded for this cluster.", grid.Partitions(opts), partitions),
		tab:        grid.TabOverview,
	}
	m.SetTab(tab)
	return m
}

// SetTab selects a tab by id and reports whether it exists.
func (m *ClusterDetailModel) SetTab(id int) bool {
	for _, t := range clusterTabs {
		if t.id == id {
			m.tab = id
			return true
		}
	}
	return false
}

// Tab returns the selected tab id.
func (m *ClusterDetailModel) Tab() int {
	return m.tab
}

func (m *ClusterDetailModel) tabIndex() int {
	for i, t := range clusterTabs {
		if t.id == m.tab {
			return i
		}
	}
	return 0
}

func (m *ClusterDetailModel) NextTab() {
	m.tab = clusterTabs[(m.tabIndex()+1)%len(clusterTabs)].id
}

func (m *ClusterDetailModel) PrevTab() {
	i := m.tabIndex() - 1
	if i < 0 {
		i = len(clusterTabs) - 1
	}
	m.tab = clusterTabs[i].id
}

// View renders the tab strip, the summary for the selected tab and the
// partition table.
func (m *ClusterDetailModel) View(width, height int) string {
	var tabs []string
	for _, t := range clusterTabs {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(ColorMuted)
		if t.id == m.tab {
			style = style.Foreground(ColorText).Bold(true).Underline(true)
		}
		tabs = append(tabs, style.Render(t.name))
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Left, tabs...)

	summary := PanelStyle.Width(width - 4).Render(strings.Join(m.summaryFields(), "\n"))

	used := lipgloss.Height(strip) + lipgloss.Height(summary)
	table := m.partitions.View(width, max(4, height-used))

	return lipgloss.JoinVertical(lipgloss.Left, strip, summary, table)
}

func (m *ClusterDetailModel) summaryFields() []string {
	c := m.cluster
	status := lipgloss.NewStyle().Foreground(ColorRed).Render("paused")
	if c.Monitored() {
		status = lipgloss.NewStyle().Foreground(ColorGreen).Render("monitored")
	}

	fields := []string{
		renderField("Cluster", fmt.Sprintf("%s (#%d)", c.ClusterName, c.ClusterID)),
		LabelStyle.Render("Status:") + " " + status,
	}
	switch m.tab {
	case grid.TabTopics:
		fields = append(fields, renderField("Topics", util.FormatCount(int64(c.TopicNum))))
	case grid.TabBrokers:
		fields = append(fields, renderField("Brokers", util.FormatCount(int64(c.BrokerNum))))
	case grid.TabConsumerGroups:
		fields = append(fields, renderField("Consumer Groups", util.FormatCount(int64(c.ConsumerGroupNum))))
	case grid.TabRegions:
		fields = append(fields, renderField("Regions", util.FormatCount(int64(c.RegionNum))))
	case grid.TabController:
		controller := "none"
		if c.ControllerID >= 0 {
			controller = "broker " + strconv.FormatInt(c.ControllerID, 10)
		}
		fields = append(fields, renderField("Controller", controller))
	default:
		fields = append(fields,
			renderField("Topics", util.FormatCount(int64(c.TopicNum))),
			renderField("Brokers", util.FormatCount(int64(c.BrokerNum))),
			renderField("Consumer Groups", util.FormatCount(int64(c.ConsumerGroupNum))),
			renderField("Regions", util.FormatCount(int64(c.RegionNum))),
		)
	}
	return fields
}

func renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}
