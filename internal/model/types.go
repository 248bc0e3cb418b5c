package model

import "strconv"

// StatusActive marks a cluster that is being monitored.
const StatusActive = 1

// Role values for console users.
const (
	RoleNormal   = 0
	RoleOperator = 1
	RoleAdmin    = 2
)

// User represents a console account.
type User struct {
	Username string `yaml:"username" json:"username"`
	Role     int    `yaml:"role" json:"role"`
}

// RecordID returns the username.
func (u User) RecordID() string { return u.Username }

// RoleName returns a display name for the role.
func (u User) RoleName() string {
	switch u.Role {
	case RoleAdmin:
		return "admin"
	case RoleOperator:
		return "operator"
	default:
		return "normal"
	}
}

// UploadedFile represents one version of an uploaded config file.
type UploadedFile struct {
	ID          int64  `yaml:"id" json:"id"`
	FileName    string `yaml:"file_name" json:"fileName"`
	FileMD5     string `yaml:"file_md5" json:"fileMd5"`
	GmtModify   int64  `yaml:"gmt_modify" json:"gmtModify"` // epoch milliseconds
	Operator    string `yaml:"operator" json:"operator"`
	Description string `yaml:"description" json:"description"`
}

// RecordID returns the file id as a decimal string.
func (f UploadedFile) RecordID() string { return strconv.FormatInt(f.ID, 10) }

// ConfigEntry represents a platform config key/value pair.
type ConfigEntry struct {
	ConfigKey         string `yaml:"config_key" json:"configKey"`
	ConfigValue       string `yaml:"config_value" json:"configValue"`
	GmtModify         int64  `yaml:"gmt_modify" json:"gmtModify"` // epoch milliseconds
	ConfigDescription string `yaml:"config_description" json:"configDescription"`
}

// RecordID returns the config key.
func (c ConfigEntry) RecordID() string { return c.ConfigKey }

// ClusterSummary is the admin overview row of one Kafka cluster.
type ClusterSummary struct {
	ClusterID        int64  `yaml:"cluster_id" json:"clusterId"`
	ClusterName      string `yaml:"cluster_name" json:"clusterName"`
	TopicNum         int    `yaml:"topic_num" json:"topicNum"`
	BrokerNum        int    `yaml:"broker_num" json:"brokerNum"`
	ConsumerGroupNum int    `yaml:"consumer_group_num" json:"consumerGroupNum"`
	RegionNum        int    `yaml:"region_num" json:"regionNum"`
	ControllerID     int64  `yaml:"controller_id" json:"controllerId"`
	Status           int    `yaml:"status" json:"status"` // 0 paused, 1 monitored
}

// RecordID returns the cluster id as a decimal string.
func (c ClusterSummary) RecordID() string { return strconv.FormatInt(c.ClusterID, 10) }

// Monitored reports whether the cluster is actively monitored.
func (c ClusterSummary) Monitored() bool { return c.Status == StatusActive }

// PartitionSummary lists the partitions a broker leads, follows, and
// has fully in sync for one topic.
type PartitionSummary struct {
	ClusterID                         int64  `yaml:"cluster_id" json:"clusterId"`
	TopicName                         string `yaml:"topic_name" json:"topicName"`
	LeaderPartitionList               []int  `yaml:"leader_partition_list" json:"leaderPartitionList"`
	FollowerPartitionIDList           []int  `yaml:"follower_partition_id_list" json:"followerPartitionIdList"`
	NotUnderReplicatedPartitionIDList []int  `yaml:"not_under_replicated_partition_id_list" json:"notUnderReplicatedPartitionIdList"`
}

// RecordID returns the topic name.
func (p PartitionSummary) RecordID() string { return p.TopicName }

// Record is implemented by every row type shown in a table.
type Record interface {
	RecordID() string
}
