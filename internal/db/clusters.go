package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kmadmin/internal/model"
	"kmadmin/internal/util"
)

const clusterColumns = `cluster_id, cluster_name, topic_num, broker_num, consumer_group_num, region_num, controller_id, status`

func scanCluster(s interface{ Scan(...any) error }) (model.ClusterSummary, error) {
	var c model.ClusterSummary
	err := s.Scan(&c.ClusterID, &c.ClusterName, &c.TopicNum, &c.BrokerNum, &c.ConsumerGroupNum, &c.RegionNum, &c.ControllerID, &c.Status)
	return c, err
}

// ListClusters retrieves all cluster summaries ordered by id.
func ListClusters(ctx context.Context, q Querier) ([]model.ClusterSummary, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+clusterColumns+` FROM clusters ORDER BY cluster_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}
	defer rows.Close()

	var results []model.ClusterSummary
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cluster row: %w", err)
		}
		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cluster rows: %w", err)
	}

	return results, nil
}

// GetCluster retrieves a single cluster summary by id.
func GetCluster(ctx context.Context, q Querier, id int64) (model.ClusterSummary, error) {
	c, err := scanCluster(q.QueryRowContext(ctx, `SELECT `+clusterColumns+` FROM clusters WHERE cluster_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ClusterSummary{}, fmt.Errorf("cluster %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.ClusterSummary{}, fmt.Errorf("failed to get cluster: %w", err)
	}
	return c, nil
}

// UpsertCluster creates or replaces a cluster summary.
func UpsertCluster(ctx context.Context, q Querier, c model.ClusterSummary) error {
	query := `
		INSERT INTO clusters (` + clusterColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cluster_id) DO UPDATE SET
			cluster_name = excluded.cluster_name,
			topic_num = excluded.topic_num,
			broker_num = excluded.broker_num,
			consumer_group_num = excluded.consumer_group_num,
			region_num = excluded.region_num,
			controller_id = excluded.controller_id,
			status = excluded.status
	`
	_, err := q.ExecContext(ctx, query, c.ClusterID, c.ClusterName, c.TopicNum, c.BrokerNum, c.ConsumerGroupNum, c.RegionNum, c.ControllerID, c.Status)
	if err != nil {
		return fmt.Errorf("failed to save cluster: %w", err)
	}
	return nil
}

// ListPartitions retrieves the per-topic partition summaries of a cluster.
func ListPartitions(ctx context.Context, q Querier, clusterID int64) ([]model.PartitionSummary, error) {
	query := `
		SELECT cluster_id, topic_name, leader_partitions, follower_partitions, in_sync_partitions
		FROM partitions
		WHERE cluster_id = ?
		ORDER BY topic_name
	`
	rows, err := q.QueryContext(ctx, query, clusterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	defer rows.Close()

	var results []model.PartitionSummary
	for rows.Next() {
		var p model.PartitionSummary
		var leaders, followers, inSync string
		if err := rows.Scan(&p.ClusterID, &p.TopicName, &leaders, &followers, &inSync); err != nil {
			return nil, fmt.Errorf("failed to scan partition row: %w", err)
		}
		if p.LeaderPartitionList, err = decodeIDs(leaders); err != nil {
			return nil, err
		}
		if p.FollowerPartitionIDList, err = decodeIDs(followers); err != nil {
			return nil, err
		}
		if p.NotUnderReplicatedPartitionIDList, err = decodeIDs(inSync); err != nil {
			return nil, err
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partition rows: %w", err)
	}

	return results, nil
}

// UpsertPartition creates or replaces the partition summary of one topic.
func UpsertPartition(ctx context.Context, q Querier, p model.PartitionSummary) error {
	query := `
		INSERT INTO partitions (cluster_id, topic_name, leader_partitions, follower_partitions, in_sync_partitions)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cluster_id, topic_name) DO UPDATE SET
			leader_partitions = excluded.leader_partitions,
			follower_partitions = excluded.follower_partitions,
			in_sync_partitions = excluded.in_sync_partitions
	`
	_, err := q.ExecContext(ctx, query, p.ClusterID, p.TopicName,
		encodeIDs(p.LeaderPartitionList),
		encodeIDs(p.FollowerPartitionIDList),
		encodeIDs(p.NotUnderReplicatedPartitionIDList),
	)
	if err != nil {
		return fmt.Errorf("failed to save partition: %w", err)
	}
	return nil
}

// Partition id lists are stored as comma separated text.
func encodeIDs(ids []int) string {
	return util.FormatIntList(ids, ",")
}

func decodeIDs(s string) ([]int, error) {
	ids, err := util.ParseIntList(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode partition ids %q: %w", s, err)
	}
	return ids, nil
}
