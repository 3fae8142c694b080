package repo

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"
)

const tablePartition = "kanban"

// TableKV stores each slot as one Azure Table entity in a fixed partition,
// with the slot key as row key.
type TableKV struct {
	client *aztables.Client
}

type slotEntity struct {
	aztables.Entity
	Value string `json:"Value"`
}

// NewTableKV connects to the table and creates it when missing.
func NewTableKV(ctx context.Context, connStr, table string) (*TableKV, error) {
	opts := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    30 * time.Second,
				RetryDelay:    time.Second,
				MaxRetryDelay: 10 * time.Second,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &opts)
	if err != nil {
		return nil, err
	}
	client := svc.NewClient(table)
	if _, err := client.CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return nil, err
		}
	}
	return &TableKV{client: client}, nil
}

func (t *TableKV) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := t.client.GetEntity(ctx, tablePartition, key, nil)
	if isTableNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var ent slotEntity
	if err := sonic.Unmarshal(resp.Value, &ent); err != nil {
		return "", false, err
	}
	return ent.Value, true, nil
}

func (t *TableKV) Set(ctx context.Context, key, value string) error {
	payload, err := sonic.Marshal(slotEntity{
		Entity: aztables.Entity{PartitionKey: tablePartition, RowKey: key},
		Value:  value,
	})
	if err != nil {
		return err
	}
	_, err = t.client.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	return err
}

func isTableNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
