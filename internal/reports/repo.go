// Package reports provides a repository for report documents in DynamoDB.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by the repository.
type DynamoAPI interface {
	UpdateItem(
		ctx context.Context,
		params *dynamodb.UpdateItemInput,
		optFns ...func(*dynamodb.Options),
	) (*dynamodb.UpdateItemOutput, error)
}

// Repo wraps a DynamoDB client and table name for report operations.
type Repo struct {
	DB    DynamoAPI
	Table string
}

// MergeAI writes the classification block onto the report with the given id.
// UpdateItem with SET touches only the `ai` attribute: sibling fields written
// by the mobile client are never clobbered, and the document is created if it
// does not exist yet.
func (r *Repo) MergeAI(ctx context.Context, reportID string, result AIResult) error {
	ai, err := attributevalue.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal ai result: %w", err)
	}

	_, err = r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &r.Table,
		Key: map[string]ddbtypes.AttributeValue{
			"id": &ddbtypes.AttributeValueMemberS{Value: reportID},
		},
		UpdateExpression: awsStr("SET ai = :ai"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":ai": ai,
		},
	})
	if err != nil {
		return fmt.Errorf("merge ai for report %s: %w", reportID, err)
	}
	return nil
}

// awsStr is a helper to get a pointer to a string literal.
func awsStr(s string) *string { return &s }

// NowISO returns the current time in ISO8601 format.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }
